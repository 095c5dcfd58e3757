package subscriptions

import (
	"time"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
)

// lifecycleFor derives the read-time lifecycle of a record. The period is
// inclusive of the end date: a subscription ending today is still in progress.
func lifecycleFor(sub *models.MemberSubscription, now time.Time) enums.LifecycleStatus {
	today := now.UTC().Truncate(24 * time.Hour)
	end := sub.EndDate.UTC().Truncate(24 * time.Hour)
	if !end.Before(today) {
		return enums.LifecycleStatusInProgress
	}
	if sub.PaymentStatus == enums.PaymentStatusComplete {
		return enums.LifecycleStatusCompleted
	}
	return enums.LifecycleStatusExpired
}

// ToDTO maps a subscription model onto its API view at the provided instant.
func ToDTO(sub *models.MemberSubscription, now time.Time) SubscriptionDTO {
	return SubscriptionDTO{
		ID:              sub.ID,
		MemberFirstName: sub.MemberFirstName,
		MemberLastName:  sub.MemberLastName,
		PlanID:          sub.PlanID,
		PlanName:        sub.PlanName,
		StartDate:       sub.StartDate.Format(dateLayout),
		EndDate:         sub.EndDate.Format(dateLayout),
		AmountPaidCents: sub.AmountPaidCents,
		AmountTotal:     sub.AmountTotalCents,
		RemainingCents:  sub.AmountTotalCents - sub.AmountPaidCents,
		PaymentStatus:   sub.PaymentStatus,
		LifecycleStatus: lifecycleFor(sub, now),
		InvoiceID:       sub.InvoiceID,
		CreatedAt:       sub.CreatedAt,
		UpdatedAt:       sub.UpdatedAt,
	}
}

func toDTOs(rows []models.MemberSubscription, now time.Time) []SubscriptionDTO {
	out := make([]SubscriptionDTO, 0, len(rows))
	for i := range rows {
		out = append(out, ToDTO(&rows[i], now))
	}
	return out
}
