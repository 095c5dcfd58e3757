package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitdeskhq/fitdesk-backend/internal/subscriptions"
	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
)

// RecordIncrementInput is one partial payment taken at the desk.
type RecordIncrementInput struct {
	AmountCents int64 `json:"amountCents" validate:"required,gt=0"`
}

// IncrementDTO is the API view of one ledger row.
type IncrementDTO struct {
	ID                    uuid.UUID `json:"id"`
	SubscriptionID        uuid.UUID `json:"subscriptionId"`
	AmountAddedCents      int64     `json:"amountAddedCents"`
	AmountTotalAfterCents int64     `json:"amountTotalAfterCents"`
	RecordedBy            uuid.UUID `json:"recordedBy"`
	CreatedAt             time.Time `json:"createdAt"`
}

// RecordIncrementResult returns the new ledger row plus the subscription it
// moved.
type RecordIncrementResult struct {
	Increment    IncrementDTO                  `json:"increment"`
	Subscription subscriptions.SubscriptionDTO `json:"subscription"`
}

func incrementToDTO(inc *models.PaymentIncrement) IncrementDTO {
	return IncrementDTO{
		ID:                    inc.ID,
		SubscriptionID:        inc.SubscriptionID,
		AmountAddedCents:      inc.AmountAddedCents,
		AmountTotalAfterCents: inc.AmountTotalAfterCents,
		RecordedBy:            inc.RecordedBy,
		CreatedAt:             inc.CreatedAt,
	}
}

func incrementsToDTO(rows []models.PaymentIncrement) []IncrementDTO {
	out := make([]IncrementDTO, 0, len(rows))
	for i := range rows {
		out = append(out, incrementToDTO(&rows[i]))
	}
	return out
}
