package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
)

// MemberSubscription is one enrollment of a walk-in member into a catalog plan.
// AmountPaidCents only ever grows, and only through payment increments recorded
// in the same transaction that bumps it.
type MemberSubscription struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MemberFirstName  string              `gorm:"column:member_first_name;not null"`
	MemberLastName   string              `gorm:"column:member_last_name;not null"`
	PlanID           uuid.UUID           `gorm:"column:plan_id;type:uuid;not null;index"`
	Plan             *SubscriptionPlan   `gorm:"foreignKey:PlanID"`
	PlanName         string              `gorm:"column:plan_name;not null"`
	StartDate        time.Time           `gorm:"column:start_date;type:date;not null"`
	EndDate          time.Time           `gorm:"column:end_date;type:date;not null"`
	AmountPaidCents  int64               `gorm:"column:amount_paid_cents;not null;default:0"`
	AmountTotalCents int64               `gorm:"column:amount_total_cents;not null"`
	PaymentStatus    enums.PaymentStatus `gorm:"column:payment_status;not null;default:'incomplete'"`
	InvoiceID        *uuid.UUID          `gorm:"column:invoice_id;type:uuid"`
	CreatedBy        uuid.UUID           `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
