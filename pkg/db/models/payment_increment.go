package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentIncrement records one partial payment against a member subscription.
// Rows are append-only; AmountTotalAfterCents forms a verifiable running-total
// chain with the prior increment.
type PaymentIncrement struct {
	ID                    uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SubscriptionID        uuid.UUID `gorm:"column:subscription_id;type:uuid;not null;index"`
	AmountAddedCents      int64     `gorm:"column:amount_added_cents;not null"`
	AmountTotalAfterCents int64     `gorm:"column:amount_total_after_cents;not null"`
	RecordedBy            uuid.UUID `gorm:"column:recorded_by;type:uuid;not null"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime"`
}
