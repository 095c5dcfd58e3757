package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice is the rendered receipt for a fully paid subscription. Content is
// produced once at generation time and served verbatim afterwards.
type Invoice struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SubscriptionID uuid.UUID `gorm:"column:subscription_id;type:uuid;not null;uniqueIndex"`
	Number         string    `gorm:"column:number;not null;uniqueIndex"`
	AmountCents    int64     `gorm:"column:amount_cents;not null"`
	ContentType    string    `gorm:"column:content_type;not null;default:'text/html'"`
	Content        []byte    `gorm:"column:content;not null"`
	GeneratedBy    uuid.UUID `gorm:"column:generated_by;type:uuid;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
