package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
)

// SubscriptionPlan is a catalog entry staff sell at the desk. Plans referenced
// by any member subscription are never deleted, only archived.
type SubscriptionPlan struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string           `gorm:"column:name;not null;uniqueIndex"`
	Description  string           `gorm:"column:description"`
	PriceCents   int64            `gorm:"column:price_cents;not null"`
	DurationDays int              `gorm:"column:duration_days;not null"`
	Status       enums.PlanStatus `gorm:"column:status;not null;default:'active'"`
	Features     pq.StringArray   `gorm:"column:features;type:text[];default:ARRAY[]::text[]"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
