package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
)

// ClassSession is one scheduled group class on the gym calendar.
type ClassSession struct {
	ID              uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title           string                   `gorm:"column:title;not null"`
	CoachName       string                   `gorm:"column:coach_name;not null"`
	StartsAt        time.Time                `gorm:"column:starts_at;not null;index"`
	DurationMinutes int                      `gorm:"column:duration_minutes;not null"`
	Capacity        int                      `gorm:"column:capacity;not null"`
	Status          enums.ClassSessionStatus `gorm:"column:status;not null;default:'scheduled'"`
	CreatedBy       uuid.UUID                `gorm:"column:created_by;type:uuid;not null"`
	CreatedAt       time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
