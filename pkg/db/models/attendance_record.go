package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord marks one subscription checked into one class session.
// The (session, subscription) pair is unique so a member cannot check in twice.
type AttendanceRecord struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID      uuid.UUID `gorm:"column:session_id;type:uuid;not null;uniqueIndex:idx_attendance_session_subscription"`
	SubscriptionID uuid.UUID `gorm:"column:subscription_id;type:uuid;not null;uniqueIndex:idx_attendance_session_subscription"`
	CheckedInBy    uuid.UUID `gorm:"column:checked_in_by;type:uuid;not null"`
	CheckedInAt    time.Time `gorm:"column:checked_in_at;autoCreateTime"`
}
