package attendance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
)

// Repository exposes attendance persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InsertWithTx records a check-in inside the caller's transaction. The unique
// (session, subscription) index rejects duplicates at the database level.
func (r *Repository) InsertWithTx(tx *gorm.DB, record *models.AttendanceRecord) error {
	return tx.Create(record).Error
}

// CountBySessionWithTx counts check-ins for a session inside the caller's
// transaction, while the session row is locked.
func (r *Repository) CountBySessionWithTx(tx *gorm.DB, sessionID uuid.UUID) (int64, error) {
	var count int64
	err := tx.Model(&models.AttendanceRecord{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

// Roster lists a session's check-ins joined with member details, in check-in order.
func (r *Repository) Roster(ctx context.Context, sessionID uuid.UUID) ([]RosterEntry, error) {
	var rows []RosterEntry
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Select(`attendance_records.id,
			attendance_records.session_id,
			attendance_records.subscription_id,
			member_subscriptions.member_first_name,
			member_subscriptions.member_last_name,
			member_subscriptions.plan_name,
			attendance_records.checked_in_at`).
		Joins("JOIN member_subscriptions ON member_subscriptions.id = attendance_records.subscription_id").
		Where("attendance_records.session_id = ?", sessionID).
		Order("attendance_records.checked_in_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// History lists the classes a subscription attended, most recent class first.
func (r *Repository) History(ctx context.Context, subscriptionID uuid.UUID) ([]HistoryEntry, error) {
	var rows []HistoryEntry
	err := r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Select(`attendance_records.id,
			attendance_records.session_id,
			class_sessions.title AS class_title,
			class_sessions.coach_name,
			class_sessions.starts_at,
			attendance_records.checked_in_at`).
		Joins("JOIN class_sessions ON class_sessions.id = attendance_records.session_id").
		Where("attendance_records.subscription_id = ?", subscriptionID).
		Order("class_sessions.starts_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
