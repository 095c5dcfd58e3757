package classes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	"github.com/fitdeskhq/fitdesk-backend/pkg/pagination"
)

// Repository exposes class session persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a class session.
func (r *Repository) Create(ctx context.Context, session *models.ClassSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// FindByID loads a class session by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.ClassSession, error) {
	var session models.ClassSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// FindByIDForUpdate loads a session under a row lock inside the supplied
// transaction. Check-ins serialize on this lock to enforce capacity.
func (r *Repository) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.ClassSession, error) {
	var session models.ClassSession
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&session, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// List returns one cursor page of the calendar ordered by start time. The
// cursor's time component is the session's starts_at.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.ClassSession, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ClassSession{}).
		Order("starts_at ASC, id ASC").
		Limit(pagination.LimitWithBuffer(filter.Limit))

	if filter.From != nil {
		query = query.Where("starts_at >= ?", *filter.From)
	}

	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(starts_at > ?) OR (starts_at = ? AND id > ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.ClassSession
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the schedulable fields.
func (r *Repository) Update(ctx context.Context, session *models.ClassSession) error {
	return r.db.WithContext(ctx).
		Model(&models.ClassSession{}).
		Where("id = ?", session.ID).
		Updates(map[string]any{
			"title":            session.Title,
			"coach_name":       session.CoachName,
			"starts_at":        session.StartsAt,
			"duration_minutes": session.DurationMinutes,
			"capacity":         session.Capacity,
		}).Error
}

// SetStatus moves the session between scheduled, canceled and completed.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.ClassSessionStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.ClassSession{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
