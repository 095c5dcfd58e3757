package plans

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
)

// Repository exposes plan catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a catalog plan.
func (r *Repository) Create(ctx context.Context, plan *models.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

// FindByID loads a plan by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// List returns plans, optionally filtered by status, ordered by name.
func (r *Repository) List(ctx context.Context, status *enums.PlanStatus) ([]models.SubscriptionPlan, error) {
	query := r.db.WithContext(ctx).Model(&models.SubscriptionPlan{}).Order("name")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.SubscriptionPlan
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the mutable catalog fields.
func (r *Repository) Update(ctx context.Context, plan *models.SubscriptionPlan) error {
	return r.db.WithContext(ctx).
		Model(&models.SubscriptionPlan{}).
		Where("id = ?", plan.ID).
		Updates(map[string]any{
			"name":          plan.Name,
			"description":   plan.Description,
			"price_cents":   plan.PriceCents,
			"duration_days": plan.DurationDays,
			"features":      plan.Features,
		}).Error
}

// SetStatus flips the plan between active and archived.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.PlanStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.SubscriptionPlan{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// CountSubscriptions reports how many member subscriptions reference the plan.
func (r *Repository) CountSubscriptions(ctx context.Context, planID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.MemberSubscription{}).
		Where("plan_id = ?", planID).
		Count(&count).Error
	return count, err
}
