package plans

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
)

// CreatePlanInput captures a new catalog entry.
type CreatePlanInput struct {
	Name         string   `json:"name" validate:"required,min=2,max=120"`
	Description  string   `json:"description" validate:"max=2000"`
	PriceCents   int64    `json:"priceCents" validate:"min=0"`
	DurationDays int      `json:"durationDays" validate:"required,min=1,max=3650"`
	Features     []string `json:"features" validate:"max=50,dive,max=200"`
}

// UpdatePlanInput carries the mutable catalog fields. Existing member
// subscriptions keep their denormalized plan name and price.
type UpdatePlanInput struct {
	Name         string   `json:"name" validate:"required,min=2,max=120"`
	Description  string   `json:"description" validate:"max=2000"`
	PriceCents   int64    `json:"priceCents" validate:"min=0"`
	DurationDays int      `json:"durationDays" validate:"required,min=1,max=3650"`
	Features     []string `json:"features" validate:"max=50,dive,max=200"`
}

// PlanDTO is the API view of a catalog plan.
type PlanDTO struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	PriceCents   int64            `json:"priceCents"`
	DurationDays int              `json:"durationDays"`
	Features     []string         `json:"features"`
	Status       enums.PlanStatus `json:"status"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func planToDTO(plan *models.SubscriptionPlan) PlanDTO {
	features := make([]string, 0, len(plan.Features))
	features = append(features, plan.Features...)
	return PlanDTO{
		ID:           plan.ID,
		Name:         plan.Name,
		Description:  plan.Description,
		PriceCents:   plan.PriceCents,
		DurationDays: plan.DurationDays,
		Features:     features,
		Status:       plan.Status,
		CreatedAt:    plan.CreatedAt,
		UpdatedAt:    plan.UpdatedAt,
	}
}

func plansToDTO(rows []models.SubscriptionPlan) []PlanDTO {
	out := make([]PlanDTO, 0, len(rows))
	for i := range rows {
		out = append(out, planToDTO(&rows[i]))
	}
	return out
}
