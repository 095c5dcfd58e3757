package plans

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db"
	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	pkgerrors "github.com/fitdeskhq/fitdesk-backend/pkg/errors"
)

// Service defines the catalog surface used by the controllers.
type Service interface {
	Create(ctx context.Context, input CreatePlanInput) (*PlanDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePlanInput) (*PlanDTO, error)
	Archive(ctx context.Context, id uuid.UUID) (*PlanDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*PlanDTO, error)
	List(ctx context.Context, status *enums.PlanStatus) ([]PlanDTO, error)
}

type planRepository interface {
	Create(ctx context.Context, plan *models.SubscriptionPlan) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error)
	List(ctx context.Context, status *enums.PlanStatus) ([]models.SubscriptionPlan, error)
	Update(ctx context.Context, plan *models.SubscriptionPlan) error
	SetStatus(ctx context.Context, id uuid.UUID, status enums.PlanStatus) error
	CountSubscriptions(ctx context.Context, planID uuid.UUID) (int64, error)
}

type service struct {
	repo planRepository
}

// NewService builds a catalog service.
func NewService(repo planRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("plan repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreatePlanInput) (*PlanDTO, error) {
	plan := &models.SubscriptionPlan{
		Name:         strings.TrimSpace(input.Name),
		Description:  strings.TrimSpace(input.Description),
		PriceCents:   input.PriceCents,
		DurationDays: input.DurationDays,
		Status:       enums.PlanStatusActive,
		Features:     pq.StringArray(input.Features),
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a plan with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create plan")
	}

	dto := planToDTO(plan)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdatePlanInput) (*PlanDTO, error) {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.Status == enums.PlanStatusArchived {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "archived plans cannot be edited")
	}

	plan.Name = strings.TrimSpace(input.Name)
	plan.Description = strings.TrimSpace(input.Description)
	plan.PriceCents = input.PriceCents
	plan.DurationDays = input.DurationDays
	plan.Features = pq.StringArray(input.Features)

	if err := s.repo.Update(ctx, plan); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a plan with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update plan")
	}

	return s.Get(ctx, id)
}

// Archive retires a plan from sale. Plans are never hard-deleted: existing
// member subscriptions keep referencing them.
func (s *service) Archive(ctx context.Context, id uuid.UUID) (*PlanDTO, error) {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan.Status == enums.PlanStatusArchived {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "plan is already archived")
	}

	if err := s.repo.SetStatus(ctx, id, enums.PlanStatusArchived); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "archive plan")
	}
	return s.Get(ctx, id)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*PlanDTO, error) {
	plan, err := s.findPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := planToDTO(plan)
	return &dto, nil
}

func (s *service) List(ctx context.Context, status *enums.PlanStatus) ([]PlanDTO, error) {
	rows, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list plans")
	}
	return plansToDTO(rows), nil
}

func (s *service) findPlan(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id is required")
	}
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find plan")
	}
	return plan, nil
}
