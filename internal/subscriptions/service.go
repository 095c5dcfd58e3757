package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	pkgerrors "github.com/fitdeskhq/fitdesk-backend/pkg/errors"
	"github.com/fitdeskhq/fitdesk-backend/pkg/pagination"
)

// Service defines the member subscription surface.
type Service interface {
	Create(ctx context.Context, actor uuid.UUID, input CreateSubscriptionInput) (*SubscriptionDTO, error)
	Edit(ctx context.Context, id uuid.UUID, input EditSubscriptionInput) (*SubscriptionDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*SubscriptionDTO, error)
	List(ctx context.Context, filter ListFilter) (*SubscriptionPage, error)
}

type subscriptionRepository interface {
	Create(ctx context.Context, sub *models.MemberSubscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MemberSubscription, error)
	List(ctx context.Context, filter ListFilter) ([]models.MemberSubscription, error)
	Update(ctx context.Context, sub *models.MemberSubscription) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type planCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionPlan, error)
}

type service struct {
	repo  subscriptionRepository
	plans planCatalog
	now   func() time.Time
}

// ServiceParams bundles the dependencies for the subscription service.
type ServiceParams struct {
	Repo  subscriptionRepository
	Plans planCatalog
	Now   func() time.Time
}

// NewService builds a subscription service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("subscription repository is required")
	}
	if params.Plans == nil {
		return nil, fmt.Errorf("plan catalog is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, plans: params.Plans, now: now}, nil
}

// Create enrolls a member. The end date and owed amount derive from the plan
// at enrollment time and stay fixed if the catalog changes later.
func (s *service) Create(ctx context.Context, actor uuid.UUID, input CreateSubscriptionInput) (*SubscriptionDTO, error) {
	if actor == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor is required")
	}

	plan, err := s.activePlan(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}

	startDate, err := time.Parse(dateLayout, input.StartDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "startDate must be a date (YYYY-MM-DD)")
	}

	sub := &models.MemberSubscription{
		MemberFirstName:  strings.TrimSpace(input.MemberFirstName),
		MemberLastName:   strings.TrimSpace(input.MemberLastName),
		PlanID:           plan.ID,
		PlanName:         plan.Name,
		StartDate:        startDate,
		EndDate:          startDate.AddDate(0, 0, plan.DurationDays),
		AmountPaidCents:  0,
		AmountTotalCents: plan.PriceCents,
		PaymentStatus:    enums.PaymentStatusIncomplete,
		CreatedBy:        actor,
	}
	// A free plan has nothing left to pay.
	if sub.AmountTotalCents == 0 {
		sub.PaymentStatus = enums.PaymentStatusComplete
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create subscription")
	}

	dto := ToDTO(sub, s.now())
	return &dto, nil
}

// Edit corrects a record that has taken no money yet. Once any increment
// lands the record is payment-bearing and only the ledger may change it.
func (s *service) Edit(ctx context.Context, id uuid.UUID, input EditSubscriptionInput) (*SubscriptionDTO, error) {
	sub, err := s.findSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.assertPristine(sub); err != nil {
		return nil, err
	}

	plan, err := s.activePlan(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	startDate, err := time.Parse(dateLayout, input.StartDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "startDate must be a date (YYYY-MM-DD)")
	}

	sub.MemberFirstName = strings.TrimSpace(input.MemberFirstName)
	sub.MemberLastName = strings.TrimSpace(input.MemberLastName)
	sub.PlanID = plan.ID
	sub.PlanName = plan.Name
	sub.StartDate = startDate
	sub.EndDate = startDate.AddDate(0, 0, plan.DurationDays)
	sub.AmountTotalCents = plan.PriceCents
	sub.PaymentStatus = enums.PaymentStatusIncomplete
	if sub.AmountTotalCents == 0 {
		sub.PaymentStatus = enums.PaymentStatusComplete
	}

	if err := s.repo.Update(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update subscription")
	}

	return s.Get(ctx, id)
}

// Delete removes a record that has taken no money yet.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	sub, err := s.findSubscription(ctx, id)
	if err != nil {
		return err
	}
	if err := s.assertPristine(sub); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete subscription")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SubscriptionDTO, error) {
	sub, err := s.findSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(sub, s.now())
	return &dto, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) (*SubscriptionPage, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subscriptions")
	}

	page, next := pagination.TrimPage(rows, filter.Limit, func(row models.MemberSubscription) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})
	return &SubscriptionPage{
		Items:      toDTOs(page, s.now()),
		NextCursor: next,
	}, nil
}

// assertPristine enforces the edit/delete gate: only records with no recorded
// payments may be changed or removed.
func (s *service) assertPristine(sub *models.MemberSubscription) error {
	if sub.PaymentStatus == enums.PaymentStatusComplete {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "record is complete and cannot be modified")
	}
	if sub.AmountPaidCents > 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "modification not allowed: a payment has already been recorded")
	}
	return nil
}

func (s *service) activePlan(ctx context.Context, planID uuid.UUID) (*models.SubscriptionPlan, error) {
	if planID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plan id is required")
	}
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "plan not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find plan")
	}
	if plan.Status != enums.PlanStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "plan is archived")
	}
	return plan, nil
}

func (s *service) findSubscription(ctx context.Context, id uuid.UUID) (*models.MemberSubscription, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id is required")
	}
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find subscription")
	}
	return sub, nil
}
