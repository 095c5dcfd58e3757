package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db"
	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	pkgerrors "github.com/fitdeskhq/fitdesk-backend/pkg/errors"
)

// Service defines the attendance surface.
type Service interface {
	CheckIn(ctx context.Context, sessionID, checkedInBy uuid.UUID, input CheckInInput) (*CheckInResult, error)
	Roster(ctx context.Context, sessionID uuid.UUID) ([]RosterEntry, error)
	History(ctx context.Context, subscriptionID uuid.UUID) ([]HistoryEntry, error)
}

type attendanceRepository interface {
	InsertWithTx(tx *gorm.DB, record *models.AttendanceRecord) error
	CountBySessionWithTx(tx *gorm.DB, sessionID uuid.UUID) (int64, error)
	Roster(ctx context.Context, sessionID uuid.UUID) ([]RosterEntry, error)
	History(ctx context.Context, subscriptionID uuid.UUID) ([]HistoryEntry, error)
}

type classStore interface {
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.ClassSession, error)
}

type subscriptionStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.MemberSubscription, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams carries the attendance service dependencies.
type ServiceParams struct {
	Repo              attendanceRepository
	Classes           classStore
	Subscriptions     subscriptionStore
	TransactionRunner txRunner
}

type service struct {
	repo    attendanceRepository
	classes classStore
	subs    subscriptionStore
	tx      txRunner
}

// NewService builds an attendance service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("attendance repository is required")
	}
	if params.Classes == nil {
		return nil, fmt.Errorf("class store is required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription store is required")
	}
	if params.TransactionRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		repo:    params.Repo,
		classes: params.Classes,
		subs:    params.Subscriptions,
		tx:      params.TransactionRunner,
	}, nil
}

// CheckIn adds a subscription to a session's roster. The session row is
// locked while counting so concurrent check-ins cannot exceed capacity.
func (s *service) CheckIn(ctx context.Context, sessionID, checkedInBy uuid.UUID, input CheckInInput) (*CheckInResult, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if input.SubscriptionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id is required")
	}
	if checkedInBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id is required")
	}

	sub, err := s.subs.FindByID(ctx, input.SubscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load subscription")
	}

	var result CheckInResult
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		session, err := s.classes.FindByIDForUpdate(tx, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "class not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock class session")
		}

		if session.Status != enums.ClassSessionStatusScheduled {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict,
				"cannot check in to a %s class", session.Status)
		}
		if !coversDate(sub, session.StartsAt) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				"subscription is not active on the class date")
		}

		count, err := s.repo.CountBySessionWithTx(tx, sessionID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count roster")
		}
		if count >= int64(session.Capacity) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "class is at capacity")
		}

		record := models.AttendanceRecord{
			SessionID:      sessionID,
			SubscriptionID: input.SubscriptionID,
			CheckedInBy:    checkedInBy,
		}
		if err := s.repo.InsertWithTx(tx, &record); err != nil {
			if db.IsUniqueViolation(err, "idx_attendance_session_subscription") {
				return pkgerrors.New(pkgerrors.CodeConflict,
					"member is already checked in to this class")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record check-in")
		}

		result = CheckInResult{
			ID:             record.ID,
			SessionID:      sessionID,
			SubscriptionID: input.SubscriptionID,
			CheckedInAt:    record.CheckedInAt,
			RosterCount:    count + 1,
			Capacity:       session.Capacity,
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check in")
	}
	return &result, nil
}

func (s *service) Roster(ctx context.Context, sessionID uuid.UUID) ([]RosterEntry, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	entries, err := s.repo.Roster(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load roster")
	}
	return entries, nil
}

func (s *service) History(ctx context.Context, subscriptionID uuid.UUID) ([]HistoryEntry, error) {
	if subscriptionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id is required")
	}
	entries, err := s.repo.History(ctx, subscriptionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load attendance history")
	}
	return entries, nil
}

// coversDate reports whether the subscription period includes the class day.
// The end date is inclusive.
func coversDate(sub *models.MemberSubscription, at time.Time) bool {
	day := at.UTC().Truncate(24 * time.Hour)
	start := sub.StartDate.UTC().Truncate(24 * time.Hour)
	end := sub.EndDate.UTC().Truncate(24 * time.Hour)
	return !day.Before(start) && !day.After(end)
}
