package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/internal/subscriptions"
	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	pkgerrors "github.com/fitdeskhq/fitdesk-backend/pkg/errors"
)

// Service defines the payment ledger surface.
type Service interface {
	RecordIncrement(ctx context.Context, subscriptionID, recordedBy uuid.UUID, input RecordIncrementInput) (*RecordIncrementResult, error)
	History(ctx context.Context, subscriptionID uuid.UUID) ([]IncrementDTO, error)
}

type ledgerRepository interface {
	InsertWithTx(tx *gorm.DB, inc *models.PaymentIncrement) error
	ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]models.PaymentIncrement, error)
}

type subscriptionStore interface {
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.MemberSubscription, error)
	ApplyPaymentWithTx(tx *gorm.DB, id uuid.UUID, amountPaidCents int64, status enums.PaymentStatus) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	ledger ledgerRepository
	subs   subscriptionStore
	tx     txRunner
	now    func() time.Time
}

// ServiceParams bundles the dependencies for the payment service.
type ServiceParams struct {
	Ledger            ledgerRepository
	Subscriptions     subscriptionStore
	TransactionRunner txRunner
	Now               func() time.Time
}

// NewService builds a payment ledger service.
func NewService(params ServiceParams) (Service, error) {
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger repository is required")
	}
	if params.Subscriptions == nil {
		return nil, fmt.Errorf("subscription store is required")
	}
	if params.TransactionRunner == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		ledger: params.Ledger,
		subs:   params.Subscriptions,
		tx:     params.TransactionRunner,
		now:    now,
	}, nil
}

// RecordIncrement appends one payment to the ledger and bumps the
// subscription's running total in the same transaction. The subscription row
// is locked for the duration so two desks cannot overshoot the balance.
func (s *service) RecordIncrement(ctx context.Context, subscriptionID, recordedBy uuid.UUID, input RecordIncrementInput) (*RecordIncrementResult, error) {
	if subscriptionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id is required")
	}
	if recordedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor is required")
	}
	if input.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a positive number of cents")
	}

	var (
		increment models.PaymentIncrement
		updated   models.MemberSubscription
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		sub, err := s.subs.FindByIDForUpdate(tx, subscriptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock subscription")
		}

		if sub.PaymentStatus == enums.PaymentStatusComplete {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "record is complete and cannot accept payments")
		}

		remaining := sub.AmountTotalCents - sub.AmountPaidCents
		if input.AmountCents > remaining {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict,
				"amount exceeds remaining balance of %d", remaining)
		}

		newPaid := sub.AmountPaidCents + input.AmountCents
		status := enums.PaymentStatusIncomplete
		if newPaid == sub.AmountTotalCents {
			status = enums.PaymentStatusComplete
		}

		increment = models.PaymentIncrement{
			SubscriptionID:        sub.ID,
			AmountAddedCents:      input.AmountCents,
			AmountTotalAfterCents: newPaid,
			RecordedBy:            recordedBy,
		}
		if err := s.ledger.InsertWithTx(tx, &increment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append increment")
		}
		if err := s.subs.ApplyPaymentWithTx(tx, sub.ID, newPaid, status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "apply payment")
		}

		updated = *sub
		updated.AmountPaidCents = newPaid
		updated.PaymentStatus = status
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record increment")
	}

	return &RecordIncrementResult{
		Increment:    incrementToDTO(&increment),
		Subscription: subscriptions.ToDTO(&updated, s.now()),
	}, nil
}

// History returns the full ledger for a subscription after verifying the
// running-total chain is intact.
func (s *service) History(ctx context.Context, subscriptionID uuid.UUID) ([]IncrementDTO, error) {
	if subscriptionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id is required")
	}
	rows, err := s.ledger.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list increments")
	}
	if err := VerifyChain(rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "ledger integrity")
	}
	return incrementsToDTO(rows), nil
}

// VerifyChain checks that each increment's running total equals the prior
// total plus its own amount. An intact chain reconstructs amountPaidCents
// from zero.
func VerifyChain(rows []models.PaymentIncrement) error {
	var runningTotal int64
	for i := range rows {
		inc := &rows[i]
		if inc.AmountAddedCents <= 0 {
			return fmt.Errorf("increment %s has non-positive amount %d", inc.ID, inc.AmountAddedCents)
		}
		expected := runningTotal + inc.AmountAddedCents
		if inc.AmountTotalAfterCents != expected {
			return fmt.Errorf("increment %s breaks the chain: total after %d, expected %d",
				inc.ID, inc.AmountTotalAfterCents, expected)
		}
		runningTotal = expected
	}
	return nil
}
