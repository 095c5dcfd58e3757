package payments

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	pkgerrors "github.com/fitdeskhq/fitdesk-backend/pkg/errors"
)

type fakeLedgerRepo struct {
	rows []models.PaymentIncrement
}

func (f *fakeLedgerRepo) InsertWithTx(tx *gorm.DB, inc *models.PaymentIncrement) error {
	inc.ID = uuid.New()
	inc.CreatedAt = time.Now()
	f.rows = append(f.rows, *inc)
	return nil
}

func (f *fakeLedgerRepo) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]models.PaymentIncrement, error) {
	var out []models.PaymentIncrement
	for _, row := range f.rows {
		if row.SubscriptionID == subscriptionID {
			out = append(out, row)
		}
	}
	return out, nil
}

type fakeSubscriptionStore struct {
	subs map[uuid.UUID]*models.MemberSubscription
}

func newFakeSubscriptionStore() *fakeSubscriptionStore {
	return &fakeSubscriptionStore{subs: map[uuid.UUID]*models.MemberSubscription{}}
}

func (f *fakeSubscriptionStore) add(totalCents, paidCents int64, status enums.PaymentStatus) *models.MemberSubscription {
	sub := &models.MemberSubscription{
		ID:               uuid.New(),
		MemberFirstName:  "Ana",
		MemberLastName:   "Lopez",
		PlanName:         "Monthly",
		StartDate:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		AmountTotalCents: totalCents,
		AmountPaidCents:  paidCents,
		PaymentStatus:    status,
	}
	f.subs[sub.ID] = sub
	return sub
}

func (f *fakeSubscriptionStore) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.MemberSubscription, error) {
	sub, ok := f.subs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *sub
	return &clone, nil
}

func (f *fakeSubscriptionStore) ApplyPaymentWithTx(tx *gorm.DB, id uuid.UUID, amountPaidCents int64, status enums.PaymentStatus) error {
	sub, ok := f.subs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sub.AmountPaidCents = amountPaidCents
	sub.PaymentStatus = status
	return nil
}

type passthroughTxRunner struct{}

func (passthroughTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newPaymentService(t *testing.T, ledger *fakeLedgerRepo, subs *fakeSubscriptionStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Ledger:            ledger,
		Subscriptions:     subs,
		TransactionRunner: passthroughTxRunner{},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRecordIncrementPartialThenComplete(t *testing.T) {
	ledger := &fakeLedgerRepo{}
	subs := newFakeSubscriptionStore()
	sub := subs.add(20000, 0, enums.PaymentStatusIncomplete)
	svc := newPaymentService(t, ledger, subs)
	actor := uuid.New()

	first, err := svc.RecordIncrement(context.Background(), sub.ID, actor, RecordIncrementInput{AmountCents: 15000})
	if err != nil {
		t.Fatalf("first increment: %v", err)
	}
	if first.Increment.AmountTotalAfterCents != 15000 {
		t.Fatalf("running total should be 15000, got %d", first.Increment.AmountTotalAfterCents)
	}
	if first.Subscription.PaymentStatus != enums.PaymentStatusIncomplete {
		t.Fatalf("partial payment must stay incomplete")
	}
	if first.Subscription.RemainingCents != 5000 {
		t.Fatalf("remaining should be 5000, got %d", first.Subscription.RemainingCents)
	}

	second, err := svc.RecordIncrement(context.Background(), sub.ID, actor, RecordIncrementInput{AmountCents: 5000})
	if err != nil {
		t.Fatalf("second increment: %v", err)
	}
	if second.Increment.AmountTotalAfterCents != 20000 {
		t.Fatalf("chain total should be 20000, got %d", second.Increment.AmountTotalAfterCents)
	}
	if second.Subscription.PaymentStatus != enums.PaymentStatusComplete {
		t.Fatalf("exact payoff must flip to complete")
	}
}

func TestRecordIncrementRejectsOverpayment(t *testing.T) {
	ledger := &fakeLedgerRepo{}
	subs := newFakeSubscriptionStore()
	sub := subs.add(20000, 0, enums.PaymentStatusIncomplete)
	svc := newPaymentService(t, ledger, subs)

	_, err := svc.RecordIncrement(context.Background(), sub.ID, uuid.New(), RecordIncrementInput{AmountCents: 20001})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if !strings.Contains(typed.Message(), "remaining balance of 20000") {
		t.Fatalf("message must carry the exact remaining balance, got %q", typed.Message())
	}
	if len(ledger.rows) != 0 {
		t.Fatalf("rejected increment must not reach the ledger")
	}
	if subs.subs[sub.ID].AmountPaidCents != 0 {
		t.Fatalf("rejected increment must not move the total")
	}
}

func TestRecordIncrementRejectsNonPositiveAmounts(t *testing.T) {
	ledger := &fakeLedgerRepo{}
	subs := newFakeSubscriptionStore()
	sub := subs.add(20000, 0, enums.PaymentStatusIncomplete)
	svc := newPaymentService(t, ledger, subs)

	for _, amount := range []int64{0, -500} {
		_, err := svc.RecordIncrement(context.Background(), sub.ID, uuid.New(), RecordIncrementInput{AmountCents: amount})
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("amount %d: expected validation error, got %v", amount, err)
		}
	}
	if len(ledger.rows) != 0 {
		t.Fatalf("no increments should land")
	}
}

func TestRecordIncrementRejectsCompleteRecord(t *testing.T) {
	ledger := &fakeLedgerRepo{}
	subs := newFakeSubscriptionStore()
	sub := subs.add(20000, 20000, enums.PaymentStatusComplete)
	svc := newPaymentService(t, ledger, subs)

	_, err := svc.RecordIncrement(context.Background(), sub.ID, uuid.New(), RecordIncrementInput{AmountCents: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on complete record, got %v", err)
	}
}

func TestRecordIncrementUnknownSubscription(t *testing.T) {
	svc := newPaymentService(t, &fakeLedgerRepo{}, newFakeSubscriptionStore())

	_, err := svc.RecordIncrement(context.Background(), uuid.New(), uuid.New(), RecordIncrementInput{AmountCents: 100})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestHistoryReturnsOrderedChain(t *testing.T) {
	ledger := &fakeLedgerRepo{}
	subs := newFakeSubscriptionStore()
	sub := subs.add(20000, 0, enums.PaymentStatusIncomplete)
	svc := newPaymentService(t, ledger, subs)
	actor := uuid.New()

	for _, amount := range []int64{5000, 7000, 8000} {
		if _, err := svc.RecordIncrement(context.Background(), sub.ID, actor, RecordIncrementInput{AmountCents: amount}); err != nil {
			t.Fatalf("increment %d: %v", amount, err)
		}
	}

	history, err := svc.History(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 increments, got %d", len(history))
	}
	wantTotals := []int64{5000, 12000, 20000}
	for i, inc := range history {
		if inc.AmountTotalAfterCents != wantTotals[i] {
			t.Fatalf("increment %d: total %d, want %d", i, inc.AmountTotalAfterCents, wantTotals[i])
		}
	}
}

func TestVerifyChain(t *testing.T) {
	subID := uuid.New()
	valid := []models.PaymentIncrement{
		{ID: uuid.New(), SubscriptionID: subID, AmountAddedCents: 5000, AmountTotalAfterCents: 5000},
		{ID: uuid.New(), SubscriptionID: subID, AmountAddedCents: 7000, AmountTotalAfterCents: 12000},
	}
	if err := VerifyChain(valid); err != nil {
		t.Fatalf("valid chain rejected: %v", err)
	}

	broken := []models.PaymentIncrement{
		{ID: uuid.New(), SubscriptionID: subID, AmountAddedCents: 5000, AmountTotalAfterCents: 5000},
		{ID: uuid.New(), SubscriptionID: subID, AmountAddedCents: 7000, AmountTotalAfterCents: 13000},
	}
	if err := VerifyChain(broken); err == nil {
		t.Fatalf("broken chain must be rejected")
	}

	negative := []models.PaymentIncrement{
		{ID: uuid.New(), SubscriptionID: subID, AmountAddedCents: -100, AmountTotalAfterCents: -100},
	}
	if err := VerifyChain(negative); err == nil {
		t.Fatalf("negative amount must be rejected")
	}

	if err := VerifyChain(nil); err != nil {
		t.Fatalf("empty chain is valid: %v", err)
	}
}
