//go:build db
// +build db

package subscriptions

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("FITDESK_DB_DSN")
	if dsn == "" {
		t.Skip("FITDESK_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

func seedPlan(t *testing.T, tx *gorm.DB) *models.SubscriptionPlan {
	t.Helper()
	plan := &models.SubscriptionPlan{
		ID:           uuid.New(),
		Name:         "Monthly " + uuid.NewString(),
		PriceCents:   20000,
		DurationDays: 30,
		Status:       enums.PlanStatusActive,
	}
	if err := tx.Create(plan).Error; err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return plan
}

func TestRepositorySubscriptionFlow(t *testing.T) {
	conn := openTestDB(t)
	tx := conn.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	t.Cleanup(func() {
		_ = tx.Rollback()
	})

	repo := NewRepository(tx)
	ctx := context.Background()
	plan := seedPlan(t, tx)

	sub := &models.MemberSubscription{
		ID:               uuid.New(),
		MemberFirstName:  "Ana",
		MemberLastName:   "Lopez",
		PlanID:           plan.ID,
		PlanName:         plan.Name,
		StartDate:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		AmountTotalCents: plan.PriceCents,
		PaymentStatus:    enums.PaymentStatusIncomplete,
		CreatedBy:        uuid.New(),
	}
	if err := repo.Create(ctx, sub); err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	loaded, err := repo.FindByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("find subscription: %v", err)
	}
	if loaded.AmountPaidCents != 0 || loaded.PaymentStatus != enums.PaymentStatusIncomplete {
		t.Fatalf("fresh record should be unpaid, got %+v", loaded)
	}

	locked, err := repo.FindByIDForUpdate(tx, sub.ID)
	if err != nil {
		t.Fatalf("lock subscription: %v", err)
	}
	if err := repo.ApplyPaymentWithTx(tx, locked.ID, 20000, enums.PaymentStatusComplete); err != nil {
		t.Fatalf("apply payment: %v", err)
	}

	paid, err := repo.FindByID(ctx, sub.ID)
	if err != nil {
		t.Fatalf("reload subscription: %v", err)
	}
	if paid.AmountPaidCents != 20000 || paid.PaymentStatus != enums.PaymentStatusComplete {
		t.Fatalf("payment not applied: %+v", paid)
	}

	page, err := repo.List(ctx, ListFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list subscriptions: %v", err)
	}
	found := false
	for _, row := range page {
		if row.ID == sub.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("created record missing from listing")
	}
}
