package subscriptions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	"github.com/fitdeskhq/fitdesk-backend/pkg/pagination"
)

// Repository exposes member subscription persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a subscription record.
func (r *Repository) Create(ctx context.Context, sub *models.MemberSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// FindByID loads a record by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MemberSubscription, error) {
	var sub models.MemberSubscription
	if err := r.db.WithContext(ctx).First(&sub, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindByIDForUpdate loads a record under a row lock inside the supplied
// transaction. Payment recording serializes on this lock.
func (r *Repository) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.MemberSubscription, error) {
	var sub models.MemberSubscription
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sub, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// List returns one cursor page of records, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.MemberSubscription, error) {
	query := r.db.WithContext(ctx).
		Model(&models.MemberSubscription{}).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit))

	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}

	cursor, err := pagination.ParseCursor(filter.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.MemberSubscription
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists the pre-payment editable fields.
func (r *Repository) Update(ctx context.Context, sub *models.MemberSubscription) error {
	return r.db.WithContext(ctx).
		Model(&models.MemberSubscription{}).
		Where("id = ?", sub.ID).
		Updates(map[string]any{
			"member_first_name":  sub.MemberFirstName,
			"member_last_name":   sub.MemberLastName,
			"plan_id":            sub.PlanID,
			"plan_name":          sub.PlanName,
			"start_date":         sub.StartDate,
			"end_date":           sub.EndDate,
			"amount_total_cents": sub.AmountTotalCents,
			"payment_status":     sub.PaymentStatus,
		}).Error
}

// Delete removes a record. The service layer guarantees no payments exist.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.MemberSubscription{}, "id = ?", id).Error
}

// ApplyPaymentWithTx bumps the running total and payment status inside the
// caller's transaction.
func (r *Repository) ApplyPaymentWithTx(tx *gorm.DB, id uuid.UUID, amountPaidCents int64, status enums.PaymentStatus) error {
	return tx.Model(&models.MemberSubscription{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"amount_paid_cents": amountPaidCents,
			"payment_status":    status,
		}).Error
}

// SetInvoiceIDWithTx links the generated invoice inside the caller's transaction.
func (r *Repository) SetInvoiceIDWithTx(tx *gorm.DB, id, invoiceID uuid.UUID) error {
	return tx.Model(&models.MemberSubscription{}).
		Where("id = ?", id).
		UpdateColumn("invoice_id", invoiceID).Error
}
