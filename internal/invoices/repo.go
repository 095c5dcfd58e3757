package invoices

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
)

// Repository exposes invoice persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithTx inserts an invoice inside the caller's transaction.
func (r *Repository) CreateWithTx(tx *gorm.DB, invoice *models.Invoice) error {
	return tx.Create(invoice).Error
}

// FindByID loads an invoice by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// FindBySubscriptionID loads the invoice generated for a subscription, if any.
func (r *Repository) FindBySubscriptionID(ctx context.Context, subscriptionID uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "subscription_id = ?", subscriptionID).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// CountForYearWithTx counts invoices already numbered in the given year. The
// unique index on number catches the rare race where two generations land in
// the same transaction window.
func (r *Repository) CountForYearWithTx(tx *gorm.DB, year int) (int64, error) {
	var count int64
	err := tx.Model(&models.Invoice{}).
		Where("number LIKE ?", fmt.Sprintf("FD-%d-%%", year)).
		Count(&count).Error
	return count, err
}
