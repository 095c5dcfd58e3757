package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
)

// Repository exposes payment ledger persistence. Rows are append-only: there
// is deliberately no update or delete.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// InsertWithTx appends one increment inside the caller's transaction.
func (r *Repository) InsertWithTx(tx *gorm.DB, inc *models.PaymentIncrement) error {
	return tx.Create(inc).Error
}

// ListBySubscription returns the full ledger for a record, oldest first, so
// the running-total chain reads in order.
func (r *Repository) ListBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]models.PaymentIncrement, error) {
	var rows []models.PaymentIncrement
	err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
