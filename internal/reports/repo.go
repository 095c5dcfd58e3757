package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
)

// MonthlyTotal is one month's ledger sum straight from the database.
type MonthlyTotal struct {
	Month      time.Time
	TotalCents int64
}

// OutstandingTotal aggregates the unpaid remainder of incomplete records.
type OutstandingTotal struct {
	RecordCount      int64
	OutstandingCents int64
}

// Repository runs the aggregate report queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// MonthlyRevenue sums payment increments per calendar month for one year.
// Months without payments produce no row.
func (r *Repository) MonthlyRevenue(ctx context.Context, year int) ([]MonthlyTotal, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var rows []MonthlyTotal
	err := r.db.WithContext(ctx).
		Model(&models.PaymentIncrement{}).
		Select("date_trunc('month', created_at) AS month, SUM(amount_added_cents) AS total_cents").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("date_trunc('month', created_at)").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Outstanding sums the remaining balance across incomplete records.
func (r *Repository) Outstanding(ctx context.Context) (*OutstandingTotal, error) {
	var total OutstandingTotal
	err := r.db.WithContext(ctx).
		Model(&models.MemberSubscription{}).
		Select("COUNT(*) AS record_count, COALESCE(SUM(amount_total_cents - amount_paid_cents), 0) AS outstanding_cents").
		Where("payment_status = ?", enums.PaymentStatusIncomplete).
		Scan(&total).Error
	if err != nil {
		return nil, err
	}
	return &total, nil
}
