package reports

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fitdeskhq/fitdesk-backend/pkg/config"
	pkgerrors "github.com/fitdeskhq/fitdesk-backend/pkg/errors"
)

// Service defines the financial reporting surface.
type Service interface {
	MonthlyRevenue(ctx context.Context, year int) (*MonthlyRevenueReport, error)
	Outstanding(ctx context.Context) (*OutstandingReport, error)
}

type reportsRepository interface {
	MonthlyRevenue(ctx context.Context, year int) ([]MonthlyTotal, error)
	Outstanding(ctx context.Context) (*OutstandingTotal, error)
}

// ServiceParams carries the reports service dependencies.
type ServiceParams struct {
	Repo   reportsRepository
	Config config.InvoiceConfig
}

type service struct {
	repo reportsRepository
	cfg  config.InvoiceConfig
}

// NewService builds a reporting service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("reports repository is required")
	}
	return &service{repo: params.Repo, cfg: params.Config}, nil
}

// MonthlyRevenue reports ledger income per month of the given year. Every
// month appears in the output, zero-filled when no payment landed.
func (s *service) MonthlyRevenue(ctx context.Context, year int) (*MonthlyRevenueReport, error) {
	if year < 2000 || year > 2200 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "year is out of range")
	}

	totals, err := s.repo.MonthlyRevenue(ctx, year)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate monthly revenue")
	}

	byMonth := make(map[int]int64, len(totals))
	for _, row := range totals {
		byMonth[int(row.Month.UTC().Month())] += row.TotalCents
	}

	report := &MonthlyRevenueReport{
		Year:     year,
		Currency: s.cfg.CurrencyCode,
		Months:   make([]MonthRevenue, 0, 12),
	}
	for month := 1; month <= 12; month++ {
		cents := byMonth[month]
		report.TotalCents += cents
		report.Months = append(report.Months, MonthRevenue{
			Month:      fmt.Sprintf("%d-%02d", year, month),
			TotalCents: cents,
			Total:      centsToUnits(cents),
		})
	}
	report.Total = centsToUnits(report.TotalCents)
	return report, nil
}

func (s *service) Outstanding(ctx context.Context) (*OutstandingReport, error) {
	total, err := s.repo.Outstanding(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregate outstanding balance")
	}
	return &OutstandingReport{
		Currency:         s.cfg.CurrencyCode,
		RecordCount:      total.RecordCount,
		OutstandingCents: total.OutstandingCents,
		Outstanding:      centsToUnits(total.OutstandingCents),
	}, nil
}

// centsToUnits renders cents as exact currency units with two decimals.
func centsToUnits(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
