package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitdeskhq/fitdesk-backend/pkg/config"
	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	pkgerrors "github.com/fitdeskhq/fitdesk-backend/pkg/errors"
)

// Service defines the invoice surface.
type Service interface {
	Generate(ctx context.Context, subscriptionID, generatedBy uuid.UUID) (*InvoiceDTO, error)
	Download(ctx context.Context, subscriptionID uuid.UUID) (*File, error)
}

type invoiceRepository interface {
	CreateWithTx(tx *gorm.DB, invoice *models.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID uuid.UUID) (*models.Invoice, error)
	CountForYearWithTx(tx *gorm.DB, year int) (int64, error)
}

type subscriptionStore interface {
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*models.MemberSubscription, error)
	SetInvoiceIDWithTx(tx *gorm.DB, id, invoiceID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams carries the invoice service dependencies.
type ServiceParams struct {
	Invoices          invoiceRepository
	Subscriptions     subscriptionStore
	TransactionRunner txRunner
	Config            config.InvoiceConfig

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

type service struct {
	invoices invoiceRepository
	subs     subscriptionStore
	tx       txRunner
	cfg      config.InvoiceConfig
	now      func() time.Time
}

// NewService builds an invoice service.
func NewService(params ServiceParams) (Service, error) {
	if params.Invoices == nil {
		return nil, fmt.Errorf("invoice repository is required")
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
		invoices: params.Invoices,
		subs:     params.Subscriptions,
		tx:       params.TransactionRunner,
		cfg:      params.Config,
		now:      now,
	}, nil
}

// Generate renders an invoice for a fully paid subscription. Calling it again
// for the same subscription returns the invoice produced the first time.
func (s *service) Generate(ctx context.Context, subscriptionID, generatedBy uuid.UUID) (*InvoiceDTO, error) {
	if subscriptionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id is required")
	}
	if generatedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id is required")
	}

	existing, err := s.invoices.FindBySubscriptionID(ctx, subscriptionID)
	if err == nil {
		return invoiceToDTO(existing), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up invoice")
	}

	var (
		created    models.Invoice
		existingID *uuid.UUID
	)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		sub, err := s.subs.FindByIDForUpdate(tx, subscriptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock subscription")
		}

		// A concurrent generation may have landed between the fast path
		// and the lock.
		if sub.InvoiceID != nil {
			existingID = sub.InvoiceID
			return nil
		}

		if sub.PaymentStatus != enums.PaymentStatusComplete {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				"invoice can only be generated for a fully paid record")
		}

		now := s.now().UTC()
		count, err := s.invoices.CountForYearWithTx(tx, now.Year())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count invoices")
		}
		number := fmt.Sprintf("FD-%d-%04d", now.Year(), count+1)

		content, err := renderInvoice(renderInput{
			BusinessName:    s.cfg.BusinessName,
			BusinessAddress: s.cfg.BusinessAddress,
			Number:          number,
			MemberName:      sub.MemberFirstName + " " + sub.MemberLastName,
			PlanName:        sub.PlanName,
			PeriodStart:     formatDate(sub.StartDate),
			PeriodEnd:       formatDate(sub.EndDate),
			Amount:          formatAmount(sub.AmountPaidCents, s.cfg.CurrencyCode),
			IssuedOn:        formatDate(now),
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render invoice")
		}

		created = models.Invoice{
			SubscriptionID: sub.ID,
			Number:         number,
			AmountCents:    sub.AmountPaidCents,
			ContentType:    invoiceContentType,
			Content:        content,
			GeneratedBy:    generatedBy,
		}
		if err := s.invoices.CreateWithTx(tx, &created); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store invoice")
		}
		return s.subs.SetInvoiceIDWithTx(tx, sub.ID, created.ID)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate invoice")
	}

	if existingID != nil {
		invoice, err := s.invoices.FindByID(ctx, *existingID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load existing invoice")
		}
		return invoiceToDTO(invoice), nil
	}
	return invoiceToDTO(&created), nil
}

// Download returns the invoice bytes stored at generation time.
func (s *service) Download(ctx context.Context, subscriptionID uuid.UUID) (*File, error) {
	if subscriptionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id is required")
	}
	invoice, err := s.invoices.FindBySubscriptionID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no invoice has been generated for this record")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "look up invoice")
	}
	return &File{
		Number:      invoice.Number,
		ContentType: invoice.ContentType,
		Content:     invoice.Content,
	}, nil
}
