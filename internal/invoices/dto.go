package invoices

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitdeskhq/fitdesk-backend/pkg/db/models"
)

// InvoiceDTO is the API-facing shape of a generated invoice. The rendered
// content travels separately through Download.
type InvoiceDTO struct {
	ID             uuid.UUID `json:"id"`
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	Number         string    `json:"number"`
	AmountCents    int64     `json:"amountCents"`
	CreatedAt      time.Time `json:"createdAt"`
}

// File carries the rendered invoice bytes for the download endpoint.
type File struct {
	Number      string
	ContentType string
	Content     []byte
}

func invoiceToDTO(invoice *models.Invoice) *InvoiceDTO {
	return &InvoiceDTO{
		ID:             invoice.ID,
		SubscriptionID: invoice.SubscriptionID,
		Number:         invoice.Number,
		AmountCents:    invoice.AmountCents,
		CreatedAt:      invoice.CreatedAt,
	}
}
