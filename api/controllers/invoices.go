package controllers

import (
	"net/http"

	"github.com/fitdeskhq/fitdesk-backend/api/responses"
	invoicesvc "github.com/fitdeskhq/fitdesk-backend/internal/invoices"
	"github.com/fitdeskhq/fitdesk-backend/pkg/logger"
)

// GenerateInvoice renders the invoice for a fully paid subscription. Calling
// it again returns the invoice generated the first time.
func GenerateInvoice(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "subscriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		invoice, err := svc.Generate(r.Context(), id, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
	}
}

// DownloadInvoice streams the stored invoice bytes as an attachment.
func DownloadInvoice(svc invoicesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "subscriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, err := svc.Download(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteFile(w, file.ContentType, file.Number+".html", file.Content)
	}
}
