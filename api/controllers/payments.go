package controllers

import (
	"net/http"

	"github.com/fitdeskhq/fitdesk-backend/api/responses"
	"github.com/fitdeskhq/fitdesk-backend/api/validators"
	paysvc "github.com/fitdeskhq/fitdesk-backend/internal/payments"
	"github.com/fitdeskhq/fitdesk-backend/pkg/logger"
)

// RecordPayment appends a payment increment to a subscription's ledger.
func RecordPayment(svc paysvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload paysvc.RecordIncrementInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.RecordIncrement(r.Context(), id, actor, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// PaymentHistory returns the full increment ledger for a subscription.
func PaymentHistory(svc paysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "subscriptionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.History(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, history)
	}
}
