package controllers

import (
	"net/http"
	"strings"

	"github.com/fitdeskhq/fitdesk-backend/api/responses"
	"github.com/fitdeskhq/fitdesk-backend/api/validators"
	classsvc "github.com/fitdeskhq/fitdesk-backend/internal/classes"
	"github.com/fitdeskhq/fitdesk-backend/pkg/logger"
	"github.com/fitdeskhq/fitdesk-backend/pkg/pagination"
)

// CreateClass schedules a class on the calendar.
func CreateClass(svc classsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload classsvc.CreateClassInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		class, err := svc.Create(r.Context(), actor, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, class)
	}
}

// UpdateClass edits a scheduled class.
func UpdateClass(svc classsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "classId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload classsvc.UpdateClassInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		class, err := svc.Update(r.Context(), id, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, class)
	}
}

// CancelClass takes a scheduled class off the calendar.
func CancelClass(svc classsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "classId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		class, err := svc.Cancel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, class)
	}
}

// GetClass loads a single class.
func GetClass(svc classsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "classId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		class, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, class)
	}
}

// ListClasses returns one cursor page of the calendar, soonest first.
func ListClasses(svc classsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), classsvc.ListFilter{
			From:   from,
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
