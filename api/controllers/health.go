package controllers

import (
	"net/http"

	"github.com/fitdeskhq/fitdesk-backend/api/responses"
	"github.com/fitdeskhq/fitdesk-backend/pkg/config"
	pkgerrors "github.com/fitdeskhq/fitdesk-backend/pkg/errors"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FitDesk-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness of the process. Dependency probes are wired
// by the router.
func HealthReady(cfg *config.Config, probes ...func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-FitDesk-Env", cfg.App.Env)
		for _, probe := range probes {
			if err := probe(); err != nil {
				responses.WriteError(r.Context(), nil, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dependency unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
