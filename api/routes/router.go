package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fitdeskhq/fitdesk-backend/api/controllers"
	"github.com/fitdeskhq/fitdesk-backend/api/middleware"
	"github.com/fitdeskhq/fitdesk-backend/internal/attendance"
	authsvc "github.com/fitdeskhq/fitdesk-backend/internal/auth"
	"github.com/fitdeskhq/fitdesk-backend/internal/classes"
	"github.com/fitdeskhq/fitdesk-backend/internal/invoices"
	"github.com/fitdeskhq/fitdesk-backend/internal/payments"
	"github.com/fitdeskhq/fitdesk-backend/internal/plans"
	"github.com/fitdeskhq/fitdesk-backend/internal/reports"
	"github.com/fitdeskhq/fitdesk-backend/internal/subscriptions"
	"github.com/fitdeskhq/fitdesk-backend/pkg/auth/session"
	"github.com/fitdeskhq/fitdesk-backend/pkg/config"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	"github.com/fitdeskhq/fitdesk-backend/pkg/logger"
	"github.com/fitdeskhq/fitdesk-backend/pkg/metrics"
	pkgredis "github.com/fitdeskhq/fitdesk-backend/pkg/redis"
)

// Deps carries everything the route tree wires together.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	HTTPMetrics    *metrics.HTTPMetrics
	PromRegistry   *prometheus.Registry
	Redis          *pkgredis.Client
	SessionChecker session.AccessSessionChecker
	HealthProbes   []func() error

	Auth          authsvc.Service
	Plans         plans.Service
	Subscriptions subscriptions.Service
	Payments      payments.Service
	Invoices      invoices.Service
	Classes       classes.Service
	Attendance    attendance.Service
	Reports       reports.Service
}

// NewRouter builds the full HTTP surface of the dashboard API.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.HealthProbes...))
	})

	if deps.PromRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.PromRegistry, promhttp.HandlerOpts{}))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)

	authed := middleware.Auth(cfg.JWT, deps.SessionChecker, logg)

	r.Route("/api/v1/auth", func(r chi.Router) {
		if deps.Redis != nil {
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", controllers.Login(deps.Auth, logg))
		} else {
			r.Post("/login", controllers.Login(deps.Auth, logg))
		}
		r.Post("/refresh", controllers.Refresh(deps.Auth, logg))
		r.With(authed).Post("/logout", controllers.Logout(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authed, middleware.RequireStaff(logg))
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
		}

		adminOnly := middleware.RequireRole(enums.StaffRoleAdmin, logg)

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", controllers.ListPlans(deps.Plans, logg))
			r.Get("/{planId}", controllers.GetPlan(deps.Plans, logg))
			r.With(adminOnly).Post("/", controllers.CreatePlan(deps.Plans, logg))
			r.With(adminOnly).Put("/{planId}", controllers.UpdatePlan(deps.Plans, logg))
			r.With(adminOnly).Post("/{planId}/archive", controllers.ArchivePlan(deps.Plans, logg))
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Post("/", controllers.CreateSubscription(deps.Subscriptions, logg))
			r.Get("/", controllers.ListSubscriptions(deps.Subscriptions, logg))
			r.Get("/{subscriptionId}", controllers.GetSubscription(deps.Subscriptions, logg))
			r.Put("/{subscriptionId}", controllers.EditSubscription(deps.Subscriptions, logg))
			r.Delete("/{subscriptionId}", controllers.DeleteSubscription(deps.Subscriptions, logg))

			r.Post("/{subscriptionId}/payments", controllers.RecordPayment(deps.Payments, logg))
			r.Get("/{subscriptionId}/payments", controllers.PaymentHistory(deps.Payments, logg))

			r.Post("/{subscriptionId}/invoice", controllers.GenerateInvoice(deps.Invoices, logg))
			r.Get("/{subscriptionId}/invoice", controllers.DownloadInvoice(deps.Invoices, logg))

			r.Get("/{subscriptionId}/attendance", controllers.AttendanceHistory(deps.Attendance, logg))
		})

		r.Route("/classes", func(r chi.Router) {
			r.Post("/", controllers.CreateClass(deps.Classes, logg))
			r.Get("/", controllers.ListClasses(deps.Classes, logg))
			r.Get("/{classId}", controllers.GetClass(deps.Classes, logg))
			r.Put("/{classId}", controllers.UpdateClass(deps.Classes, logg))
			r.Post("/{classId}/cancel", controllers.CancelClass(deps.Classes, logg))

			r.Post("/{classId}/check-ins", controllers.CheckIn(deps.Attendance, logg))
			r.Get("/{classId}/roster", controllers.ClassRoster(deps.Attendance, logg))
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/revenue/monthly", controllers.MonthlyRevenue(deps.Reports, logg))
			r.Get("/outstanding", controllers.OutstandingBalance(deps.Reports, logg))
		})
	})

	return r
}
