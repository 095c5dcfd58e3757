package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fitdeskhq/fitdesk-backend/internal/attendance"
	authsvc "github.com/fitdeskhq/fitdesk-backend/internal/auth"
	"github.com/fitdeskhq/fitdesk-backend/internal/classes"
	"github.com/fitdeskhq/fitdesk-backend/internal/invoices"
	"github.com/fitdeskhq/fitdesk-backend/internal/payments"
	"github.com/fitdeskhq/fitdesk-backend/internal/plans"
	"github.com/fitdeskhq/fitdesk-backend/internal/reports"
	"github.com/fitdeskhq/fitdesk-backend/internal/subscriptions"
	pkgAuth "github.com/fitdeskhq/fitdesk-backend/pkg/auth"
	"github.com/fitdeskhq/fitdesk-backend/pkg/config"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	pkgerrors "github.com/fitdeskhq/fitdesk-backend/pkg/errors"
	"github.com/fitdeskhq/fitdesk-backend/pkg/logger"
	"github.com/fitdeskhq/fitdesk-backend/pkg/metrics"
)

var routerJWTConfig = config.JWTConfig{
	Secret:            "router-test-secret",
	Issuer:            "fitdesk-test",
	ExpirationMinutes: 15,
}

type allowAllSessions struct{}

func (allowAllSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
}

func (stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.RefreshResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error { return nil }

type stubPlanService struct{}

func (stubPlanService) Create(ctx context.Context, input plans.CreatePlanInput) (*plans.PlanDTO, error) {
	return &plans.PlanDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (stubPlanService) Update(ctx context.Context, id uuid.UUID, input plans.UpdatePlanInput) (*plans.PlanDTO, error) {
	return &plans.PlanDTO{ID: id, Name: input.Name}, nil
}

func (stubPlanService) Archive(ctx context.Context, id uuid.UUID) (*plans.PlanDTO, error) {
	return &plans.PlanDTO{ID: id}, nil
}

func (stubPlanService) Get(ctx context.Context, id uuid.UUID) (*plans.PlanDTO, error) {
	return &plans.PlanDTO{ID: id}, nil
}

func (stubPlanService) List(ctx context.Context, status *enums.PlanStatus) ([]plans.PlanDTO, error) {
	return []plans.PlanDTO{}, nil
}

type stubSubscriptionService struct{}

func (stubSubscriptionService) Create(ctx context.Context, actor uuid.UUID, input subscriptions.CreateSubscriptionInput) (*subscriptions.SubscriptionDTO, error) {
	return &subscriptions.SubscriptionDTO{ID: uuid.New()}, nil
}

func (stubSubscriptionService) Edit(ctx context.Context, id uuid.UUID, input subscriptions.EditSubscriptionInput) (*subscriptions.SubscriptionDTO, error) {
	return &subscriptions.SubscriptionDTO{ID: id}, nil
}

func (stubSubscriptionService) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (stubSubscriptionService) Get(ctx context.Context, id uuid.UUID) (*subscriptions.SubscriptionDTO, error) {
	return &subscriptions.SubscriptionDTO{ID: id}, nil
}

func (stubSubscriptionService) List(ctx context.Context, filter subscriptions.ListFilter) (*subscriptions.SubscriptionPage, error) {
	return &subscriptions.SubscriptionPage{Items: []subscriptions.SubscriptionDTO{}}, nil
}

type stubPaymentService struct{}

func (stubPaymentService) RecordIncrement(ctx context.Context, subscriptionID, recordedBy uuid.UUID, input payments.RecordIncrementInput) (*payments.RecordIncrementResult, error) {
	return &payments.RecordIncrementResult{}, nil
}

func (stubPaymentService) History(ctx context.Context, subscriptionID uuid.UUID) ([]payments.IncrementDTO, error) {
	return []payments.IncrementDTO{}, nil
}

type stubInvoiceService struct{}

func (stubInvoiceService) Generate(ctx context.Context, subscriptionID, generatedBy uuid.UUID) (*invoices.InvoiceDTO, error) {
	return &invoices.InvoiceDTO{SubscriptionID: subscriptionID, Number: "FD-2026-0001"}, nil
}

func (stubInvoiceService) Download(ctx context.Context, subscriptionID uuid.UUID) (*invoices.File, error) {
	return &invoices.File{Number: "FD-2026-0001", ContentType: "text/html; charset=utf-8", Content: []byte("<html></html>")}, nil
}

type stubClassService struct{}

func (stubClassService) Create(ctx context.Context, actorID uuid.UUID, input classes.CreateClassInput) (*classes.ClassDTO, error) {
	return &classes.ClassDTO{ID: uuid.New()}, nil
}

func (stubClassService) Get(ctx context.Context, id uuid.UUID) (*classes.ClassDTO, error) {
	return &classes.ClassDTO{ID: id}, nil
}

func (stubClassService) List(ctx context.Context, filter classes.ListFilter) (*classes.ClassPage, error) {
	return &classes.ClassPage{Items: []classes.ClassDTO{}}, nil
}

func (stubClassService) Update(ctx context.Context, id uuid.UUID, input classes.UpdateClassInput) (*classes.ClassDTO, error) {
	return &classes.ClassDTO{ID: id}, nil
}

func (stubClassService) Cancel(ctx context.Context, id uuid.UUID) (*classes.ClassDTO, error) {
	return &classes.ClassDTO{ID: id}, nil
}

type stubAttendanceService struct{}

func (stubAttendanceService) CheckIn(ctx context.Context, sessionID, checkedInBy uuid.UUID, input attendance.CheckInInput) (*attendance.CheckInResult, error) {
	return &attendance.CheckInResult{SessionID: sessionID}, nil
}

func (stubAttendanceService) Roster(ctx context.Context, sessionID uuid.UUID) ([]attendance.RosterEntry, error) {
	return []attendance.RosterEntry{}, nil
}

func (stubAttendanceService) History(ctx context.Context, subscriptionID uuid.UUID) ([]attendance.HistoryEntry, error) {
	return []attendance.HistoryEntry{}, nil
}

type stubReportService struct{}

func (stubReportService) MonthlyRevenue(ctx context.Context, year int) (*reports.MonthlyRevenueReport, error) {
	return &reports.MonthlyRevenueReport{Year: year}, nil
}

func (stubReportService) Outstanding(ctx context.Context) (*reports.OutstandingReport, error) {
	return &reports.OutstandingReport{}, nil
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{JWT: routerJWTConfig}
	cfg.App.Env = "test"
	cfg.CORS.AllowedOrigins = []string{"http://localhost:3000"}

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})
	registry := prometheus.NewRegistry()

	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logg,
		HTTPMetrics:    metrics.NewHTTPMetrics(registry),
		PromRegistry:   registry,
		SessionChecker: allowAllSessions{},
		Auth:           stubAuthService{},
		Plans:          stubPlanService{},
		Subscriptions:  stubSubscriptionService{},
		Payments:       stubPaymentService{},
		Invoices:       stubInvoiceService{},
		Classes:        stubClassService{},
		Attendance:     stubAttendanceService{},
		Reports:        stubReportService{},
	})
}

func bearerFor(t *testing.T, role enums.StaffRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(routerJWTConfig, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    "router-session",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return "Bearer " + token
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router := testRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, rec.Code)
		}
	}
}

func TestMetricsEndpointIsExposed(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics returned %d", rec.Code)
	}
}

func TestStaffSurfaceRequiresAuth(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
}

func TestEmployeeCanReadSubscriptions(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions", nil)
	r.Header.Set("Authorization", bearerFor(t, enums.StaffRoleEmployee))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestPlanMutationsAreAdminOnly(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/plans",
		strings.NewReader(`{"name":"Monthly","priceCents":5000,"durationDays":30}`))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", bearerFor(t, enums.StaffRoleEmployee))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("employee plan create should be 403, got %d", rec.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	r.Header.Set("Authorization", bearerFor(t, enums.StaffRoleEmployee))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("employee plan read should pass, got %d", rec.Code)
	}
}

func TestReportsAreAdminOnly(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/reports/outstanding", nil)
	r.Header.Set("Authorization", bearerFor(t, enums.StaffRoleEmployee))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("employee reports access should be 403, got %d", rec.Code)
	}

	r = httptest.NewRequest(http.MethodGet, "/api/v1/reports/outstanding", nil)
	r.Header.Set("Authorization", bearerFor(t, enums.StaffRoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin reports access should pass, got %d", rec.Code)
	}
}

func TestMemberRoleIsRejectedFromStaffSurface(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions", nil)
	r.Header.Set("Authorization", bearerFor(t, enums.StaffRoleMember))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member access should be 403, got %d", rec.Code)
	}
}

func TestInvoiceDownloadSetsDisposition(t *testing.T) {
	router := testRouter(t)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/"+uuid.NewString()+"/invoice", nil)
	r.Header.Set("Authorization", bearerFor(t, enums.StaffRoleEmployee))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	if rec.Code != http.StatusOK {
		t.Fatalf("download returned %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); got != `attachment; filename="FD-2026-0001.html"` {
		t.Fatalf("disposition %q", got)
	}
}
