package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/fitdeskhq/fitdesk-backend/pkg/auth"
	"github.com/fitdeskhq/fitdesk-backend/pkg/config"
	"github.com/fitdeskhq/fitdesk-backend/pkg/enums"
	"github.com/fitdeskhq/fitdesk-backend/pkg/logger"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "middleware-test-secret",
	Issuer:            "fitdesk-test",
	ExpirationMinutes: 15,
}

type fakeSessionChecker struct {
	ok  bool
	err error
}

func (f *fakeSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return f.ok, f.err
}

func middlewareLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func mintTestToken(t *testing.T, role enums.StaffRole) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	token, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   role,
		JTI:    "session-1",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, userID
}

func TestAuthSeedsContext(t *testing.T) {
	token, userID := mintTestToken(t, enums.StaffRoleEmployee)

	var gotUser, gotRole string
	handler := Auth(testJWTConfig, &fakeSessionChecker{ok: true}, middlewareLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser = UserIDFromContext(r.Context())
			gotRole = RoleFromContext(r.Context())
		}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if gotUser != userID.String() {
		t.Fatalf("expected user %s, got %q", userID, gotUser)
	}
	if gotRole != string(enums.StaffRoleEmployee) {
		t.Fatalf("expected employee role, got %q", gotRole)
	}
}

func TestAuthRejectsMissingCredentials(t *testing.T) {
	handler := Auth(testJWTConfig, &fakeSessionChecker{ok: true}, middlewareLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("handler must not run")
		}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token, _ := mintTestToken(t, enums.StaffRoleAdmin)

	handler := Auth(testJWTConfig, &fakeSessionChecker{ok: false}, middlewareLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("handler must not run")
		}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(testJWTConfig, &fakeSessionChecker{ok: true}, middlewareLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatalf("handler must not run")
		}))

	r := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	r.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireStaff(t *testing.T) {
	cases := []struct {
		role string
		want int
	}{
		{role: string(enums.StaffRoleAdmin), want: http.StatusOK},
		{role: string(enums.StaffRoleEmployee), want: http.StatusOK},
		{role: string(enums.StaffRoleMember), want: http.StatusForbidden},
		{role: "", want: http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run("role_"+tc.role, func(t *testing.T) {
			handler := RequireStaff(middlewareLogger())(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				}))

			r := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions", nil)
			r = r.WithContext(WithRole(r.Context(), tc.role))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)

			if rec.Code != tc.want {
				t.Fatalf("role %q: expected %d, got %d", tc.role, tc.want, rec.Code)
			}
		})
	}
}

func TestRequireRoleAdminOnly(t *testing.T) {
	handler := RequireRole(enums.StaffRoleAdmin, middlewareLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	r := httptest.NewRequest(http.MethodDelete, "/api/v1/plans/abc", nil)
	r = r.WithContext(WithRole(r.Context(), string(enums.StaffRoleEmployee)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employee, got %d", rec.Code)
	}
}
