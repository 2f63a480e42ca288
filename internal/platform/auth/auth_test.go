package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret-0123456789-0123456789")

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken(testSecret, "user-1", "cajero", "Ana Pérez", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("expected subject user-1, got %s", claims.Subject)
	}
	if claims.Rol != "cajero" {
		t.Errorf("expected rol cajero, got %s", claims.Rol)
	}
	if claims.Nombre != "Ana Pérez" {
		t.Errorf("expected nombre Ana Pérez, got %s", claims.Nombre)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, "user-1", "admin", "Admin", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := ParseToken([]byte("another-secret-entirely-padpadpad"), token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := IssueToken(testSecret, "user-1", "admin", "Admin", -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = ParseToken(testSecret, token)
	if err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestMiddlewareSetsIdentity(t *testing.T) {
	token, err := IssueToken(testSecret, "user-9", "recepcion", "Luis", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID, gotRol string
	h := Middleware(testSecret)(func(c echo.Context) error {
		gotID = UserIDFromContext(c.Request().Context())
		gotRol = RoleFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "user-9" {
		t.Errorf("expected user-9, got %s", gotID)
	}
	if gotRol != "recepcion" {
		t.Errorf("expected recepcion, got %s", gotRol)
	}
}

func TestMiddlewareExpiredTokenPayload(t *testing.T) {
	token, err := IssueToken(testSecret, "user-9", "admin", "Admin", -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Middleware(testSecret)(func(c echo.Context) error {
		t.Fatal("handler should not run for expired token")
		return nil
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body SessionExpiredResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body.Error != "session_expired" {
		t.Errorf("expected session_expired, got %s", body.Error)
	}
}

func TestMiddlewareMissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Middleware(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		rol     string
		allowed []string
		wantOK  bool
	}{
		{"exact match", "cajero", []string{"cajero"}, true},
		{"one of several", "recepcion", []string{"cajero", "recepcion"}, true},
		{"admin override", "admin", []string{"cajero"}, true},
		{"forbidden", "medico", []string{"cajero"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := IssueToken(testSecret, "u", tt.rol, "n", time.Hour)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			h := Middleware(testSecret)(RequireRole(tt.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}))

			err = h(c)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusForbidden {
				t.Fatalf("expected 403 HTTPError, got %v", err)
			}
		})
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotRol string
	h := DevAuthMiddleware()(func(c echo.Context) error {
		gotRol = RoleFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRol != "admin" {
		t.Errorf("expected admin, got %s", gotRol)
	}
}
