package packages

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	appmw "github.com/shipnix/shipnix-express/internal/middleware"
	"github.com/shipnix/shipnix-express/internal/models"
)

// newTestServer wires the handler behind the real admin guard. The stub
// auth middleware injects identity from headers so tests can pick a role
// without minting tokens.
func newTestServer(fr *fakeRepo) *echo.Echo {
	e := echo.New()
	svc := NewService(fr, nil, nil, "ST-", "https://ship.example.com")
	h := NewHandler(svc)

	stubAuth := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("userID", c.Request().Header.Get("X-Test-User"))
			c.Set("userRole", c.Request().Header.Get("X-Test-Role"))
			return next(c)
		}
	}
	admin := e.Group("/api", stubAuth, appmw.RequireAdmin)
	public := e.Group("/api/public")
	h.RegisterRoutes(admin, public)
	return e
}

func TestHandlerUpdateStatusForbiddenForNonAdmin(t *testing.T) {
	fr := newFakeRepo()
	e := newTestServer(fr)
	svc := NewService(fr, nil, nil, "ST-", "")
	pkg, _, _ := svc.Create(context.Background(), "admin-1", validCreateReq())

	body := `{"status":"in_transit"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/packages/"+pkg.ID+"/status", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Test-User", "cust-1")
	req.Header.Set("X-Test-Role", models.RoleCustomer)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d; want 403", rec.Code)
	}
	// The rejected call must not have touched the package.
	got, _ := fr.FindByID(context.Background(), pkg.ID)
	if got.CurrentStatus != models.StatusCreated {
		t.Errorf("CurrentStatus = %s; want created (unchanged)", got.CurrentStatus)
	}
	if len(fr.events[pkg.ID]) != 1 {
		t.Errorf("events = %d; want 1 (unchanged)", len(fr.events[pkg.ID]))
	}
}

func TestHandlerUpdateStatusRejectsBadStatus(t *testing.T) {
	fr := newFakeRepo()
	e := newTestServer(fr)
	svc := NewService(fr, nil, nil, "ST-", "")
	pkg, _, _ := svc.Create(context.Background(), "admin-1", validCreateReq())

	body := `{"status":"bouncing"}`
	req := httptest.NewRequest(http.MethodPatch, "/api/packages/"+pkg.ID+"/status", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Test-User", "admin-1")
	req.Header.Set("X-Test-Role", models.RoleAdmin)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
	if len(fr.events[pkg.ID]) != 1 {
		t.Errorf("events = %d; want 1 (no write on rejected status)", len(fr.events[pkg.ID]))
	}
}

func TestHandlerCreatePackage(t *testing.T) {
	fr := newFakeRepo()
	e := newTestServer(fr)

	body := `{
		"sender_name": "Acme Exports",
		"sender_address": "1 Industrial Way",
		"recipient_name": "Jane Doe",
		"recipient_address": "42 Elm Street",
		"weight_kg": 2.5,
		"payment_method": "card"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/packages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Test-User", "admin-1")
	req.Header.Set("X-Test-Role", models.RoleAdmin)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d; want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Package     models.Package `json:"package"`
		TrackingURL string         `json:"tracking_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !strings.HasPrefix(resp.Package.TrackingCode, "ST-") {
		t.Errorf("TrackingCode = %q; want ST- prefix", resp.Package.TrackingCode)
	}
	if !strings.HasSuffix(resp.TrackingURL, resp.Package.TrackingCode) {
		t.Errorf("tracking_url = %q; want suffix %q", resp.TrackingURL, resp.Package.TrackingCode)
	}
	if resp.Package.CreatedBy != "admin-1" {
		t.Errorf("CreatedBy = %s; want admin-1", resp.Package.CreatedBy)
	}
}

func TestHandlerCreateRejectsBadPaymentMethod(t *testing.T) {
	fr := newFakeRepo()
	e := newTestServer(fr)

	body := `{
		"sender_name": "Acme Exports",
		"sender_address": "1 Industrial Way",
		"recipient_name": "Jane Doe",
		"recipient_address": "42 Elm Street",
		"weight_kg": 2.5,
		"payment_method": "cowrie_shells"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/packages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-Test-User", "admin-1")
	req.Header.Set("X-Test-Role", models.RoleAdmin)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", rec.Code)
	}
	if len(fr.packages) != 0 {
		t.Errorf("packages stored = %d; want 0", len(fr.packages))
	}
}

func TestHandlerPublicTrackUnknown(t *testing.T) {
	fr := newFakeRepo()
	e := newTestServer(fr)

	req := httptest.NewRequest(http.MethodGet, "/api/public/track/ST-NOSUCHPKG", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", rec.Code)
	}
	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Message != "Tracking number not found" {
		t.Errorf("message = %q; want %q", resp.Message, "Tracking number not found")
	}
}

func TestHandlerPublicTrackOmitsContactInfo(t *testing.T) {
	fr := newFakeRepo()
	e := newTestServer(fr)
	svc := NewService(fr, nil, nil, "ST-", "")
	pkg, _, _ := svc.Create(context.Background(), "admin-1", validCreateReq())

	req := httptest.NewRequest(http.MethodGet, "/api/public/track/"+pkg.TrackingCode, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", rec.Code)
	}
	raw := rec.Body.String()
	// The public payload must not leak identifiers or contact details.
	for _, forbidden := range []string{"jane@example.com", "+15550002222", pkg.ID, "created_by", "payment_method"} {
		if strings.Contains(raw, forbidden) {
			t.Errorf("public tracking body leaks %q", forbidden)
		}
	}
}
