package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rcmstack/rcm/internal/platform/auth"
)

func newTestHandler() *Handler {
	svc := NewService(newMockUserRepo())
	issuer := auth.NewIssuer("test-secret", time.Hour)
	return NewHandler(svc, issuer)
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, mutate func(*http.Request)) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("invalid response JSON: %v", err)
		}
	}
	return rec, out
}

func TestHandler_Register(t *testing.T) {
	h := newTestHandler()

	rec, body := doJSON(t, h.register, http.MethodPost, "/api/auth/register",
		`{"username":"drsmith","email":"smith@clinic.example","password":"secret1"}`, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["token"] == "" || body["token"] == nil {
		t.Error("expected a token in the response")
	}
	user, ok := body["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected user object, got %v", body["user"])
	}
	if user["role"] != auth.RoleHealthcareProvider {
		t.Errorf("expected default role, got %v", user["role"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Error("password hash must not be serialized")
	}
}

func TestHandler_Register_DuplicateEmail(t *testing.T) {
	h := newTestHandler()

	payload := `{"username":"drsmith","email":"smith@clinic.example","password":"secret1"}`
	if rec, _ := doJSON(t, h.register, http.MethodPost, "/api/auth/register", payload, nil); rec.Code != http.StatusCreated {
		t.Fatalf("seed register failed: %d", rec.Code)
	}

	rec, body := doJSON(t, h.register, http.MethodPost, "/api/auth/register",
		`{"username":"other","email":"smith@clinic.example","password":"secret1"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if body["message"] != "User with this email already exists" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestHandler_Login(t *testing.T) {
	h := newTestHandler()

	if rec, _ := doJSON(t, h.register, http.MethodPost, "/api/auth/register",
		`{"username":"drsmith","email":"smith@clinic.example","password":"secret1"}`, nil); rec.Code != http.StatusCreated {
		t.Fatalf("seed register failed: %d", rec.Code)
	}

	rec, body := doJSON(t, h.login, http.MethodPost, "/api/auth/login",
		`{"email":"smith@clinic.example","password":"secret1"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["token"] == "" || body["token"] == nil {
		t.Error("expected a token in the response")
	}

	rec, _ = doJSON(t, h.login, http.MethodPost, "/api/auth/login",
		`{"email":"smith@clinic.example","password":"wrong"}`, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for bad password, got %d", rec.Code)
	}
}

func TestHandler_Profile(t *testing.T) {
	h := newTestHandler()

	u, err := h.svc.Register(context.Background(), RegisterRequest{
		Username: "drsmith", Email: "smith@clinic.example", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	asUser := func(req *http.Request) {
		ctx := context.WithValue(req.Context(), auth.UserIDKey, u.ID.String())
		*req = *req.WithContext(ctx)
	}

	rec, body := doJSON(t, h.profile, http.MethodGet, "/api/auth/profile", "", asUser)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	user, ok := body["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected user object, got %v", body["user"])
	}
	if user["email"] != "smith@clinic.example" {
		t.Errorf("unexpected email: %v", user["email"])
	}

	rec, _ = doJSON(t, h.profile, http.MethodGet, "/api/auth/profile", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without identity in context, got %d", rec.Code)
	}
}

func TestHandler_ChangePassword(t *testing.T) {
	h := newTestHandler()

	u, err := h.svc.Register(context.Background(), RegisterRequest{
		Username: "drsmith", Email: "smith@clinic.example", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	asUser := func(req *http.Request) {
		ctx := context.WithValue(req.Context(), auth.UserIDKey, u.ID.String())
		*req = *req.WithContext(ctx)
	}

	rec, body := doJSON(t, h.changePassword, http.MethodPost, "/api/auth/change-password",
		`{"current_password":"secret1","new_password":"newsecret"}`, asUser)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body["message"] != "Password updated successfully" {
		t.Errorf("unexpected message: %v", body["message"])
	}

	rec, _ = doJSON(t, h.changePassword, http.MethodPost, "/api/auth/change-password",
		`{"current_password":"secret1","new_password":"again"}`, asUser)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for stale current password, got %d", rec.Code)
	}
}
