package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-system/internal/api/middleware"
	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

type stubAuthService struct {
	loginToken string
	loginUser  *domain.User
	loginErr   error
	registered *domain.User
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	return s.loginToken, s.loginUser, s.loginErr
}

func (s *stubAuthService) Register(_ context.Context, actor domain.Actor, input ports.CreateUserInput) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	s.registered = &domain.User{ID: "new-1", Name: input.Name, Email: input.Email, Role: input.Role, Active: true}
	return s.registered, nil
}

func (s *stubAuthService) SeedAdmin(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return &domain.User{ID: "admin-1", Name: input.Name, Email: input.Email, Role: domain.RoleAdmin, Active: true}, nil
}

func (s *stubAuthService) Resolve(context.Context, string) (*domain.User, error) {
	panic("not used")
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLoginHandler_Success(t *testing.T) {
	svc := &stubAuthService{
		loginToken: "tok",
		loginUser:  &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleAdmin, Active: true},
	}
	h := NewAuthHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"hunter22d"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token != "tok" || resp.User.ID != "u1" {
		t.Errorf("unexpected response: %+v", resp)
	}
	// The password hash must never appear in the payload.
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("response leaks credentials: %s", rec.Body.String())
	}
}

func TestLoginHandler_MissingEmailRejected(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(http.MethodPost, "/auth/login", `{"password":"hunter22d"}`)
	err := h.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestRegisterHandler_UsesActorFromContext(t *testing.T) {
	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	c, rec := newJSONContext(http.MethodPost, "/auth/register",
		`{"name":"Eli","email":"eli@example.com","password":"password1","role":"employee"}`)
	c.Set(middleware.ActorKey, domain.Actor{ID: "admin-1", Role: domain.RoleAdmin})

	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.registered == nil || svc.registered.Email != "eli@example.com" {
		t.Errorf("service not invoked with payload: %+v", svc.registered)
	}
}

func TestRegisterHandler_MissingActor(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(http.MethodPost, "/auth/register",
		`{"name":"Eli","email":"eli@example.com","password":"password1","role":"employee"}`)

	err := h.Register(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestSeedAdminHandler(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{})

	c, rec := newJSONContext(http.MethodPost, "/auth/seed-admin",
		`{"name":"Ada","email":"ada@example.com","password":"hunter22d"}`)
	if err := h.SeedAdmin(c); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Role != domain.RoleAdmin {
		t.Errorf("expected admin role, got %q", resp.Role)
	}
}
