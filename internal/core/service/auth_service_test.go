package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

const authTestSecret = "unit-test-secret"

func hashedUser(id string, seq int64, email, password, role string, active bool) *domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &domain.User{
		ID: id, Seq: seq, Name: id, Email: email,
		PasswordHash: string(hash), Role: role, Active: active,
	}
}

func TestLogin_Success(t *testing.T) {
	users := newMemUserRepo(hashedUser("u1", 1, "ada@example.com", "hunter22d", domain.RoleAdmin, true))
	svc := NewAuthService(users, newMemSeqRepo(), authTestSecret, time.Hour)

	token, user, err := svc.Login(context.Background(), "Ada@Example.com ", "hunter22d")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("unexpected user %q", user.ID)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(authTestSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != "u1" || claims["role"] != domain.RoleAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	users := newMemUserRepo(hashedUser("u1", 1, "ada@example.com", "hunter22d", domain.RoleAdmin, true))
	svc := NewAuthService(users, newMemSeqRepo(), authTestSecret, time.Hour)

	_, _, badPass := svc.Login(context.Background(), "ada@example.com", "wrong")
	_, _, noUser := svc.Login(context.Background(), "ghost@example.com", "whatever")

	if !errors.Is(badPass, domain.ErrInvalidCredentials) || !errors.Is(noUser, domain.ErrInvalidCredentials) {
		t.Fatalf("both failures must be ErrInvalidCredentials, got %v / %v", badPass, noUser)
	}
}

func TestLogin_InactiveAccountRejected(t *testing.T) {
	users := newMemUserRepo(hashedUser("u1", 1, "ada@example.com", "hunter22d", domain.RoleAdmin, false))
	svc := NewAuthService(users, newMemSeqRepo(), authTestSecret, time.Hour)

	_, _, err := svc.Login(context.Background(), "ada@example.com", "hunter22d")
	if !errors.Is(err, domain.ErrInactiveActor) {
		t.Fatalf("expected ErrInactiveActor, got %v", err)
	}
}

func TestSeedAdmin_OneShot(t *testing.T) {
	users := newMemUserRepo()
	svc := NewAuthService(users, newMemSeqRepo(), authTestSecret, time.Hour)

	first, err := svc.SeedAdmin(context.Background(), ports.CreateUserInput{
		Name: "Ada", Email: "Ada@Example.com", Password: "hunter22d",
	})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if first.Role != domain.RoleAdmin || !first.Active {
		t.Errorf("seeded account must be an active admin: %+v", first)
	}
	if first.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", first.Email)
	}
	if first.Seq != 1 {
		t.Errorf("expected seq 1, got %d", first.Seq)
	}

	_, err = svc.SeedAdmin(context.Background(), ports.CreateUserInput{
		Name: "Eve", Email: "eve@example.com", Password: "letmein123",
	})
	if !errors.Is(err, domain.ErrAdminExists) {
		t.Fatalf("expected ErrAdminExists, got %v", err)
	}
}

func TestRegister_AdminOnly(t *testing.T) {
	users := newMemUserRepo()
	svc := NewAuthService(users, newMemSeqRepo(), authTestSecret, time.Hour)

	input := ports.CreateUserInput{Name: "Eli", Email: "eli@example.com", Password: "password1", Role: domain.RoleEmployee}

	if _, err := svc.Register(context.Background(), manager, input); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for manager, got %v", err)
	}

	user, err := svc.Register(context.Background(), admin, input)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != domain.RoleEmployee || !user.Active {
		t.Errorf("unexpected account: %+v", user)
	}
}

func TestRegister_UnknownRoleRejected(t *testing.T) {
	svc := NewAuthService(newMemUserRepo(), newMemSeqRepo(), authTestSecret, time.Hour)

	_, err := svc.Register(context.Background(), admin, ports.CreateUserInput{
		Name: "Eli", Email: "eli@example.com", Password: "password1", Role: "superuser",
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	users := newMemUserRepo(hashedUser("u1", 1, "eli@example.com", "password1", domain.RoleEmployee, true))
	svc := NewAuthService(users, newMemSeqRepo(), authTestSecret, time.Hour)

	_, err := svc.Register(context.Background(), admin, ports.CreateUserInput{
		Name: "Eli Again", Email: "eli@example.com", Password: "password1", Role: domain.RoleEmployee,
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestResolve_DeadTokensUnauthorized(t *testing.T) {
	inactive := hashedUser("u2", 2, "gone@example.com", "password1", domain.RoleEmployee, false)
	svc := NewAuthService(newMemUserRepo(inactive), newMemSeqRepo(), authTestSecret, time.Hour)

	if _, err := svc.Resolve(context.Background(), "missing"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for missing user, got %v", err)
	}
	if _, err := svc.Resolve(context.Background(), "u2"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for inactive user, got %v", err)
	}
}
