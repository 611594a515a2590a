package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
	"github.com/taskhive/task-system/internal/core/scope"
)

func newUserService(users ...*domain.User) (*UserService, *memUserRepo) {
	repo := newMemUserRepo(users...)
	svc := NewUserService(repo, scope.NewEngine(newMemGroupRepo()), zerolog.Nop())
	return svc, repo
}

func TestUserList_ManagerSeesOnlyEmployees(t *testing.T) {
	svc, _ := newUserService(
		activeUser("admin-1", 1, "Ada", domain.RoleAdmin),
		activeUser("mgr-1", 2, "Marta", domain.RoleManager),
		activeUser("emp-1", 3, "Eli", domain.RoleEmployee),
	)

	page, err := svc.List(context.Background(), manager, ports.ListUsersInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "emp-1" {
		t.Fatalf("manager must only see employees, got %d items", len(page.Items))
	}

	// An explicit out-of-privilege role filter is an error, not an empty page.
	_, err = svc.List(context.Background(), manager, ports.ListUsersInput{Role: "admin"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Employees may not list at all.
	_, err = svc.List(context.Background(), employee, ports.ListUsersInput{})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for employee, got %v", err)
	}
}

func TestUserList_UnknownRoleFilterInvalid(t *testing.T) {
	svc, _ := newUserService(activeUser("admin-1", 1, "Ada", domain.RoleAdmin))

	_, err := svc.List(context.Background(), admin, ports.ListUsersInput{Role: "wizard"})
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Fatalf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestUserGet_VisibilityRules(t *testing.T) {
	svc, _ := newUserService(
		activeUser("mgr-1", 2, "Marta", domain.RoleManager),
		activeUser("mgr-2", 4, "Mona", domain.RoleManager),
		activeUser("emp-1", 3, "Eli", domain.RoleEmployee),
	)

	// Manager sees an employee.
	if _, err := svc.Get(context.Background(), manager, "emp-1"); err != nil {
		t.Fatalf("manager reading employee: %v", err)
	}
	// Manager sees themselves, by seq ref too.
	if _, err := svc.Get(context.Background(), manager, "2"); err != nil {
		t.Fatalf("manager reading self by seq: %v", err)
	}
	// A peer manager looks absent, not forbidden.
	_, err := svc.Get(context.Background(), manager, "mgr-2")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for peer manager, got %v", err)
	}
	// Employee sees only themselves.
	_, err = svc.Get(context.Background(), employee, "mgr-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for employee reading manager, got %v", err)
	}
}

func TestUserUpdate_RoleChangeAdminOnly(t *testing.T) {
	svc, _ := newUserService(activeUser("emp-1", 3, "Eli", domain.RoleEmployee))

	role := domain.RoleManager
	self := domain.Actor{ID: "emp-1", Role: domain.RoleEmployee}

	// Self-edit of plain fields is fine.
	name := "Elias"
	got, err := svc.Update(context.Background(), self, "emp-1", ports.UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if got.Name != "Elias" {
		t.Errorf("name not updated: %q", got.Name)
	}

	// Self-promotion is not.
	_, err = svc.Update(context.Background(), self, "emp-1", ports.UpdateUserInput{Role: &role})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self role change, got %v", err)
	}

	got, err = svc.Update(context.Background(), admin, "emp-1", ports.UpdateUserInput{Role: &role})
	if err != nil {
		t.Fatalf("admin role change: %v", err)
	}
	if got.Role != domain.RoleManager {
		t.Errorf("role not updated: %q", got.Role)
	}
}

func TestUserMutations_MaskOutOfScopeTargets(t *testing.T) {
	svc, _ := newUserService(
		activeUser("mgr-1", 2, "Marta", domain.RoleManager),
		activeUser("emp-1", 3, "Eli", domain.RoleEmployee),
	)
	self := domain.Actor{ID: "emp-1", Role: domain.RoleEmployee}

	// An existing-but-invisible target and a missing one must be
	// indistinguishable, so seq refs cannot probe the user table.
	name := "Mallory"
	_, errExisting := svc.Update(context.Background(), self, "2", ports.UpdateUserInput{Name: &name})
	_, errMissing := svc.Update(context.Background(), self, "99", ports.UpdateUserInput{Name: &name})
	if !errors.Is(errExisting, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for invisible target, got %v", errExisting)
	}
	if !errors.Is(errMissing, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing target, got %v", errMissing)
	}

	if err := svc.ChangePassword(context.Background(), self, "2", "newpassword"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for invisible password target, got %v", err)
	}

	// A visible target the actor may not edit stays Forbidden: nothing new
	// leaks since Get would already show the record.
	if err := svc.ChangePassword(context.Background(), manager, "emp-1", "newpassword"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for visible target, got %v", err)
	}
}

func TestUserSetActive_AdminOnly(t *testing.T) {
	svc, _ := newUserService(activeUser("emp-1", 3, "Eli", domain.RoleEmployee))

	if _, err := svc.SetActive(context.Background(), manager, "emp-1", false); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for manager, got %v", err)
	}

	got, err := svc.SetActive(context.Background(), admin, "emp-1", false)
	if err != nil {
		t.Fatalf("set active: %v", err)
	}
	if got.Active {
		t.Error("user still active")
	}
}

func TestUserChangePassword_SelfOrAdmin(t *testing.T) {
	svc, repo := newUserService(activeUser("emp-1", 3, "Eli", domain.RoleEmployee))
	self := domain.Actor{ID: "emp-1", Role: domain.RoleEmployee}

	if err := svc.ChangePassword(context.Background(), manager, "emp-1", "newpassword"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for manager, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), self, "emp-1", "short"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), self, "emp-1", "newpassword"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	u, _ := repo.FindByID(context.Background(), "emp-1")
	if u.PasswordHash == "" {
		t.Error("password hash not stored")
	}
}

func TestUserDelete_AdminOnly(t *testing.T) {
	svc, repo := newUserService(activeUser("emp-1", 3, "Eli", domain.RoleEmployee))

	if err := svc.Delete(context.Background(), manager, "emp-1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for manager, got %v", err)
	}
	if err := svc.Delete(context.Background(), admin, "emp-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(context.Background(), "emp-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Error("user not deleted")
	}
}
