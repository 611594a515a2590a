package domain

import "strings"

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// NormalizeRole trims and lowercases a role value. Every role comparison in
// the system goes through this first; callers must never assume the stored
// or supplied casing.
func NormalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// IsValidRole reports whether role (after normalization) is a known role.
func IsValidRole(role string) bool {
	switch NormalizeRole(role) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// CanAssignRole reports whether an actor role may create or assign work to a
// user holding the target role: admins reach managers and employees, managers
// reach employees only, employees reach no one.
func CanAssignRole(actor, target string) bool {
	switch NormalizeRole(actor) {
	case RoleAdmin:
		t := NormalizeRole(target)
		return t == RoleManager || t == RoleEmployee
	case RoleManager:
		return NormalizeRole(target) == RoleEmployee
	}
	return false
}

// Actor is the authenticated identity attached to a request after the auth
// middleware resolves the bearer token. Role is always normalized.
type Actor struct {
	ID   string
	Seq  int64
	Name string
	Role string
}

func (a Actor) IsAdmin() bool    { return a.Role == RoleAdmin }
func (a Actor) IsManager() bool  { return a.Role == RoleManager }
func (a Actor) IsEmployee() bool { return a.Role == RoleEmployee }
