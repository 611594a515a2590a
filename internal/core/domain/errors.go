package domain

import (
	"errors"
	"fmt"
)

// Taxonomy base errors. Specific errors wrap exactly one base so the HTTP
// boundary can resolve a status code with errors.Is without enumerating
// every concrete failure.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInactiveActor      = fmt.Errorf("%w: account is deactivated", ErrUnauthorized)

	// NotFound covers both absent records and records outside the actor's
	// scope; the two cases are indistinguishable to the caller.
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrTaskNotFound  = fmt.Errorf("task %w", ErrNotFound)
	ErrGroupNotFound = fmt.Errorf("group %w", ErrNotFound)

	ErrInvalidRole     = fmt.Errorf("%w: unknown role", ErrInvalidInput)
	ErrInvalidStatus   = fmt.Errorf("%w: unknown task status", ErrInvalidInput)
	ErrInvalidPriority = fmt.Errorf("%w: unknown task priority", ErrInvalidInput)
	ErrInvalidFilter   = fmt.Errorf("%w: invalid filter value", ErrInvalidInput)
	ErrInvalidID       = fmt.Errorf("%w: malformed identifier", ErrInvalidInput)

	ErrAssignmentConflict = fmt.Errorf("%w: assignment target must be a user or a group, not both", ErrInvalidInput)
	ErrInactiveTarget     = fmt.Errorf("%w: assignment target is inactive", ErrInvalidInput)
	ErrAttachmentLimit    = fmt.Errorf("%w: attachment limit exceeded", ErrInvalidInput)

	ErrUserExists         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrAdminExists        = fmt.Errorf("%w: an admin account already exists", ErrConflict)
	ErrDuplicateGroupTask = fmt.Errorf("%w: task already added to group", ErrConflict)
)
