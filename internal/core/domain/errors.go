package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the authentication/authorization chain. A bad token and
// an unknown subject deliberately collapse into the same ErrInvalidCredentials
// so callers cannot distinguish the two cases.
var (
	ErrInvalidCredentials = errors.New("could not validate credentials")
	ErrMissingSubject     = errors.New("token missing subject claim")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrEmailTaken         = errors.New("email already registered")
)

// NotAuthorizedError is an authorization denial with a context-specific
// detail. Identity is already proven at this point, so the message may name
// the resource.
type NotAuthorizedError struct {
	Detail string
}

func (e *NotAuthorizedError) Error() string { return e.Detail }

func (e *NotAuthorizedError) Is(target error) bool { return target == ErrNotAuthorized }

// NotAuthorized builds a denial like "not authorized to update this post".
func NotAuthorized(action, resource string) error {
	return &NotAuthorizedError{Detail: fmt.Sprintf("not authorized to %s this %s", action, resource)}
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates per-field input failures.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// ConstraintError carries a best-effort classification of a store constraint
// failure. Detail is derived from the store's error text and is not a
// guaranteed contract.
type ConstraintError struct {
	Detail string
	Err    error
}

func (e *ConstraintError) Error() string { return e.Detail }

func (e *ConstraintError) Unwrap() error { return e.Err }
