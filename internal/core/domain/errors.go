package domain

import (
	"errors"
	"strings"
)

var (
	// ErrUserNotFound is returned when the target user record is absent.
	ErrUserNotFound = errors.New("this user not found")
	// ErrActorNotFound is returned when the requesting user's own record no
	// longer exists in storage.
	ErrActorNotFound = errors.New("the requesting user does not exist")
	// ErrForbiddenAction is returned when the actor/target/action combination
	// is rejected by the authorization policy.
	ErrForbiddenAction = errors.New("you do not have the correct role to do this action")
	// ErrRoleChangeForbidden is returned when a non-admin attempts to set a role.
	ErrRoleChangeForbidden = errors.New("only admins can change the user role")
	// ErrEmailTaken is returned on a unique-constraint violation for email.
	ErrEmailTaken = errors.New("email already registered")
)

// ValidationError carries per-field validation messages so the error handler
// can render them as the detail of a 400 response.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NewValidationError builds a ValidationError from one or more field messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
