package ports

import (
	"context"

	"github.com/samihashehatta/leovegs-task/internal/core/domain"
)

// Action identifies the kind of operation the policy is asked to authorize.
type Action string

const (
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// CreateUserInput carries the fields of a registration request. Shape
// validation happens at the HTTP boundary; the service trusts these values.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput is a partial update: nil fields are not modified.
// Password, when present, is plaintext and is hashed by the service.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// UserService defines the user lifecycle operations and the authorization
// policy gating them.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput, actor domain.Actor) (*domain.User, error)
	Delete(ctx context.Context, id int64) error

	// AuthorizeAction decides whether actor may perform action on the user
	// identified by targetID. It returns domain.ErrForbiddenAction when the
	// policy denies the combination and domain.ErrActorNotFound when the
	// actor's own record has vanished from storage.
	AuthorizeAction(ctx context.Context, targetID int64, actor domain.Actor, action Action) error
}
