package ports

import (
	"context"

	"github.com/samihashehatta/leovegs-task/internal/core/domain"
)

// UserPatch carries a partial update: nil fields are left untouched.
// Password is the already-hashed digest; the repository never sees plaintext.
type UserPatch struct {
	Name           *string
	Email          *string
	PasswordDigest *string
	Role           *string
}

// Empty reports whether the patch carries no fields at all.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordDigest == nil && p.Role == nil
}

// UserRepository defines the persistence capability over the `user` table.
type UserRepository interface {
	// Create inserts a new row and returns the persisted record including
	// the assigned id and database-maintained timestamps.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByID returns the record or domain.ErrUserNotFound.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// Update applies the non-nil patch fields onto the row.
	Update(ctx context.Context, id int64, patch UserPatch) error
	// SetAccessToken attaches the issued token to an existing row.
	SetAccessToken(ctx context.Context, id int64, token string) error
	// Delete hard-deletes the row, returning domain.ErrUserNotFound when absent.
	Delete(ctx context.Context, id int64) error
}
