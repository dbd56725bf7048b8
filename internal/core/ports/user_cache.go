package ports

import (
	"context"

	"github.com/samihashehatta/leovegs-task/internal/core/domain"
)

// UserCache is a best-effort read cache for user records. A cache error is
// never fatal: callers log it and fall through to the repository.
type UserCache interface {
	// Get returns the cached record, or (nil, nil) on a miss.
	Get(ctx context.Context, id int64) (*domain.User, error)
	Set(ctx context.Context, user *domain.User) error
	Invalidate(ctx context.Context, id int64) error
}
