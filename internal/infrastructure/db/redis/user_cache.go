package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/samihashehatta/leovegs-task/internal/core/domain"
)

const userCacheTTL = 5 * time.Minute

// UserCache stores user records as JSON under user:<id>. The password digest
// never enters the cache (json:"-" on the domain type), so cached reads only
// serve presentation paths.
type UserCache struct {
	client *redis.Client
}

func NewUserCache(client *redis.Client) *UserCache {
	return &UserCache{client: client}
}

// Get returns the cached record, or (nil, nil) on a miss.
func (c *UserCache) Get(ctx context.Context, id int64) (*domain.User, error) {
	raw, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &u, nil
}

func (c *UserCache) Set(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, key(user.ID), raw, userCacheTTL).Err()
}

func (c *UserCache) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, key(id)).Err()
}

func key(id int64) string {
	return fmt.Sprintf("user:%d", id)
}
