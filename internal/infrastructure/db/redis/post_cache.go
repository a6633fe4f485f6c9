package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scribehub/identity-api/internal/core/domain"
)

const (
	listTTL    = time.Minute
	versionKey = "posts:list:ver"
)

// PostCache caches post listings in Redis. Invalidation bumps a version
// counter embedded in every list key, so stale entries simply age out under
// their TTL instead of being deleted one by one.
type PostCache struct {
	client *redis.Client
}

// NewPostCache creates a PostCache wrapping the given Redis client.
func NewPostCache(client *redis.Client) *PostCache {
	return &PostCache{client: client}
}

// GetList returns the cached page and true on a hit.
func (c *PostCache) GetList(ctx context.Context, skip, limit int) ([]domain.Post, bool, error) {
	ver, err := c.version(ctx)
	if err != nil {
		return nil, false, err
	}

	raw, err := c.client.Get(ctx, c.key(ver, skip, limit)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var posts []domain.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return posts, true, nil
}

// SetList stores the page under the current version (expires after listTTL).
func (c *PostCache) SetList(ctx context.Context, skip, limit int, posts []domain.Post) error {
	ver, err := c.version(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(ver, skip, limit), raw, listTTL).Err()
}

// Invalidate makes every cached page unreachable by bumping the version.
func (c *PostCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, versionKey).Err()
}

func (c *PostCache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache version: %w", err)
	}
	return ver, nil
}

func (c *PostCache) key(ver int64, skip, limit int) string {
	return fmt.Sprintf("posts:list:%d:%d:%d", ver, skip, limit)
}
