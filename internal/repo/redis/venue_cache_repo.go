package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const venuePrefix = "venues:"

// VenueCacheRepo caches decoded venue lookups keyed by kind and rounded
// coordinates, so repeated map openings near the same spot skip the
// upstream query.
type VenueCacheRepo struct {
	client *goredis.Client
}

func NewVenueCacheRepo(client *goredis.Client) *VenueCacheRepo {
	return &VenueCacheRepo{client: client}
}

func (r *VenueCacheRepo) Get(ctx context.Context, key string, out any) (bool, error) {
	if r.client == nil {
		return false, nil
	}
	if key == "" {
		return false, fmt.Errorf("invalid cache key")
	}

	raw, err := r.client.Get(ctx, venueKey(key)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("get venue cache: %w", err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode venue cache: %w", err)
	}

	return true, nil
}

func (r *VenueCacheRepo) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.client == nil {
		return nil
	}
	if key == "" {
		return fmt.Errorf("invalid cache key")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode venue cache: %w", err)
	}

	if err := r.client.Set(ctx, venueKey(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("set venue cache: %w", err)
	}

	return nil
}

func venueKey(key string) string {
	return venuePrefix + key
}
