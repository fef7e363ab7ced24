// Package cache provides the read-through cache used by the public store
// surface, backed by Redis or by an in-process go-cache.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache stores JSON-encodable values under string keys
type Cache interface {
	// Get decodes the value stored at key into dest. found is false on a miss.
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix
	DeletePrefix(ctx context.Context, prefix string) error
}

// GetOrLoad returns the cached value at key or calls load and caches its result
func GetOrLoad[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if found, err := c.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	// a failed write only costs the next reader a reload
	_ = c.Set(ctx, key, value, ttl)
	return value, nil
}

func encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

func decode(data []byte, dest any) error {
	return json.Unmarshal(data, dest)
}
