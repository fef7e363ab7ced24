package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// TokenBlacklist revokes tokens before they expire (logout, user deletion)
type TokenBlacklist interface {
	// AddToBlacklist revokes a single token by JTI for ttl
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
	// InvalidateUser revokes every token the user was issued up to now
	InvalidateUser(ctx context.Context, userID string, ttl time.Duration) error
	IsUserInvalidated(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const blacklistPrefix = "token:blacklist:"

// RedisTokenBlacklist implements TokenBlacklist using Redis
type RedisTokenBlacklist struct {
	client redis.UniversalClient
}

// NewRedisTokenBlacklist creates a token blacklist over an existing client
func NewRedisTokenBlacklist(client redis.UniversalClient) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

// AddToBlacklist adds a token's JTI to the blacklist
func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, blacklistPrefix+"jti:"+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}
	return nil
}

// IsBlacklisted checks if a token's JTI is in the blacklist
func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := b.client.Exists(ctx, blacklistPrefix+"jti:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return exists > 0, nil
}

// InvalidateUser stores the invalidation time for the user
func (b *RedisTokenBlacklist) InvalidateUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := b.client.Set(ctx, blacklistPrefix+"user:"+userID, time.Now().UnixNano(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user tokens: %w", err)
	}
	return nil
}

// IsUserInvalidated reports whether issuedAt is at or before the user's invalidation time
func (b *RedisTokenBlacklist) IsUserInvalidated(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := b.client.Get(ctx, blacklistPrefix+"user:"+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user token invalidation: %w", err)
	}
	invalidatedAt, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse invalidation timestamp: %w", err)
	}
	return issuedAt.UnixNano() <= invalidatedAt, nil
}

// MemoryTokenBlacklist is a single-instance blacklist backed by go-cache
type MemoryTokenBlacklist struct {
	cache *gocache.Cache
}

// NewMemoryTokenBlacklist creates an in-process token blacklist
func NewMemoryTokenBlacklist() *MemoryTokenBlacklist {
	return &MemoryTokenBlacklist{cache: gocache.New(gocache.NoExpiration, time.Minute)}
}

// AddToBlacklist adds a token's JTI to the blacklist
func (b *MemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.cache.Set("jti:"+jti, struct{}{}, ttl)
	return nil
}

// IsBlacklisted checks if a token's JTI is blacklisted and not yet expired
func (b *MemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, found := b.cache.Get("jti:" + jti)
	return found, nil
}

// InvalidateUser stores the invalidation time for the user
func (b *MemoryTokenBlacklist) InvalidateUser(_ context.Context, userID string, ttl time.Duration) error {
	b.cache.Set("user:"+userID, time.Now(), ttl)
	return nil
}

// IsUserInvalidated reports whether issuedAt is at or before the user's invalidation time
func (b *MemoryTokenBlacklist) IsUserInvalidated(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	v, found := b.cache.Get("user:" + userID)
	if !found {
		return false, nil
	}
	return !issuedAt.After(v.(time.Time)), nil
}

var (
	_ TokenBlacklist = (*RedisTokenBlacklist)(nil)
	_ TokenBlacklist = (*MemoryTokenBlacklist)(nil)
)
