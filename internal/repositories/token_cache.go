package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/super-wallet/internal/logger"
)

// TokenCacheRepository remembers registered token names in Redis
type TokenCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached names
}

// NewTokenCacheRepository creates a new repository instance with TTL
func NewTokenCacheRepository(client *redis.Client, expiration time.Duration) *TokenCacheRepository {
	return &TokenCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func tokenKey(name string) string {
	return fmt.Sprintf("token:%s", name)
}

// Exists reports whether name is cached as registered. A miss is not an error.
func (r *TokenCacheRepository) Exists(ctx context.Context, name string) (bool, error) {
	key := tokenKey(name)

	n, err := r.client.Exists(ctx, key).Result()
	logger.Log.Infow("token cache lookup",
		"key", key,
		"result", n,
		"error", err,
	)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// Set caches name as registered until the TTL expires
func (r *TokenCacheRepository) Set(ctx context.Context, name string) error {
	key := tokenKey(name)
	err := r.client.Set(ctx, key, "1", r.exp).Err()

	logger.Log.Infow("token cache set",
		"key", key,
		"ttl", r.exp,
		"result", "ok",
		"error", err,
	)

	return err
}
