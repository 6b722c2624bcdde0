package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/super-wallet/internal/logger"
)

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// JobLockRepository provides single-instance execution of scheduled jobs.
type JobLockRepository struct {
	client *redis.Client
}

func NewJobLockRepository(client *redis.Client) *JobLockRepository {
	return &JobLockRepository{client: client}
}

func jobLockKey(name string) string {
	return fmt.Sprintf("lock:job:%s", name)
}

// Acquire takes the lock for name for at most ttl. ok is false when another
// instance holds it. The returned token is needed to release the lock.
func (r *JobLockRepository) Acquire(ctx context.Context, name string, ttl time.Duration) (token string, ok bool, err error) {
	key := jobLockKey(name)
	token = uuid.NewString()

	ok, err = r.client.SetNX(ctx, key, token, ttl).Result()
	logger.Log.Infow("job lock acquire",
		"key", key,
		"ttl", ttl,
		"result", ok,
		"error", err,
	)
	if err != nil {
		return "", false, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the lock if token still owns it.
func (r *JobLockRepository) Release(ctx context.Context, name, token string) error {
	key := jobLockKey(name)

	n, err := releaseScript.Run(ctx, r.client, []string{key}, token).Int()
	logger.Log.Infow("job lock release",
		"key", key,
		"result", n,
		"error", err,
	)
	if err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if n == 0 {
		logger.Log.Warnw("job lock expired before release", "key", key)
	}
	return nil
}
