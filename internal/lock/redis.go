package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	lockTTL       = 30 * time.Second
	retryInterval = 50 * time.Millisecond
)

// releaseScript deletes the key only when the caller still holds it, so an
// expired holder cannot delete a lock reacquired by someone else.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

// RedisLocker is the multi-instance Locker: SET NX PX with a per-acquire
// token checked on release. Used when REDIS_ADDR is configured.
type RedisLocker struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisLocker(client *redis.Client, log *zap.Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		log:    log.Named("lock.redis"),
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil {
		l.log.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
	}
}
