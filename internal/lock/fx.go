package lock

import (
	"github.com/ecopoints/ecopoints/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go.uber.org/fx"
)

// Provide selects the Locker implementation: Redis when configured (multiple
// instances share the lock space), in-process keyed mutex otherwise.
func Provide(cfg config.Config, log *zap.Logger) Locker {
	if cfg.RedisAddr == "" {
		return NewKeyedMutex()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewRedisLocker(client, log)
}

var Module = fx.Module("lock",
	fx.Provide(Provide),
)
