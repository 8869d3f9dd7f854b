// Package ratelimit throttles signup and login attempts with a fixed
// window per client key, counted in Redis so limits hold across replicas.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Config struct {
	Window time.Duration `mapstructure:"window"`
	Max    int64         `mapstructure:"max"`
}

type Limiter struct {
	rdb *redis.Client
	cfg Config
	log *zap.Logger
}

// New returns a limiter backed by rdb. A nil client disables limiting
// entirely, which keeps single-node deployments free of a Redis dependency.
func New(rdb *redis.Client, cfg Config, log *zap.Logger) *Limiter {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Max <= 0 {
		cfg.Max = 15
	}
	return &Limiter{rdb: rdb, cfg: cfg, log: log}
}

// Allow reports whether the caller identified by key may proceed. The
// counter for a key starts its window on first increment. When Redis is
// unreachable the limiter fails open: losing throttling beats refusing
// every login.
func (l *Limiter) Allow(ctx context.Context, scope, key string) bool {
	if l == nil || l.rdb == nil {
		return true
	}

	k := windowKey(scope, key)
	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		l.log.Warn("rate limiter unavailable", zap.String("scope", scope), zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.cfg.Window).Err(); err != nil {
			l.log.Warn("rate limiter expire failed", zap.String("scope", scope), zap.Error(err))
			return true
		}
	}
	return count <= l.cfg.Max
}

func windowKey(scope, key string) string {
	return fmt.Sprintf("rl:%s:%s", scope, key)
}
