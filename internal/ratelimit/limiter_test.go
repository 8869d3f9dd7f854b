package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return New(rdb, cfg, zap.NewNop()), mr
}

func TestAllow_UnderAndOverLimit(t *testing.T) {
	l, _ := newTestLimiter(t, Config{Window: time.Minute, Max: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !l.Allow(ctx, "login", "10.0.0.1") {
			t.Fatalf("attempt %d blocked under the limit", i+1)
		}
	}
	if l.Allow(ctx, "login", "10.0.0.1") {
		t.Fatal("attempt over the limit allowed")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, Config{Window: time.Minute, Max: 1})
	ctx := context.Background()

	if !l.Allow(ctx, "login", "10.0.0.1") {
		t.Fatal("first caller blocked")
	}
	if !l.Allow(ctx, "login", "10.0.0.2") {
		t.Fatal("second caller throttled by first caller's window")
	}
	if !l.Allow(ctx, "signup", "10.0.0.1") {
		t.Fatal("signup scope throttled by login scope")
	}
}

func TestAllow_WindowExpires(t *testing.T) {
	l, mr := newTestLimiter(t, Config{Window: time.Minute, Max: 1})
	ctx := context.Background()

	if !l.Allow(ctx, "login", "k") {
		t.Fatal("first attempt blocked")
	}
	if l.Allow(ctx, "login", "k") {
		t.Fatal("second attempt in the window allowed")
	}

	mr.FastForward(61 * time.Second)

	if !l.Allow(ctx, "login", "k") {
		t.Fatal("attempt in a fresh window blocked")
	}
}

func TestAllow_FailsOpenWhenRedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, Config{Window: time.Minute, Max: 1})
	mr.Close()

	if !l.Allow(context.Background(), "login", "k") {
		t.Fatal("limiter failed closed with redis down")
	}
}

func TestAllow_NilLimiterAndNilClient(t *testing.T) {
	var l *Limiter
	if !l.Allow(context.Background(), "login", "k") {
		t.Fatal("nil limiter blocked a request")
	}
	disabled := New(nil, Config{}, zap.NewNop())
	if !disabled.Allow(context.Background(), "login", "k") {
		t.Fatal("disabled limiter blocked a request")
	}
}
