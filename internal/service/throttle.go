package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/customer-service/internal/config"
)

const throttleKeyPrefix = "login_attempts:"

// ThrottleStore is the slice of redis behavior the throttle needs.
// *redis.Client satisfies it; tests substitute an in-memory stub.
type ThrottleStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// LoginThrottle counts failed login attempts per username in a fixed
// window. Store errors fail open: an unreachable Redis never blocks logins.
type LoginThrottle struct {
	store  ThrottleStore
	logger *zap.Logger
	max    int
	window time.Duration
}

// NewLoginThrottle builds the throttle. A nil store disables throttling.
func NewLoginThrottle(store ThrottleStore, cfg config.AuthConfig, logger *zap.Logger) *LoginThrottle {
	return &LoginThrottle{
		store:  store,
		logger: logger,
		max:    cfg.LoginMaxAttempts,
		window: cfg.LoginWindow(),
	}
}

// Allow reports whether the username is under the failure limit.
func (t *LoginThrottle) Allow(ctx context.Context, username string) bool {
	if t == nil || t.store == nil || t.max <= 0 {
		return true
	}
	count, err := t.store.Get(ctx, throttleKeyPrefix+username).Int()
	if err != nil {
		if err != redis.Nil {
			t.logger.Warn("login throttle lookup failed", zap.Error(err))
		}
		return true
	}
	return count < t.max
}

// RecordFailure increments the failure counter, starting the window on the
// first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, username string) {
	if t == nil || t.store == nil {
		return
	}
	key := throttleKeyPrefix + username
	count, err := t.store.Incr(ctx, key).Result()
	if err != nil {
		t.logger.Warn("login throttle increment failed", zap.Error(err))
		return
	}
	if count == 1 {
		t.store.Expire(ctx, key, t.window)
	}
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, username string) {
	if t == nil || t.store == nil {
		return
	}
	if err := t.store.Del(ctx, throttleKeyPrefix+username).Err(); err != nil {
		t.logger.Warn("login throttle reset failed", zap.Error(err))
	}
}
