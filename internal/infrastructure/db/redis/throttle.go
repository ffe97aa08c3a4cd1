package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultAttempts = 10
	defaultWindow   = time.Minute
)

// LoginThrottle bounds login attempts per (email, ip) in a fixed window,
// backed by a Redis counter with TTL.
// Key format: login_attempts:<email>:<ip>
type LoginThrottle struct {
	client   *redis.Client
	attempts int
	window   time.Duration
}

// NewLoginThrottle creates a LoginThrottle wrapping the given Redis client.
func NewLoginThrottle(client *redis.Client, attempts int, window time.Duration) *LoginThrottle {
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginThrottle{client: client, attempts: attempts, window: window}
}

// Allow increments the attempt counter and reports whether the attempt is
// within bounds. The window starts at the first attempt and is not extended
// by later ones.
func (t *LoginThrottle) Allow(ctx context.Context, email, ip string) (bool, error) {
	key := t.key(email, ip)

	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return false, fmt.Errorf("throttle expire: %w", err)
		}
	}
	return n <= int64(t.attempts), nil
}

func (t *LoginThrottle) key(email, ip string) string {
	return fmt.Sprintf("login_attempts:%s:%s", email, ip)
}
