package ports

import "context"

// LoginThrottle bounds login attempts per (email, ip) within a fixed window.
type LoginThrottle interface {
	// Allow reports whether another attempt may proceed. Implementations
	// should fail open: callers treat an error as "allow" and log it.
	Allow(ctx context.Context, email, ip string) (bool, error)
}
