package ports

import (
	"context"

	"github.com/openclass/lms-platform/internal/core/domain"
	"github.com/openclass/lms-platform/internal/token"
)

// AuthService orchestrates credential validation and token issuance.
type AuthService interface {
	SessionResolver

	// Login validates email/password and returns the user plus a freshly
	// issued token. All credential failures collapse into
	// domain.ErrInvalidCredentials so responses cannot leak which emails exist.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)

	// Refresh reissues a token for an already-resolved principal.
	Refresh(ctx context.Context, user *domain.User) (string, error)

	// Bootstrap seeds the fixed per-role accounts when absent. Idempotent.
	Bootstrap(ctx context.Context) error
}

// SessionResolver turns a raw token string into a resolved principal.
type SessionResolver interface {
	Resolve(ctx context.Context, tokenString string) (*domain.User, token.Claims, error)
}
