package domain

import "errors"

// Machine-readable failure codes surfaced in auth error envelopes.
// 401 codes describe why no principal could be resolved; INSUFFICIENT_PERMISSIONS
// is the only 403 code and is never downgraded to a 401 (or vice versa).
const (
	CodeNoToken            = "NO_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeInvalidTokenFormat = "INVALID_TOKEN_FORMAT"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeAuthError          = "AUTH_ERROR"
	CodeForbidden          = "INSUFFICIENT_PERMISSIONS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeRateLimited        = "RATE_LIMITED"
)

// Sentinel errors shared across services, middleware and the HTTP error handler.
var (
	ErrNoToken            = errors.New("no authentication token provided")
	ErrTokenExpired       = errors.New("authentication token expired")
	ErrInvalidToken       = errors.New("invalid authentication token")
	ErrInvalidTokenFormat = errors.New("malformed authentication token claims")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("insufficient permissions")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// AuthCode maps a resolution failure to its wire code. Unknown errors fall
// back to AUTH_ERROR so nothing propagates past the gate unclassified.
func AuthCode(err error) string {
	switch {
	case errors.Is(err, ErrNoToken):
		return CodeNoToken
	case errors.Is(err, ErrTokenExpired):
		return CodeTokenExpired
	case errors.Is(err, ErrInvalidToken):
		return CodeInvalidToken
	case errors.Is(err, ErrInvalidTokenFormat):
		return CodeInvalidTokenFormat
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	default:
		return CodeAuthError
	}
}
