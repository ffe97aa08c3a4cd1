// Package token implements the signed bearer credential used by the platform:
// issuance, verification, and the deliberately weaker unverified decode used
// by the edge tier, which never holds the signing secret.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openclass/lms-platform/internal/core/domain"
)

// Claims is the decoded token payload. The user ID travels in the registered
// subject claim; role is a private claim.
type Claims struct {
	jwt.RegisteredClaims
	Role domain.Role `json:"role"`
}

// UserID returns the principal identifier carried by the token.
func (c Claims) UserID() string { return c.Subject }

// Codec signs and verifies bearer tokens with a server-side HS256 secret.
type Codec struct {
	secret []byte
	ttl    time.Duration
}

// NewCodec builds a Codec. An empty secret is a configuration error: the
// caller must treat it as fatal and refuse to start.
func NewCodec(secret string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), ttl: ttl}, nil
}

// TTL reports the configured token lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue produces a signed token for the user, expiring TTL from now.
func (c *Codec) Issue(user *domain.User) (string, Claims, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Role: user.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Verify checks signature and expiry and returns the claims. Failures map to
// the domain sentinels so callers can surface distinct wire codes.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, domain.ErrInvalidToken
		default:
			return Claims{}, domain.ErrInvalidToken
		}
	}
	if !tkn.Valid {
		return Claims{}, domain.ErrInvalidToken
	}
	return claims, nil
}

// DecodeUnsafe decodes the payload segment without verifying the signature.
// It needs no secret and anything well-formed passes, so it must only feed
// UX routing decisions (the edge guard), never authorization.
func DecodeUnsafe(tokenString string) (Claims, bool) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return Claims{}, false
	}
	return claims, true
}
