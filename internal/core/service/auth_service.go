package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/openclass/lms-platform/internal/core/domain"
	"github.com/openclass/lms-platform/internal/core/ports"
	"github.com/openclass/lms-platform/internal/token"
)

const defaultStoreTimeout = 5 * time.Second

// AuthService implements login, refresh, session resolution and seed bootstrap.
type AuthService struct {
	repo         ports.UserRepository
	codec        *token.Codec
	storeTimeout time.Duration
	log          zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, codec *token.Codec, storeTimeout time.Duration, log zerolog.Logger) *AuthService {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &AuthService{repo: repo, codec: codec, storeTimeout: storeTimeout, log: log}
}

// Login validates credentials against the stored bcrypt hash and issues a
// token. Unknown email and wrong password are indistinguishable to callers.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	signed, _, err := s.codec.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, signed, nil
}

// Refresh reissues a token for a principal the gate already resolved. The new
// token is independent of the old one; concurrent refreshes are all valid.
func (s *AuthService) Refresh(_ context.Context, user *domain.User) (string, error) {
	signed, _, err := s.codec.Issue(user)
	return signed, err
}

// Resolve verifies the token, validates its claim shape, and re-reads the
// principal from the user store. A store timeout is reported to clients as
// USER_NOT_FOUND but logged distinctly.
func (s *AuthService) Resolve(ctx context.Context, tokenString string) (*domain.User, token.Claims, error) {
	if tokenString == "" {
		return nil, token.Claims{}, domain.ErrNoToken
	}

	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		s.log.Debug().Err(err).Msg("token verification failed")
		return nil, token.Claims{}, err
	}

	if claims.UserID() == "" {
		s.log.Debug().Msg("token claims missing subject")
		return nil, token.Claims{}, domain.ErrInvalidTokenFormat
	}
	if _, err := domain.ParseRole(string(claims.Role)); err != nil {
		s.log.Debug().Str("role", string(claims.Role)).Msg("token claims carry unknown role")
		return nil, token.Claims{}, domain.ErrInvalidTokenFormat
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repo.FindByID(lookupCtx, claims.UserID())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.Error().Str("user_id", claims.UserID()).Msg("user store lookup timed out")
		}
		return nil, token.Claims{}, domain.ErrUserNotFound
	}
	return user, claims, nil
}

// seedAccount is one fixed bootstrap user.
type seedAccount struct {
	email    string
	fullName string
	password string
	role     domain.Role
}

var seedAccounts = []seedAccount{
	{"admin@example.com", "Platform Admin", "admin123", domain.RoleAdmin},
	{"instructor@example.com", "Default Instructor", "teach123", domain.RoleInstructor},
	{"student@example.com", "Default Student", "learn123", domain.RoleStudent},
}

// Bootstrap creates the fixed per-role seed accounts when missing, keyed by
// email. Safe to run on every start.
func (s *AuthService) Bootstrap(ctx context.Context) error {
	for _, seed := range seedAccounts {
		if _, err := s.repo.FindByEmail(ctx, seed.email); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("bootstrap lookup %s: %w", seed.email, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("bootstrap hash: %w", err)
		}

		now := time.Now().UTC()
		_, err = s.repo.Create(ctx, &domain.User{
			Email:        seed.email,
			FullName:     seed.fullName,
			PasswordHash: string(hash),
			Role:         seed.role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil && !errors.Is(err, domain.ErrUserExists) {
			return fmt.Errorf("bootstrap create %s: %w", seed.email, err)
		}
		s.log.Info().Str("email", seed.email).Str("role", string(seed.role)).Msg("seed account created")
	}
	return nil
}
