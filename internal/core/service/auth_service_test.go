package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/openclass/lms-platform/internal/core/domain"
	"github.com/openclass/lms-platform/internal/token"
)

type stubUserRepo struct {
	users   map[string]*domain.User // keyed by id
	nextID  int
	creates int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	r.creates++
	copy := cloneUser(user)
	copy.ID = string(rune('a' + r.nextID - 1))
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func newTestService(t *testing.T, repo *stubUserRepo) *AuthService {
	t.Helper()
	codec, err := token.NewCodec("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return NewAuthService(repo, codec, time.Second, zerolog.Nop())
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string, role domain.Role) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user, err := repo.Create(context.Background(), &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return user
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "student@example.com", "learn123", domain.RoleStudent)
	svc := newTestService(t, repo)

	user, signed, err := svc.Login(context.Background(), "student@example.com", "learn123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Role != domain.RoleStudent {
		t.Fatalf("unexpected role %q", user.Role)
	}
	if signed == "" {
		t.Fatalf("expected token")
	}

	// The issued token resolves back to the same principal.
	resolved, claims, err := svc.Resolve(context.Background(), signed)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if resolved.ID != user.ID || claims.UserID() != user.ID {
		t.Fatalf("resolved principal mismatch: %q vs %q", resolved.ID, user.ID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "dave@example.com", "goodpass", domain.RoleStudent)
	svc := newTestService(t, repo)

	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailIndistinguishable(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "dave@example.com", "goodpass", domain.RoleStudent)
	svc := newTestService(t, repo)

	_, _, unknownErr := svc.Login(context.Background(), "ghost@example.com", "goodpass")
	_, _, wrongErr := svc.Login(context.Background(), "dave@example.com", "badpass")
	if unknownErr != wrongErr {
		t.Fatalf("expected identical errors, got %v vs %v", unknownErr, wrongErr)
	}
	if unknownErr != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", unknownErr)
	}
}

func TestAuthService_Resolve_NoToken(t *testing.T) {
	svc := newTestService(t, newStubUserRepo())
	if _, _, err := svc.Resolve(context.Background(), ""); err != domain.ErrNoToken {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestAuthService_Resolve_DeletedUser(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "gone@example.com", "pass", domain.RoleInstructor)
	svc := newTestService(t, repo)

	codec, _ := token.NewCodec("secret", time.Hour)
	signed, _, err := codec.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	delete(repo.users, user.ID)
	if _, _, err := svc.Resolve(context.Background(), signed); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// hangingUserRepo never answers FindByID; it waits out the lookup context the
// way a stalled store would.
type hangingUserRepo struct {
	*stubUserRepo
}

func (r *hangingUserRepo) FindByID(ctx context.Context, _ string) (*domain.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestAuthService_Resolve_StoreTimeout(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "slow@example.com", "pass", domain.RoleStudent)

	codec, err := token.NewCodec("secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	signed, _, err := codec.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc := NewAuthService(&hangingUserRepo{stubUserRepo: repo}, codec, 50*time.Millisecond, zerolog.Nop())

	start := time.Now()
	_, _, resolveErr := svc.Resolve(context.Background(), signed)
	elapsed := time.Since(start)

	if resolveErr != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound on store timeout, got %v", resolveErr)
	}
	if elapsed > time.Second {
		t.Fatalf("resolve did not honor the store timeout, took %v", elapsed)
	}
}

func TestAuthService_Resolve_BadClaimShape(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	codec, _ := token.NewCodec("secret", time.Hour)

	// Missing subject.
	signed, _, err := codec.Issue(&domain.User{Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := svc.Resolve(context.Background(), signed); err != domain.ErrInvalidTokenFormat {
		t.Fatalf("expected ErrInvalidTokenFormat for missing subject, got %v", err)
	}

	// Role outside the closed enumeration.
	signed, _, err = codec.Issue(&domain.User{ID: "u-1", Role: "superuser"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := svc.Resolve(context.Background(), signed); err != domain.ErrInvalidTokenFormat {
		t.Fatalf("expected ErrInvalidTokenFormat for bad role, got %v", err)
	}
}

func TestAuthService_Resolve_ForgedToken(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "victim@example.com", "pass", domain.RoleStudent)
	svc := newTestService(t, repo)

	// Well-formed token signed with the wrong secret: passes DecodeUnsafe,
	// must never pass the verified resolver.
	forger, _ := token.NewCodec("attacker-secret", time.Hour)
	forged, _, err := forger.Issue(&domain.User{ID: user.ID, Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, ok := token.DecodeUnsafe(forged); !ok {
		t.Fatalf("forged token should decode unsafely")
	}
	if _, _, err := svc.Resolve(context.Background(), forged); err != domain.ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Refresh(t *testing.T) {
	repo := newStubUserRepo()
	user := seedUser(t, repo, "carol@example.com", "pass", domain.RoleAdmin)
	svc := newTestService(t, repo)

	signed, err := svc.Refresh(context.Background(), user)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	resolved, _, err := svc.Resolve(context.Background(), signed)
	if err != nil {
		t.Fatalf("resolve of refreshed token failed: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("unexpected principal %q", resolved.ID)
	}
}

func TestAuthService_Bootstrap_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo)

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	first := repo.creates
	if first != len(domain.Roles) {
		t.Fatalf("expected %d seed accounts, got %d", len(domain.Roles), first)
	}

	if err := svc.Bootstrap(context.Background()); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}
	if repo.creates != first {
		t.Fatalf("bootstrap not idempotent: %d creates after rerun", repo.creates)
	}

	// Seeded student account is loginable.
	if _, _, err := svc.Login(context.Background(), "student@example.com", "learn123"); err != nil {
		t.Fatalf("seed login failed: %v", err)
	}
}
