package ports

import (
	"context"

	"github.com/openclass/lms-platform/internal/core/domain"
)

// UserRepository defines the read-mostly user store consumed by the auth layer.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
