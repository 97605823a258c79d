package ports

import (
	"context"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
)

// AuthRepository defines the persistence contract for user credentials.
// Create must rely on the store's uniqueness guarantee for username so that
// concurrent registrations resolve to exactly one success.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
}
