package ports

import (
	"context"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
)

// AuthService is the only component allowed to see plaintext passwords.
type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	// Login returns a signed token and the authenticated principal. Unknown
	// username and wrong password fail identically with ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// ChangePassword re-verifies the old password before accepting the new
	// one; it never overwrites a digest without verification.
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
}
