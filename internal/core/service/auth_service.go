package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

const (
	// minPasswordLength is the registration policy minimum.
	minPasswordLength = 8
	// maxPasswordLength is the bcrypt input ceiling; bcrypt silently
	// truncates beyond 72 bytes, so longer passwords are rejected outright.
	maxPasswordLength = 72
)

// dummyDigest is a valid bcrypt hash compared against when the username does
// not exist, so the unknown-user path costs the same as a wrong password and
// response latency does not leak account enumeration.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// LoginThrottle limits failed login attempts per username. Implementations
// may be unavailable; the auth service degrades open on throttle errors.
type LoginThrottle interface {
	TooManyAttempts(ctx context.Context, username string) (bool, error)
	RecordFailure(ctx context.Context, username string) error
	Reset(ctx context.Context, username string) error
}

// AuditRecorder accepts audit events for asynchronous persistence.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuthService implements registration, login, and password changes. It is
// the only component that handles plaintext passwords; they are never
// persisted or logged.
type AuthService struct {
	repo      ports.AuthRepository
	throttle  LoginThrottle
	audit     AuditRecorder
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, throttle LoginThrottle, audit AuditRecorder, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		throttle:  throttle,
		audit:     audit,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// Register validates input, hashes the password with a per-call random salt,
// and inserts the credential. Duplicate usernames surface as ErrUserExists
// via the store's unique index; there is no client-side locking.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password cannot be empty", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", domain.ErrValidation, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return nil, fmt.Errorf("%w: password must be at most %d characters long", domain.ErrValidation, maxPasswordLength)
	}
	if !domain.IsSelfRegistrationRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", username).Str("role", role).Msg("user registered")
	s.recordAudit(domain.AuditEvent{Username: username, Action: domain.AuditRegister, Detail: role})

	return created, nil
}

// Login verifies the credential and returns a signed token plus the session
// principal. Unknown usernames and wrong passwords fail with the same error
// and comparable latency.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if blocked := s.throttled(ctx, username); blocked {
		return "", nil, domain.ErrTooManyAttempts
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		// Burn a comparison so this path is not distinguishable from a
		// wrong password by timing.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyDigest), []byte(password))
		s.loginFailed(ctx, username)
		return "", nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.loginFailed(ctx, username)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.logger.Warn().Err(err).Msg("login throttle reset failed")
		}
	}
	s.recordAudit(domain.AuditEvent{Username: username, Action: domain.AuditLoginSuccess})

	return token, user, nil
}

// ChangePassword re-runs full login verification against the old password
// before accepting the new one. It never exposes a direct digest overwrite.
func (s *AuthService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if _, _, err := s.Login(ctx, username, oldPassword); err != nil {
		return err
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters long", domain.ErrValidation, minPasswordLength)
	}
	if len(newPassword) > maxPasswordLength {
		return fmt.Errorf("%w: new password must be at most %d characters long", domain.ErrValidation, maxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePasswordHash(ctx, username, string(hash)); err != nil {
		return err
	}

	s.logger.Info().Str("username", username).Msg("password changed")
	s.recordAudit(domain.AuditEvent{Username: username, Action: domain.AuditPasswordChange})

	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// throttled checks the attempt counter. A throttle outage never blocks
// login availability; it only loses protection until the store recovers.
func (s *AuthService) throttled(ctx context.Context, username string) bool {
	if s.throttle == nil {
		return false
	}
	blocked, err := s.throttle.TooManyAttempts(ctx, username)
	if err != nil {
		s.logger.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		return false
	}
	return blocked
}

func (s *AuthService) loginFailed(ctx context.Context, username string) {
	if s.throttle != nil {
		if err := s.throttle.RecordFailure(ctx, username); err != nil {
			s.logger.Warn().Err(err).Msg("login throttle record failed")
		}
	}
	s.recordAudit(domain.AuditEvent{Username: username, Action: domain.AuditLoginFailure})
}

func (s *AuthService) recordAudit(event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	s.audit.Record(event)
}
