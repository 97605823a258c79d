package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/domain"
)

type stubAuthRepo struct {
	users map[string]*domain.User
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubAuthRepo) UpdatePasswordHash(_ context.Context, username, hash string) error {
	u, ok := r.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

type stubThrottle struct {
	blocked  bool
	checkErr error
	failures int
	resets   int
}

func (t *stubThrottle) TooManyAttempts(context.Context, string) (bool, error) {
	return t.blocked, t.checkErr
}
func (t *stubThrottle) RecordFailure(context.Context, string) error           { t.failures++; return nil }
func (t *stubThrottle) Reset(context.Context, string) error                   { t.resets++; return nil }

func newTestAuthService(repo *stubAuthRepo) *AuthService {
	return NewAuthService(repo, nil, nil, "secret", time.Hour, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), "alice", "ValidPass123", domain.RoleCybersecurity)
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user == nil {
		t.Fatalf("expected user, got nil")
	}
	if user.PasswordHash == "ValidPass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("ValidPass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleCybersecurity {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	cases := []struct {
		name               string
		username, password string
		role               string
	}{
		{"empty username", "", "ValidPass123", domain.RoleDataScience},
		{"empty password", "bob", "", domain.RoleDataScience},
		{"seven chars", "bob", "1234567", domain.RoleDataScience},
		{"admin self-registration", "bob", "ValidPass123", domain.RoleAdmin},
		{"unknown role", "bob", "ValidPass123", "contractor"},
	}
	for _, tc := range cases {
		if _, err := svc.Register(context.Background(), tc.username, tc.password, tc.role); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
	if len(repo.users) != 0 {
		t.Fatalf("validation failures must not touch the store, found %d users", len(repo.users))
	}
}

func TestAuthService_Register_MinimumLengthBoundary(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "short", "1234567", domain.RoleITOperations); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("7-char password should fail validation, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "exact", "12345678", domain.RoleITOperations); err != nil {
		t.Fatalf("8-char password should succeed, got %v", err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "alice", "ValidPass123", domain.RoleCybersecurity); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	firstHash := repo.users["alice"].PasswordHash

	if _, err := svc.Register(context.Background(), "alice", "OtherPass456", domain.RoleCybersecurity); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if repo.users["alice"].PasswordHash != firstHash {
		t.Fatalf("duplicate registration must not alter the stored digest")
	}
}

func TestAuthService_Login_RoundTrip(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "carol", "s3cretpass", domain.RoleDataScience); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "carol", "s3cretpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.Username != "carol" || user.Role != domain.RoleDataScience {
		t.Fatalf("unexpected principal: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != domain.RoleDataScience {
		t.Fatalf("expected role %s, got %v", domain.RoleDataScience, claims["role"])
	}
}

func TestAuthService_Login_FailureShapeIsGeneric(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "dave", "goodpass1", domain.RoleITOperations)

	_, _, wrongPass := svc.Login(context.Background(), "dave", "badpass99")
	_, _, noUser := svc.Login(context.Background(), "ghost", "badpass99")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(noUser, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", noUser)
	}
	if wrongPass.Error() != noUser.Error() {
		t.Fatalf("failure messages must not distinguish unknown user from wrong password: %q vs %q", wrongPass, noUser)
	}
}

func TestAuthService_Login_EmptyFields(t *testing.T) {
	svc := newTestAuthService(newStubAuthRepo())

	if _, _, err := svc.Login(context.Background(), "", "password1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("empty username: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("empty password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubAuthRepo()
	throttle := &stubThrottle{}
	svc := NewAuthService(repo, throttle, nil, "secret", time.Hour, zerolog.Nop())

	_, _ = svc.Register(context.Background(), "eve", "goodpass1", domain.RoleCybersecurity)

	if _, _, err := svc.Login(context.Background(), "eve", "wrong1234"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if throttle.failures != 1 {
		t.Fatalf("expected 1 recorded failure, got %d", throttle.failures)
	}

	throttle.blocked = true
	if _, _, err := svc.Login(context.Background(), "eve", "goodpass1"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	throttle.blocked = false
	if _, _, err := svc.Login(context.Background(), "eve", "goodpass1"); err != nil {
		t.Fatalf("login after unblock failed: %v", err)
	}
	if throttle.resets != 1 {
		t.Fatalf("expected counter reset on success, got %d", throttle.resets)
	}
}

func TestAuthService_ChangePassword_Gate(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "frank", "original1", domain.RoleDataScience)
	originalHash := repo.users["frank"].PasswordHash

	if err := svc.ChangePassword(context.Background(), "frank", "wrongold1", "replacement1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong old password: expected ErrInvalidCredentials, got %v", err)
	}
	if repo.users["frank"].PasswordHash != originalHash {
		t.Fatalf("failed change must leave the digest intact")
	}
	if _, _, err := svc.Login(context.Background(), "frank", "original1"); err != nil {
		t.Fatalf("original password should still work: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), "frank", "original1", "short"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("short new password: expected ErrValidation, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), "frank", "original1", "replacement1"); err != nil {
		t.Fatalf("change failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "frank", "replacement1"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "frank", "original1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
}

func TestAuthService_CyberAnalystScenario(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "cyber_analyst", "CyberPass123!", domain.RoleCybersecurity); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, user, err := svc.Login(context.Background(), "cyber_analyst", "CyberPass123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Role != domain.RoleCybersecurity {
		t.Fatalf("expected cybersecurity role, got %s", user.Role)
	}
	if user.CanAccessDomain(domain.DomainDataScience) {
		t.Fatalf("cybersecurity analyst must not reach datascience")
	}
	if !user.CanAccessDomain(domain.DomainAIAssistant) {
		t.Fatalf("cybersecurity analyst should reach ai_assistant")
	}
}

func TestAuthService_Register_BcryptCeilingBoundary(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "ceiling", strings.Repeat("a", 73), domain.RoleDataScience); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for 73-byte password, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("rejected registration must not touch the store")
	}

	if _, err := svc.Register(context.Background(), "ceiling", strings.Repeat("a", 72), domain.RoleDataScience); err != nil {
		t.Fatalf("72-byte password must be accepted, got %v", err)
	}
}

func TestAuthService_Login_ThrottleOutageDegradesOpen(t *testing.T) {
	repo := newStubAuthRepo()
	throttle := &stubThrottle{checkErr: errors.New("redis gone")}
	svc := NewAuthService(repo, throttle, nil, "secret", time.Hour, zerolog.Nop())

	if _, err := svc.Register(context.Background(), "grace", "goodpass1", domain.RoleITOperations); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "grace", "goodpass1")
	if err != nil {
		t.Fatalf("throttle outage must not block login, got %v", err)
	}
	if token == "" || user == nil {
		t.Fatalf("expected a session despite throttle outage")
	}

	// Bad credentials still fail the normal way during the outage.
	if _, _, err := svc.Login(context.Background(), "grace", "wrongpass1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
