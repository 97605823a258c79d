package domain

import (
	"errors"
	"time"
)

// Roles assignable to users. Admin accounts are provisioned out-of-band;
// self-registration only accepts the three analyst roles.
const (
	RoleCybersecurity = "cybersecurity"
	RoleDataScience   = "datascience"
	RoleITOperations  = "itoperations"
	RoleAdmin         = "admin"
)

// Capability domains gating the API surface.
const (
	DomainCybersecurity = "cybersecurity"
	DomainDataScience   = "datascience"
	DomainITOperations  = "itoperations"
	DomainAIAssistant   = "ai_assistant"
	DomainAdminPanel    = "admin_panel"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserExists         = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrValidation         = errors.New("validation failed")
	ErrDomainForbidden    = errors.New("domain access forbidden")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)

// rolePermissions is the static role → allowed-domain table. It is
// configuration, not data: it never lives in the store and is not
// user-editable.
var rolePermissions = map[string][]string{
	RoleCybersecurity: {DomainCybersecurity, DomainAIAssistant},
	RoleDataScience:   {DomainDataScience, DomainAIAssistant},
	RoleITOperations:  {DomainITOperations, DomainAIAssistant},
	RoleAdmin:         {DomainCybersecurity, DomainDataScience, DomainITOperations, DomainAIAssistant, DomainAdminPanel},
}

var roleDisplayNames = map[string]string{
	RoleCybersecurity: "Cybersecurity Analyst",
	RoleDataScience:   "Data Scientist",
	RoleITOperations:  "IT Operations Engineer",
	RoleAdmin:         "System Administrator",
}

// SelfRegistrationRoles lists the roles accepted by /auth/register.
var SelfRegistrationRoles = []string{RoleCybersecurity, RoleDataScience, RoleITOperations}

// IsSelfRegistrationRole reports whether role may be chosen at registration.
func IsSelfRegistrationRole(role string) bool {
	for _, r := range SelfRegistrationRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User models an authenticated actor. PasswordHash holds the bcrypt digest;
// the plaintext never leaves the auth service.
type User struct {
	ID           string    `json:"id,omitempty"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CanAccessDomain reports whether the user's role grants the given domain.
// Unknown roles and unlisted domains are denied (fail-closed).
func (u *User) CanAccessDomain(domain string) bool {
	for _, d := range rolePermissions[u.Role] {
		if d == domain {
			return true
		}
	}
	return false
}

// AllowedDomains returns every domain the user's role grants.
func (u *User) AllowedDomains() []string {
	return rolePermissions[u.Role]
}

// RoleDisplayName returns the human-readable label for the user's role,
// falling back to the raw tag for unknown roles.
func (u *User) RoleDisplayName() string {
	if name, ok := roleDisplayNames[u.Role]; ok {
		return name
	}
	return u.Role
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
