// internal/domain/user/entity.go
package user

import (
	"errors"
	"strings"
	"time"
)

// Role is the coarse authorization label resolved from users/{uid}.
type Role string

const (
	// RoleUnknown means the role lookup has not completed yet.
	// Guards must not grant role-gated access while the role is unknown.
	RoleUnknown Role = ""

	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a stored role string onto the closed set.
// Anything unrecognized resolves to the unprivileged role so a user with a
// malformed record can still use the app at reduced privilege.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	default:
		return RoleCustomer
	}
}

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Errors (single source)
var (
	ErrInvalidID    = errors.New("user: invalid uid")
	ErrInvalidEmail = errors.New("user: invalid email")
	ErrInvalidRole  = errors.New("user: invalid role")
)

// MaxNameLength bounds fullName (rune count).
var MaxNameLength = 100

// User mirrors the users/{uid} document.
// docId = Firebase UID.
type User struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	FullName  string    `json:"fullName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// New creates a user record with the unprivileged default role.
func New(uid, email, fullName string, now time.Time) (*User, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return nil, ErrInvalidID
	}

	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	fullName = strings.TrimSpace(fullName)
	if len([]rune(fullName)) > MaxNameLength {
		fullName = string([]rune(fullName)[:MaxNameLength])
	}

	return &User{
		UID:       uid,
		Email:     email,
		Role:      RoleCustomer,
		FullName:  fullName,
		CreatedAt: now,
	}, nil
}

// SetRole assigns a role from the closed set.
func (u *User) SetRole(r Role) error {
	if u == nil {
		return ErrInvalidID
	}
	if !r.Valid() {
		return ErrInvalidRole
	}
	u.Role = r
	return nil
}
