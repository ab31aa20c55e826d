package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants content management and fan-out trigger access.
	RoleAdmin Role = "admin"
	// RoleReader grants standard reading access.
	RoleReader Role = "reader"
)

// User represents an authenticated account in the system.
type User struct {
	Entity
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"display_name"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         Role       `json:"role"`
	Active       bool       `json:"active"`
	LastLoginAt  time.Time  `json:"last_login_at"`

	// PushEndpoint is the user's Web Push subscription, stored as the opaque
	// JSON blob the browser handed us. Nil means no endpoint registered.
	// A user owns at most one endpoint; registering a new one replaces it.
	PushEndpoint *string `json:"-"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName returns the user's full name composed from first and last names.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.DisplayName
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Name returns the best available display name for the user.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if full := u.FullName(); full != "" {
		return full
	}
	return u.Email
}
