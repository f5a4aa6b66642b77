// Package user provides the user domain model and credential lookup.
package user

import (
	"context"
	"errors"
)

// Role decides which view a user is shown.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRoles is the set of allowed roles.
var ValidRoles = []Role{RoleUser, RoleAdmin}

// IsValid checks if a role is recognized.
func (r Role) IsValid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// ErrInvalidCredentials is returned when no user matches both username and password.
// It deliberately does not say which of the two was wrong.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// User is an account that can log in. Users are seeded out of band
// (see `vp user add`); the web application only reads them.
type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the user gets the admin view.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Store is the users half of the persistence gateway.
type Store interface {
	// FindByCredentials returns the user whose username and password both
	// match exactly, or ErrInvalidCredentials.
	FindByCredentials(ctx context.Context, username, password string) (*User, error)
	Add(ctx context.Context, u *User) error
	List(ctx context.Context) ([]*User, error)
}
