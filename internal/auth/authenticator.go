package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/evcraddock/visitor-pass/internal/user"
)

// Authenticator checks credentials and starts or ends sessions.
type Authenticator struct {
	users    user.Store
	sessions *SessionStore
}

// NewAuthenticator creates an authenticator.
func NewAuthenticator(users user.Store, sessions *SessionStore) *Authenticator {
	return &Authenticator{users: users, sessions: sessions}
}

// Login checks username and password and, on success, starts a fresh session.
// Any mismatch returns user.ErrInvalidCredentials and leaves the response untouched.
func (a *Authenticator) Login(w http.ResponseWriter, r *http.Request, username, password string) (*Session, error) {
	u, err := a.users.FindByCredentials(r.Context(), username, password)
	if errors.Is(err, user.ErrInvalidCredentials) {
		slog.InfoContext(r.Context(), "login failed", "username", username)
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("checking credentials: %w", err)
	}

	sess := &Session{Username: u.Username, Role: u.Role}
	if err := a.sessions.Save(w, r, sess); err != nil {
		return nil, err
	}

	slog.InfoContext(r.Context(), "login", "username", u.Username, "role", u.Role)
	return sess, nil
}

// Logout ends the session whether or not one exists.
func (a *Authenticator) Logout(w http.ResponseWriter, r *http.Request) error {
	if sess, err := a.sessions.Load(r); err == nil {
		slog.InfoContext(r.Context(), "logout", "username", sess.Username)
	}
	return a.sessions.Destroy(w, r)
}
