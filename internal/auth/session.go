// Package auth provides password login and cookie-backed sessions.
package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/evcraddock/visitor-pass/internal/user"
)

// CookieName is the name of the session cookie.
const CookieName = "vp_session"

const (
	sessionMaxAge = 12 * 60 * 60 // 12 hours

	keyUsername     = "username"
	keyRole         = "role"
	keyJustApproved = "just_approved"
)

// ErrNoSession is returned by Load when the request carries no logged-in session.
var ErrNoSession = errors.New("no session")

// Session is the per-browser state of a logged-in user.
type Session struct {
	Username string
	Role     user.Role
	// JustApproved is the ID of the request this admin approved most recently,
	// for which the pass download is offered. Empty when there is none.
	JustApproved string
}

// IsAdmin reports whether the session belongs to an admin.
func (s *Session) IsAdmin() bool {
	return s.Role == user.RoleAdmin
}

// SessionStore keeps sessions in signed cookies.
type SessionStore struct {
	store *sessions.CookieStore
}

// NewSessionStore creates a session store signing cookies with key.
// Set secure when the site is served over HTTPS.
func NewSessionStore(key []byte, secure bool) *SessionStore {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// SessionKey returns the signing key for secret, or a random key when secret
// is empty. Sessions signed with a random key do not survive a restart.
func SessionKey(secret string) []byte {
	if secret == "" {
		return securecookie.GenerateRandomKey(32)
	}
	return []byte(secret)
}

// Load returns the session carried by r. A missing, tampered, or anonymous
// cookie yields ErrNoSession.
func (s *SessionStore) Load(r *http.Request) (*Session, error) {
	raw, err := s.store.Get(r, CookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	username, _ := raw.Values[keyUsername].(string)
	role, _ := raw.Values[keyRole].(string)
	if username == "" || !user.Role(role).IsValid() {
		return nil, ErrNoSession
	}

	justApproved, _ := raw.Values[keyJustApproved].(string)
	return &Session{
		Username:     username,
		Role:         user.Role(role),
		JustApproved: justApproved,
	}, nil
}

// Save writes sess to the response cookie, replacing whatever was there.
func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request, sess *Session) error {
	raw, _ := s.store.Get(r, CookieName)
	raw.Values = map[any]any{
		keyUsername: sess.Username,
		keyRole:     string(sess.Role),
	}
	if sess.JustApproved != "" {
		raw.Values[keyJustApproved] = sess.JustApproved
	}
	raw.Options.MaxAge = sessionMaxAge

	if err := raw.Save(r, w); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Destroy clears all session state and expires the cookie.
func (s *SessionStore) Destroy(w http.ResponseWriter, r *http.Request) error {
	raw, _ := s.store.Get(r, CookieName)
	raw.Values = map[any]any{}
	raw.Options.MaxAge = -1

	if err := raw.Save(r, w); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
