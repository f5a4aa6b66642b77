package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evcraddock/visitor-pass/internal/auth"
	"github.com/evcraddock/visitor-pass/internal/user"
)

// sessionInfo is the JSON view of a session.
type sessionInfo struct {
	Username string    `json:"username"`
	Role     user.Role `json:"role"`
}

// apiLogin starts a session from JSON credentials. It is the API
// counterpart of the login form and fails with the same generic message.
func (s *Server) apiLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	sess, err := s.auth.Login(w, r, creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			apiError(w, loginFailed, http.StatusUnauthorized)
			return
		}
		apiFail(w, r, err)
		return
	}

	apiJSON(w, sessionInfo{Username: sess.Username, Role: sess.Role}, http.StatusOK)
}

// apiWhoami returns the caller's session.
func (s *Server) apiWhoami(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	apiJSON(w, sessionInfo{Username: sess.Username, Role: sess.Role}, http.StatusOK)
}

// apiLogout ends the session.
func (s *Server) apiLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(w, r); err != nil {
		apiFail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
