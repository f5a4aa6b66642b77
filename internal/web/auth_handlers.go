package web

import (
	"errors"
	"net/http"

	"github.com/evcraddock/visitor-pass/internal/user"
)

// loginFailed is the only message shown for a rejected login.
const loginFailed = "Incorrect username or password."

type loginData struct {
	Error    string
	Username string
}

// handleLoginPage renders the login form, or sends a logged-in user home.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.Load(r); err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, "login.html", loginData{})
}

// handleLoginSubmit checks the submitted credentials.
func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	if _, err := s.auth.Login(w, r, username, password); err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			s.renderStatus(w, http.StatusUnauthorized, "login.html", loginData{Error: loginFailed, Username: username})
			return
		}
		s.pageError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleLogout clears the session and returns to the login page.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(w, r); err != nil {
		s.pageError(w, r, err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
