package web

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestLoginPage(t *testing.T) {
	srv := testServer(t)

	w := newBrowser(t, srv).get("/login")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, `name="username"`) || !strings.Contains(body, `name="password"`) {
		t.Error("expected username and password fields")
	}
}

func TestLoginPageRedirectsWhenLoggedIn(t *testing.T) {
	srv := testServer(t)
	b := newBrowser(t, srv)
	b.login("alice", "pw1")

	w := b.get("/login")
	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name, username, password string
	}{
		{"wrong password", "alice", "wrong"},
		{"unknown user", "mallory", "pw1"},
		{"password of another user", "alice", "pw2"},
		{"padded username", " alice ", "pw1"},
		{"username in another case", "Alice", "pw1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBrowser(t, srv)
			w := b.postForm("/login", url.Values{"username": {tt.username}, "password": {tt.password}})

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}
			if !strings.Contains(w.Body.String(), "Incorrect username or password.") {
				t.Error("expected generic error message")
			}
			if len(b.cookies) != 0 {
				t.Error("failed login must not set a session")
			}

			if w := b.get("/"); w.Code != http.StatusSeeOther {
				t.Errorf("home after failed login: status = %d, want redirect", w.Code)
			}
		})
	}
}

func TestLoginRoutesByRole(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		username, password string
		want               string
	}{
		{"alice", "pw1", "Request a Visitor Pass"},
		{"boss", "pw2", "All Visitor Pass Requests"},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			b := newBrowser(t, srv)
			b.login(tt.username, tt.password)

			w := b.get("/")
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("expected %q on home page", tt.want)
			}
		})
	}
}

func TestLogoutClearsSession(t *testing.T) {
	srv := testServer(t)
	b := newBrowser(t, srv)
	b.login("alice", "pw1")

	w := b.do("POST", "/logout", "", nil)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("location = %q, want /login", loc)
	}

	if w := b.get("/"); w.Code != http.StatusSeeOther {
		t.Errorf("home after logout: status = %d, want redirect", w.Code)
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	srv := testServer(t)

	w := newBrowser(t, srv).do("POST", "/logout", "", nil)
	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
}
