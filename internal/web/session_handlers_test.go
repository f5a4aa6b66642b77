package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestAPISessionLifecycle(t *testing.T) {
	srv := testServer(t)
	b := newBrowser(t, srv)

	w := b.postJSON("/api/session", `{"username":"boss","password":"pw2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", w.Code, w.Body.String())
	}
	var info sessionInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info.Username != "boss" || info.Role != "admin" {
		t.Errorf("login info = %+v", info)
	}

	w = b.get("/api/session")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"username":"boss"`) {
		t.Errorf("whoami: status = %d, body = %s", w.Code, w.Body.String())
	}

	if w := b.do("DELETE", "/api/session", "", nil); w.Code != http.StatusNoContent {
		t.Errorf("logout: status = %d, want %d", w.Code, http.StatusNoContent)
	}

	if w := b.get("/api/session"); w.Code != http.StatusUnauthorized {
		t.Errorf("whoami after logout: status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAPILoginFailure(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"username":"alice","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"zed","password":"pw1"}`, http.StatusUnauthorized},
		{"bad json", `{"username":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBrowser(t, srv)
			w := b.postJSON("/api/session", tt.body)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && !strings.Contains(w.Body.String(), "Incorrect username or password.") {
				t.Errorf("body = %s, want generic message", w.Body.String())
			}
			if len(b.cookies) != 0 {
				t.Error("failed login must not set a session")
			}
		})
	}
}
