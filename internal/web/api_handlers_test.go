package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/evcraddock/visitor-pass/internal/request"
)

const janeJSON = `{"visitor_name":"Jane Doe","contact":"555-0100","visit_date":"2024-06-01","purpose":"Meeting","status":"Approved"}`

func decodeRequests(t *testing.T, body []byte) []request.VisitorRequest {
	t.Helper()
	var reqs []request.VisitorRequest
	if err := json.Unmarshal(body, &reqs); err != nil {
		t.Fatalf("decode: %v (%s)", err, body)
	}
	return reqs
}

func TestAPISubmitIgnoresClientStatus(t *testing.T) {
	srv := testServer(t)
	alice := newBrowser(t, srv)
	alice.login("alice", "pw1")

	w := alice.postJSON("/api/requests", janeJSON)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var created map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created["id"] == "" {
		t.Fatal("expected id in response")
	}

	mine := decodeRequests(t, alice.get("/api/requests").Body.Bytes())
	if len(mine) != 1 {
		t.Fatalf("got %d requests, want 1", len(mine))
	}
	if mine[0].Status != request.StatusPending || mine[0].AdminComment != "" {
		t.Errorf("new request = %+v, want Pending with empty comment", mine[0])
	}
	if mine[0].ID != "" {
		t.Errorf("requester listing should omit ids, got %q", mine[0].ID)
	}
	if mine[0].RequestedBy != "alice" {
		t.Errorf("RequestedBy = %q, want alice", mine[0].RequestedBy)
	}
}

func TestAPISubmitStoresValuesAsEntered(t *testing.T) {
	srv := testServer(t)
	alice := newBrowser(t, srv)
	alice.login("alice", "pw1")

	body := `{"visitor_name":" Jane ","contact":"555 ","visit_date":" 2024-06-01","purpose":""}`
	if w := alice.postJSON("/api/requests", body); w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	mine := decodeRequests(t, alice.get("/api/requests").Body.Bytes())
	if len(mine) != 1 {
		t.Fatalf("got %d requests, want 1", len(mine))
	}
	if mine[0].VisitorName != " Jane " || mine[0].Contact != "555 " || mine[0].VisitDate != " 2024-06-01" {
		t.Errorf("stored %+v, want the body values unchanged", mine[0])
	}
}

func TestAPISubmitBadJSON(t *testing.T) {
	srv := testServer(t)
	alice := newBrowser(t, srv)
	alice.login("alice", "pw1")

	if w := alice.postJSON("/api/requests", "{"); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAPIListEmptyIsArray(t *testing.T) {
	srv := testServer(t)
	admin := newBrowser(t, srv)
	admin.login("boss", "pw2")

	w := admin.get("/api/requests")
	if got := bytes.TrimSpace(w.Body.Bytes()); string(got) != "[]" {
		t.Errorf("body = %s, want []", got)
	}
}

func TestAPIGetRequestVisibility(t *testing.T) {
	srv := testServer(t)
	alice := newBrowser(t, srv)
	alice.login("alice", "pw1")
	alice.postJSON("/api/requests", janeJSON)

	admin := newBrowser(t, srv)
	admin.login("boss", "pw2")
	id := onlyRequestID(t, admin)

	bob := newBrowser(t, srv)
	bob.login("bob", "pw3")

	tests := []struct {
		name string
		b    *browser
		path string
		want int
	}{
		{"owner", alice, "/api/requests/" + id, http.StatusOK},
		{"admin", admin, "/api/requests/" + id, http.StatusOK},
		{"other requester", bob, "/api/requests/" + id, http.StatusNotFound},
		{"unknown", admin, "/api/requests/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := tt.b.get(tt.path); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAPIResolveAndPass(t *testing.T) {
	srv := testServer(t)
	alice := newBrowser(t, srv)
	alice.login("alice", "pw1")
	alice.postJSON("/api/requests", janeJSON)

	admin := newBrowser(t, srv)
	admin.login("boss", "pw2")
	id := onlyRequestID(t, admin)

	if w := admin.get("/api/requests/" + id + "/pass"); w.Code != http.StatusConflict {
		t.Errorf("pass while pending: status = %d, want %d", w.Code, http.StatusConflict)
	}

	if w := alice.postJSON("/api/requests/"+id+"/approve", ""); w.Code != http.StatusForbidden {
		t.Errorf("requester approve: status = %d, want %d", w.Code, http.StatusForbidden)
	}

	w := admin.postJSON("/api/requests/"+id+"/approve", "")
	if w.Code != http.StatusOK {
		t.Fatalf("approve: status = %d, body = %s", w.Code, w.Body.String())
	}
	var got request.VisitorRequest
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != request.StatusApproved || got.AdminComment != "Approved" {
		t.Errorf("approved = %+v", got)
	}

	if w := admin.postJSON("/api/requests/"+id+"/reject", ""); w.Code != http.StatusConflict {
		t.Errorf("reject after approve: status = %d, want %d", w.Code, http.StatusConflict)
	}
	if w := admin.postJSON("/api/requests/"+id+"/archive", ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown action: status = %d, want %d", w.Code, http.StatusNotFound)
	}

	w = admin.get("/api/requests/" + id + "/pass")
	if w.Code != http.StatusOK {
		t.Fatalf("pass: status = %d", w.Code)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")) {
		t.Error("expected PDF body")
	}
}

func TestAPIResolveUnknown(t *testing.T) {
	srv := testServer(t)
	admin := newBrowser(t, srv)
	admin.login("boss", "pw2")

	w := admin.postJSON("/api/requests/missing/reject", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
