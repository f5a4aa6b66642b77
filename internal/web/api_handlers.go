package web

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/visitor-pass/internal/auth"
	"github.com/evcraddock/visitor-pass/internal/request"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiFail writes the JSON error for err.
func apiFail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "api request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		apiError(w, "internal error", code)
		return
	}
	apiError(w, err.Error(), code)
}

// apiListRequests returns every request for admins, or the caller's own
// requests (without IDs) for requesters.
func (s *Server) apiListRequests(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())

	var (
		reqs []*request.VisitorRequest
		err  error
	)
	if sess.IsAdmin() {
		reqs, err = s.requests.All(r.Context())
	} else {
		reqs, err = s.requests.ForUser(r.Context(), sess.Username)
	}
	if err != nil {
		apiFail(w, r, err)
		return
	}

	if reqs == nil {
		reqs = []*request.VisitorRequest{}
	}
	apiJSON(w, reqs, http.StatusOK)
}

// apiSubmitRequest creates a request owned by the caller.
func (s *Server) apiSubmitRequest(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	if sess.IsAdmin() {
		apiError(w, "only requesters can submit requests", http.StatusForbidden)
		return
	}

	var d request.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		apiError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	id, err := s.requests.Submit(r.Context(), sess.Username, d)
	if err != nil {
		apiFail(w, r, err)
		return
	}

	apiJSON(w, map[string]string{"id": id}, http.StatusCreated)
}

// apiGetRequest returns one request. Requesters only see their own.
func (s *Server) apiGetRequest(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	id := chi.URLParam(r, "id")

	req, err := s.requests.Get(r.Context(), id)
	if err != nil {
		apiFail(w, r, err)
		return
	}
	if !sess.IsAdmin() && req.RequestedBy != sess.Username {
		apiError(w, "request not found", http.StatusNotFound)
		return
	}

	apiJSON(w, req, http.StatusOK)
}

// apiResolve approves or rejects a pending request and returns the result.
func (s *Server) apiResolve(w http.ResponseWriter, r *http.Request) {
	action, err := request.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		apiError(w, err.Error(), http.StatusNotFound)
		return
	}

	req, err := s.requests.Resolve(r.Context(), chi.URLParam(r, "id"), action)
	if err != nil {
		apiFail(w, r, err)
		return
	}

	apiJSON(w, req, http.StatusOK)
}

// apiPass streams the PDF pass of an approved request.
func (s *Server) apiPass(w http.ResponseWriter, r *http.Request) {
	doc, filename, err := s.passFor(r, chi.URLParam(r, "id"))
	if err != nil {
		apiFail(w, r, err)
		return
	}
	writePDF(w, doc, filename)
}
