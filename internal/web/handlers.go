package web

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/evcraddock/visitor-pass/internal/auth"
	"github.com/evcraddock/visitor-pass/internal/pass"
	"github.com/evcraddock/visitor-pass/internal/request"
)

type requesterData struct {
	Session   *auth.Session
	Requests  []*request.VisitorRequest
	Submitted bool
	Today     string
}

type adminData struct {
	Session      *auth.Session
	Requests     []*request.VisitorRequest
	JustApproved string
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleHome renders the requester or admin view for the logged-in role.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())

	if sess.IsAdmin() {
		reqs, err := s.requests.All(r.Context())
		if err != nil {
			s.pageError(w, r, err)
			return
		}
		s.render(w, "admin.html", adminData{
			Session:      sess,
			Requests:     reqs,
			JustApproved: sess.JustApproved,
		})
		return
	}

	reqs, err := s.requests.ForUser(r.Context(), sess.Username)
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	s.render(w, "requester.html", requesterData{
		Session:   sess,
		Requests:  reqs,
		Submitted: r.URL.Query().Get("submitted") == "1",
		Today:     time.Now().In(request.IST).Format("2006-01-02"),
	})
}

// handleSubmit creates a request from the requester form.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, _ := auth.FromContext(r.Context())
	if sess.IsAdmin() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	d := request.Draft{
		VisitorName: r.FormValue("visitor_name"),
		Contact:     r.FormValue("contact"),
		VisitDate:   r.FormValue("visit_date"),
		Purpose:     r.FormValue("purpose"),
	}

	if _, err := s.requests.Submit(r.Context(), sess.Username, d); err != nil {
		s.pageError(w, r, err)
		return
	}

	http.Redirect(w, r, "/?submitted=1", http.StatusSeeOther)
}

// handleResolve approves or rejects a pending request. Approval marks the
// request in the session so the admin view offers its pass download.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	action, err := request.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	id := chi.URLParam(r, "id")
	resolved, err := s.requests.Resolve(r.Context(), id, action)
	if err != nil {
		s.pageError(w, r, err)
		return
	}

	if resolved.Status == request.StatusApproved {
		sess, _ := auth.FromContext(r.Context())
		sess.JustApproved = resolved.ID
		if err := s.sessions.Save(w, r, sess); err != nil {
			s.pageError(w, r, err)
			return
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handlePassDownload streams the PDF pass of an approved request.
func (s *Server) handlePassDownload(w http.ResponseWriter, r *http.Request) {
	doc, filename, err := s.passFor(r, chi.URLParam(r, "id"))
	if err != nil {
		s.pageError(w, r, err)
		return
	}
	writePDF(w, doc, filename)
}

// errNotApproved is returned when a pass is requested for a request that is not approved.
var errNotApproved = errors.New("request is not approved")

// passFor renders the pass for id.
func (s *Server) passFor(r *http.Request, id string) ([]byte, string, error) {
	req, err := s.requests.Get(r.Context(), id)
	if err != nil {
		return nil, "", err
	}
	if req.Status != request.StatusApproved {
		return nil, "", fmt.Errorf("%w: %s is %s", errNotApproved, id, req.Status)
	}

	doc, err := s.passes.Generate(req)
	if err != nil {
		return nil, "", err
	}

	slog.InfoContext(r.Context(), "pass generated", "id", id, "visitor", req.VisitorName, "bytes", len(doc))
	return doc, pass.Filename(id), nil
}

func writePDF(w http.ResponseWriter, doc []byte, filename string) {
	w.Header().Set("Content-Type", pass.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		slog.Error("writing pass", "file", filename, "error", err)
	}
}

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, request.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, request.ErrInvalidTransition), errors.Is(err, errNotApproved):
		return http.StatusConflict
	case errors.Is(err, pass.ErrIncompleteRecord):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// pageError writes a plain-text error for err. Server errors are logged and
// their detail withheld from the client.
func (s *Server) pageError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, "Internal error", code)
		return
	}
	http.Error(w, err.Error(), code)
}

// render executes a full page template.
func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	s.renderStatus(w, http.StatusOK, name, data)
}

// renderStatus executes a page template with a non-default status code.
func (s *Server) renderStatus(w http.ResponseWriter, code int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("rendering template", "template", name, "error", err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("writing page", "template", name, "error", err)
	}
}
