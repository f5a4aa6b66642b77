// Package web provides the HTTP server and handlers for the visitor-pass web UI and JSON API.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/evcraddock/visitor-pass/internal/auth"
	"github.com/evcraddock/visitor-pass/internal/logging"
	"github.com/evcraddock/visitor-pass/internal/pass"
	"github.com/evcraddock/visitor-pass/internal/request"
	"github.com/evcraddock/visitor-pass/internal/user"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Options are the collaborators a Server needs.
type Options struct {
	Users    user.Store
	Requests request.Store
	Sessions *auth.SessionStore
	Passes   *pass.Generator
}

// Server is the web UI HTTP server.
type Server struct {
	requests  *request.Service
	auth      *auth.Authenticator
	sessions  *auth.SessionStore
	passes    *pass.Generator
	templates *template.Template
	router    chi.Router
}

// NewServer creates a web server.
func NewServer(opts Options) (*Server, error) {
	if opts.Users == nil || opts.Requests == nil || opts.Sessions == nil || opts.Passes == nil {
		return nil, fmt.Errorf("web server requires users, requests, sessions and passes")
	}

	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	staticContent, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("creating static sub-fs: %w", err)
	}

	s := &Server{
		requests:  request.NewService(opts.Requests),
		auth:      auth.NewAuthenticator(opts.Users, opts.Sessions),
		sessions:  opts.Sessions,
		passes:    opts.Passes,
		templates: tmpl,
	}
	s.router = s.routes(http.FileServer(http.FS(staticContent)))

	return s, nil
}

func (s *Server) routes(static http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Handle("/static/*", http.StripPrefix("/static/", static))

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLoginSubmit)
	r.Post("/logout", s.handleLogout)
	r.Post("/api/session", s.apiLogin)
	r.Delete("/api/session", s.apiLogout)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(s.sessions))

		r.Get("/", s.handleHome)
		r.Post("/requests", s.handleSubmit)
		r.Get("/api/session", s.apiWhoami)

		r.Route("/admin/requests/{id}", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/{action}", s.handleResolve)
			r.Get("/pass", s.handlePassDownload)
		})

		r.Route("/api/requests", func(r chi.Router) {
			r.Get("/", s.apiListRequests)
			r.Post("/", s.apiSubmitRequest)
			r.Get("/{id}", s.apiGetRequest)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Post("/{id}/{action}", s.apiResolve)
				r.Get("/{id}/pass", s.apiPass)
			})
		})
	})

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
