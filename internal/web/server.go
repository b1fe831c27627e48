// Package web is the form shell: it collects raw input, triggers the expense
// workflow on user actions, and keeps the session alive across interactions
// through a cookie.
package web

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lucasvieira/reembolso/internal/expense"
	"github.com/lucasvieira/reembolso/internal/scanning"
)

// Variant selects which flow the server exposes
type Variant int

const (
	// VariantMulti collects many receipts into one consolidated report; the
	// extractor credential comes from the deployment
	VariantMulti Variant = iota
	// VariantSingle handles one receipt with confirm/edit; the credential is
	// typed into the form
	VariantSingle
)

const sessionCookie = "reembolso_session"

// ScannerFactory builds an extractor from a user-supplied API key
// (single-receipt variant only)
type ScannerFactory func(apiKey string) (scanning.Scanner, error)

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// Server handles HTTP requests for the reimbursement flows
type Server struct {
	service    *expense.Service
	variant    Variant
	newScanner ScannerFactory
	basicAuth  BasicAuth
	mux        *http.ServeMux
}

// NewServer creates a new Server with default mux
func NewServer(service *expense.Service, variant Variant, factory ScannerFactory, basicAuth BasicAuth) *Server {
	return NewServerWithMux(service, variant, factory, basicAuth, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *expense.Service, variant Variant, factory ScannerFactory, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		service:    service,
		variant:    variant,
		newScanner: factory,
		basicAuth:  basicAuth,
		mux:        mux,
	}
	s.registerRoutes()
	return s
}

type contextKey string

const sessionKey contextKey = "session"

// withSession ensures every request runs against a live session, minting the
// cookie when the browser arrives without one (or with a stale one)
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}

		session, err := s.service.EnsureSession(id)
		if err != nil {
			slog.Error("Error ensuring session", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if session.ID != id {
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    session.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session.ID)))
	}
}

// sessionID returns the session attached to the request by withSession
func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionKey).(string)
	return id
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Reembolso"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// guard is the standard middleware chain for user-facing routes
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(s.withSession(next))
}

// registerRoutes registers all routes on the server's mux.
// Routes must be registered from most specific to least specific.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /static/app.css", s.requireAuth(s.handleStaticCSS))
	s.mux.HandleFunc("GET /static/app.js", s.requireAuth(s.handleStaticJS))
	s.mux.Handle("GET /metrics", promhttp.Handler())

	s.mux.HandleFunc("POST /api/profile", s.guard(s.handleSetProfile))
	s.mux.HandleFunc("GET /api/expenses", s.guard(s.handleListExpenses))
	s.mux.HandleFunc("POST /api/report", s.guard(s.handleGenerateReport))
	s.mux.HandleFunc("GET /api/reports/{name}", s.requireAuth(s.handleGetArchivedReport))
	s.mux.HandleFunc("GET /api/reports", s.requireAuth(s.handleListArchivedReports))
	s.mux.HandleFunc("DELETE /api/session", s.guard(s.handleEndSession))

	switch s.variant {
	case VariantMulti:
		s.mux.HandleFunc("POST /api/expenses", s.guard(s.handleAddExpense))
	case VariantSingle:
		s.mux.HandleFunc("POST /api/analyze", s.guard(s.handleAnalyze))
		s.mux.HandleFunc("POST /api/confirm", s.guard(s.handleConfirm))
	}

	s.mux.HandleFunc("GET /index.html", s.requireAuth(s.handleIndex))
	s.mux.HandleFunc("GET /", s.requireAuth(s.handleIndex))
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, s.mux)
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
