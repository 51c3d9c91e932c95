// Package httphandler serves the JSON status API used by the container
// healthcheck and by anything scripting the panel.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/adrianwozniak/hearth/internal/application"
)

// Handler is the HTTP driving adapter that serves the status API.
type Handler struct {
	session *application.Session
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(session *application.Session, logger *slog.Logger) *Handler {
	return &Handler{
		session: session,
		logger:  logger,
	}
}

// RegisterRoutes registers the status API routes on the provided mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/session", h.SessionStatus)
}

// Middleware wraps a handler with request-id logging and panic recovery.
// Recovery sits innermost so panics are caught before the request is logged.
func Middleware(logger *slog.Logger, next http.Handler) http.Handler {
	wrapped := recoveryMiddleware(logger, next)
	wrapped = loggingMiddleware(logger, wrapped)
	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// SessionStatus reports whether the panel holds a credential and whose
// profile it has. It never proxies to the family API.
func (h *Handler) SessionStatus(w http.ResponseWriter, _ *http.Request) {
	resp := SessionResponse{Authenticated: h.session.Authenticated()}
	if u := h.session.User(); u != nil {
		resp.Email = u.Email
		resp.FullName = u.FullName
		resp.HasFamily = u.HasFamily()
	}

	writeJSON(w, http.StatusOK, resp)
}
