// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/adrianwozniak/hearth/internal/adapter/driving/web/templates"
	"github.com/adrianwozniak/hearth/internal/adapter/driving/web/templates/pages"
	vm "github.com/adrianwozniak/hearth/internal/adapter/driving/web/viewmodel"
	"github.com/adrianwozniak/hearth/internal/application"
	"github.com/adrianwozniak/hearth/internal/domain/model"
	"github.com/adrianwozniak/hearth/internal/domain/port/driven"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	api     driven.FamilyAPI
	session *application.Session
	auth    *application.AuthService
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	api driven.FamilyAPI,
	session *application.Session,
	auth *application.AuthService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		api:     api,
		session: session,
		auth:    auth,
		logger:  logger,
	}
}

func (h *Handler) nav(w http.ResponseWriter, r *http.Request) vm.Nav {
	n := vm.Nav{Authenticated: h.session.Authenticated()}
	if u := h.session.User(); u != nil {
		n.UserName = u.FullName
	}
	if n.Authenticated {
		n.CSRF = ensureCSRF(w, r)
	}
	return n
}

// render wraps the page component in the layout, attaching the pending flash
// notification, if any.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, title string, content templ.Component) {
	h.renderStatus(w, r, http.StatusOK, title, content)
}

// renderStatus is render with an explicit response status. Cookies (flash
// clear, CSRF) are collected before the header is written.
func (h *Handler) renderStatus(w http.ResponseWriter, r *http.Request, status int, title string, content templ.Component) {
	flash := popFlash(w, r)
	nav := h.nav(w, r)
	w.WriteHeader(status)
	layout := templates.Layout(title, nav, flash, content)

	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}

// flashError surfaces a failed mutation. Family API rejections carry the
// server's detail message and are shown verbatim; anything else gets the
// fallback text.
func (h *Handler) flashError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	msg := fallback
	var apiErr *driven.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Error()
	}
	h.logger.Warn("request to family API failed", "path", r.URL.Path, "error", err)
	setFlash(w, "error", msg)
}

// profile returns the session's user, fetching it from the API when the
// in-memory copy is missing.
func (h *Handler) profile(r *http.Request) *model.User {
	if u := h.session.User(); u != nil {
		return u
	}
	u, err := h.auth.RefreshProfile(r.Context())
	if err != nil {
		h.logger.Warn("profile fetch failed", "error", err)
		return nil
	}
	return u
}

// Landing renders the public start page.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	if h.session.Authenticated() {
		http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, r, "Hearth", pages.Landing())
}

// Dashboard renders the family overview, or the create-or-join choice for
// users without a family.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := h.profile(r)
	if user == nil {
		// A 401 during the fetch invalidates the session; only then is
		// /login the right place. Any other failure means the API is
		// down, and the session must keep rendering or every guarded
		// page would bounce between /login and /app/dashboard.
		if !h.session.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.renderStatus(w, r, http.StatusBadGateway, "Service unavailable", pages.Unavailable())
		return
	}

	page := vm.DashboardPage{
		UserName:  user.FullName,
		HasFamily: user.HasFamily(),
	}

	if page.HasFamily {
		// The summary card is best-effort; the dashboard still renders
		// without it.
		family, err := h.api.Family(r.Context())
		if err != nil {
			h.logger.Warn("family fetch failed", "error", err)
		} else {
			page.Family = &vm.FamilyCard{
				Name:                family.Name,
				InviteCode:          family.InviteCode,
				MonthlyContribution: family.MonthlyContribution,
				IsOwner:             family.OwnerID == user.ID,
			}
		}
	}

	h.render(w, r, "Dashboard", pages.Dashboard(page))
}
