package web

import (
	"net/http"
	"strings"

	"github.com/adrianwozniak/hearth/internal/adapter/driving/web/templates/pages"
	vm "github.com/adrianwozniak/hearth/internal/adapter/driving/web/viewmodel"
)

// LoginForm renders the login page.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.session.Authenticated() {
		http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, r, "Log in", pages.Login(vm.LoginPage{CSRF: ensureCSRF(w, r)}))
}

// Login handles the login form submission.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	page := vm.LoginPage{
		CSRF:     ensureCSRF(w, r),
		Email:    vm.Field{Value: strings.TrimSpace(r.FormValue("email"))},
		Password: vm.Field{Value: r.FormValue("password")},
	}

	ok := true
	if page.Email.Value == "" || !strings.Contains(page.Email.Value, "@") {
		page.Email.Error = "Enter a valid email address."
		ok = false
	}
	if page.Password.Value == "" {
		page.Password.Error = "Password is required."
		ok = false
	}
	if !ok {
		page.Password.Value = ""
		h.renderStatus(w, r, http.StatusUnprocessableEntity, "Log in", pages.Login(page))
		return
	}

	if err := h.auth.Login(r.Context(), page.Email.Value, page.Password.Value); err != nil {
		h.flashError(w, r, err, "Login failed. Please try again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
}

// RegisterForm renders the registration page.
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.session.Authenticated() {
		http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, r, "Register", pages.Register(vm.RegisterPage{CSRF: ensureCSRF(w, r)}))
}

// Register handles the registration form submission. A successful
// registration logs the user in immediately.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	page := vm.RegisterPage{
		CSRF:     ensureCSRF(w, r),
		FullName: vm.Field{Value: strings.TrimSpace(r.FormValue("full_name"))},
		Email:    vm.Field{Value: strings.TrimSpace(r.FormValue("email"))},
		Password: vm.Field{Value: r.FormValue("password")},
	}

	ok := true
	if page.FullName.Value == "" {
		page.FullName.Error = "Full name is required."
		ok = false
	}
	if page.Email.Value == "" || !strings.Contains(page.Email.Value, "@") {
		page.Email.Error = "Enter a valid email address."
		ok = false
	}
	if len(page.Password.Value) < 6 {
		page.Password.Error = "Password must be at least 6 characters."
		ok = false
	}
	if !ok {
		page.Password.Value = ""
		h.renderStatus(w, r, http.StatusUnprocessableEntity, "Register", pages.Register(page))
		return
	}

	if err := h.auth.Register(r.Context(), page.Email.Value, page.Password.Value, page.FullName.Value); err != nil {
		h.flashError(w, r, err, "Registration failed. Please try again.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	setFlash(w, "success", "Welcome to Hearth!")
	http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
}

// Logout drops the session and returns to the landing page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		h.logger.Warn("logout failed to clear credential", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
