package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/adrianwozniak/hearth/internal/adapter/driving/web/templates/pages"
	vm "github.com/adrianwozniak/hearth/internal/adapter/driving/web/viewmodel"
)

// CreateFamilyForm renders the family creation page.
func (h *Handler) CreateFamilyForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Create a family", pages.CreateFamily(vm.CreateFamilyPage{CSRF: ensureCSRF(w, r)}))
}

// CreateFamily handles the family creation form. On success the profile is
// refreshed so the session learns its new family membership.
func (h *Handler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	page := vm.CreateFamilyPage{
		CSRF:          ensureCSRF(w, r),
		Name:          vm.Field{Value: strings.TrimSpace(r.FormValue("name"))},
		MonthlyAmount: vm.Field{Value: strings.TrimSpace(r.FormValue("monthly_amount"))},
	}

	ok := true
	if page.Name.Value == "" {
		page.Name.Error = "Family name is required."
		ok = false
	}
	amount, err := strconv.ParseFloat(page.MonthlyAmount.Value, 64)
	if err != nil || amount <= 0 {
		page.MonthlyAmount.Error = "Enter a positive amount."
		ok = false
	}
	if !ok {
		h.renderStatus(w, r, http.StatusUnprocessableEntity, "Create a family", pages.CreateFamily(page))
		return
	}

	family, err := h.api.CreateFamily(r.Context(), page.Name.Value, amount)
	if err != nil {
		h.flashError(w, r, err, "Could not create the family.")
		http.Redirect(w, r, "/app/family/new", http.StatusSeeOther)
		return
	}

	if _, err := h.auth.RefreshProfile(r.Context()); err != nil {
		h.logger.Warn("profile refresh after family creation failed", "error", err)
	}

	setFlash(w, "success", "Family \""+family.Name+"\" created. Share invite code "+family.InviteCode+" with your household.")
	http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
}

// JoinFamilyForm renders the invite-code page.
func (h *Handler) JoinFamilyForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "Join a family", pages.JoinFamily(vm.JoinFamilyPage{CSRF: ensureCSRF(w, r)}))
}

// JoinFamily redeems an invite code. Invalid codes are rejected server-side
// and the rejection message is shown as-is.
func (h *Handler) JoinFamily(w http.ResponseWriter, r *http.Request) {
	page := vm.JoinFamilyPage{
		CSRF: ensureCSRF(w, r),
		Code: vm.Field{Value: strings.TrimSpace(r.FormValue("code"))},
	}

	if page.Code.Value == "" {
		page.Code.Error = "Invite code is required."
		h.renderStatus(w, r, http.StatusUnprocessableEntity, "Join a family", pages.JoinFamily(page))
		return
	}

	if err := h.api.JoinFamily(r.Context(), page.Code.Value); err != nil {
		h.flashError(w, r, err, "Could not join the family.")
		http.Redirect(w, r, "/app/family/join", http.StatusSeeOther)
		return
	}

	if _, err := h.auth.RefreshProfile(r.Context()); err != nil {
		h.logger.Warn("profile refresh after joining family failed", "error", err)
	}

	setFlash(w, "success", "You joined the family.")
	http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
}
