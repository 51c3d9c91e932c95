package web

import (
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/adrianwozniak/hearth/internal/adapter/driving/web/templates/pages"
	vm "github.com/adrianwozniak/hearth/internal/adapter/driving/web/viewmodel"
	"github.com/adrianwozniak/hearth/internal/domain/model"
)

// Finances renders the savings status and goal list, fetched in parallel.
func (h *Handler) Finances(w http.ResponseWriter, r *http.Request) {
	var (
		savings *model.SavingsStatus
		goals   []model.Goal
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		savings, err = h.api.SavingsStatus(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		goals, err = h.api.Goals(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.flashError(w, r, err, "Could not load finances.")
		http.Redirect(w, r, "/app/dashboard", http.StatusSeeOther)
		return
	}

	page := vm.FinancesPage{
		CSRF: ensureCSRF(w, r),
		Savings: vm.SavingsCard{
			PaidThisMonth:      savings.PaidThisMonth,
			TotalFamilySavings: savings.TotalFamilySavings,
			PaymentAmount:      savings.PaymentAmount,
		},
		Goals: goalCards(goals),
	}
	h.render(w, r, "Finances", pages.Finances(page))
}

// PaySavings submits the monthly contribution. Paying twice in one month is
// rejected server-side and the rejection is surfaced verbatim.
func (h *Handler) PaySavings(w http.ResponseWriter, r *http.Request) {
	if err := h.api.PaySavings(r.Context()); err != nil {
		h.flashError(w, r, err, "Payment failed.")
	} else {
		setFlash(w, "success", "Monthly contribution paid.")
	}
	http.Redirect(w, r, "/app/finances", http.StatusSeeOther)
}

// CreateGoal handles the new-goal form.
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.FormValue("name"))
	targetRaw := strings.TrimSpace(r.FormValue("target"))
	target, parseErr := strconv.ParseFloat(targetRaw, 64)

	if name == "" || parseErr != nil || target <= 0 {
		setFlash(w, "error", "A goal needs a name and a positive target amount.")
		http.Redirect(w, r, "/app/finances", http.StatusSeeOther)
		return
	}

	goal, err := h.api.CreateGoal(r.Context(), name, target)
	if err != nil {
		h.flashError(w, r, err, "Could not create the goal.")
		http.Redirect(w, r, "/app/finances", http.StatusSeeOther)
		return
	}

	setFlash(w, "success", "Goal \""+goal.Name+"\" created.")
	http.Redirect(w, r, "/app/finances", http.StatusSeeOther)
}

// Contribute adds money to a goal. The server's completion verdict picks the
// notification; goal state is never updated locally.
func (h *Handler) Contribute(w http.ResponseWriter, r *http.Request) {
	goalID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	amount, parseErr := strconv.ParseFloat(strings.TrimSpace(r.FormValue("amount")), 64)
	if parseErr != nil || amount <= 0 {
		setFlash(w, "error", "Enter a positive contribution amount.")
		http.Redirect(w, r, "/app/finances", http.StatusSeeOther)
		return
	}

	result, err := h.api.Contribute(r.Context(), goalID, amount)
	if err != nil {
		h.flashError(w, r, err, "Contribution failed.")
		http.Redirect(w, r, "/app/finances", http.StatusSeeOther)
		return
	}

	if result.Completed {
		setFlash(w, "success", "Goal completed!")
	} else {
		setFlash(w, "success", "Contribution added.")
	}
	http.Redirect(w, r, "/app/finances", http.StatusSeeOther)
}
