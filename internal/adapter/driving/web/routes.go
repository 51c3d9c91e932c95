package web

import (
	"io/fs"
	"net/http"

	"github.com/adrianwozniak/hearth/internal/application"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Public pages live at /, /login and /register; everything under /app/
// requires a stored credential. Static assets are served from the embedded
// filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler, session *application.Session) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Public pages.
	mux.HandleFunc("GET /{$}", h.Landing)
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", requireCSRF(h.Login))
	mux.HandleFunc("GET /register", h.RegisterForm)
	mux.HandleFunc("POST /register", requireCSRF(h.Register))
	mux.HandleFunc("POST /logout", requireCSRF(h.Logout))

	guarded := func(next http.HandlerFunc) http.HandlerFunc {
		return requireSession(session, next)
	}
	mutation := func(next http.HandlerFunc) http.HandlerFunc {
		return requireSession(session, requireCSRF(next))
	}

	mux.HandleFunc("GET /app/dashboard", guarded(h.Dashboard))

	mux.HandleFunc("GET /app/family/new", guarded(h.CreateFamilyForm))
	mux.HandleFunc("POST /app/family/new", mutation(h.CreateFamily))
	mux.HandleFunc("GET /app/family/join", guarded(h.JoinFamilyForm))
	mux.HandleFunc("POST /app/family/join", mutation(h.JoinFamily))

	mux.HandleFunc("GET /app/finances", guarded(h.Finances))
	mux.HandleFunc("POST /app/finances/pay", mutation(h.PaySavings))
	mux.HandleFunc("POST /app/finances/goals", mutation(h.CreateGoal))
	mux.HandleFunc("POST /app/finances/goals/{id}/contribute", mutation(h.Contribute))

	mux.HandleFunc("GET /app/tasks", guarded(h.Tasks))
	mux.HandleFunc("POST /app/tasks", mutation(h.CreateTask))
	mux.HandleFunc("GET /app/tasks/{id}", guarded(h.TaskDetail))
	mux.HandleFunc("POST /app/tasks/{id}", mutation(h.UpdateTask))
	mux.HandleFunc("POST /app/tasks/{id}/complete", mutation(h.CompleteTask))
	mux.HandleFunc("POST /app/tasks/{id}/rate", mutation(h.RateTask))
	mux.HandleFunc("POST /app/tasks/{id}/delete", mutation(h.DeleteTask))
	mux.HandleFunc("POST /app/tasks/{id}/comments", mutation(h.AddComment))
}
