package web

import (
	"net/http"

	"github.com/adrianwozniak/hearth/internal/application"
)

// requireSession protects a page handler. The decision is purely local
// credential presence; a stale token is only discovered when a proxied API
// call answers 401 and invalidates the session.
func requireSession(session *application.Session, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !session.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// requireCSRF rejects form posts whose token does not match the cookie.
func requireCSRF(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !validateCSRF(r) {
			http.Error(w, "invalid csrf token", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
