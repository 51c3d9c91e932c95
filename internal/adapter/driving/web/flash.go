package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	vm "github.com/adrianwozniak/hearth/internal/adapter/driving/web/viewmodel"
)

const flashCookieName = "hearth_flash"

// setFlash stores a one-shot notification for the next page render.
func setFlash(w http.ResponseWriter, level, message string) {
	payload, err := json.Marshal(vm.Flash{Level: level, Message: message})
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash reads the pending notification and clears its cookie. Returns nil
// when there is none or the cookie is malformed.
func popFlash(w http.ResponseWriter, r *http.Request) *vm.Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var f vm.Flash
	if err := json.Unmarshal(payload, &f); err != nil {
		return nil
	}
	return &f
}
