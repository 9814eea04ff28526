package handlers

import (
	"net/http"

	"github.com/themizzi/simplecom/internal/services"
)

// LogoutHandler ends the current session and returns to the login page
type LogoutHandler struct {
	auth services.AuthService
}

// NewLogoutHandler creates a new LogoutHandler
func NewLogoutHandler(auth services.AuthService) *LogoutHandler {
	return &LogoutHandler{auth: auth}
}

// ServeHTTP handles GET and POST /logout
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		h.auth.Logout(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
