package handlers

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/themizzi/simplecom/internal/services"
)

// LoginPage is the data of the login template
type LoginPage struct {
	Page
	Email string
	Error string
}

// LoginHandler renders the login form and authenticates submissions
type LoginHandler struct {
	page         *pageTemplate
	auth         services.AuthService
	secureCookie bool
}

// NewLoginHandler creates a new LoginHandler. secureCookie marks the session
// cookie as HTTPS only.
func NewLoginHandler(templateDir string, auth services.AuthService, secureCookie bool) (*LoginHandler, error) {
	page, err := newPageTemplate(templateDir, "login.html")
	if err != nil {
		return nil, err
	}

	return &LoginHandler{
		page:         page,
		auth:         auth,
		secureCookie: secureCookie,
	}, nil
}

// ServeHTTP handles GET and POST /login
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.page.render(w, http.StatusOK, LoginPage{
			Page: Page{Title: "SimpleCom - Signup / Login", Account: currentAccount(h.auth, r)},
		})
	case http.MethodPost:
		h.login(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LoginHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")

	session, err := h.auth.Login(email, r.PostFormValue("password"))
	if err != nil {
		status := http.StatusUnauthorized
		message := "Your email or password is incorrect!"
		if !errors.Is(err, services.ErrInvalidCredentials) {
			log.Error().Err(err).Msg("login failed")
			status = http.StatusInternalServerError
			message = "Login is unavailable, please try again later."
		} else {
			log.Info().Str("email", email).Msg("rejected login")
		}
		h.page.render(w, status, LoginPage{
			Page:  Page{Title: "SimpleCom - Signup / Login"},
			Email: email,
			Error: message,
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	log.Info().Str("account", session.AccountID).Msg("logged in")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
