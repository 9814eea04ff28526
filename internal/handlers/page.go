package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/themizzi/simplecom/internal/models"
	"github.com/themizzi/simplecom/internal/services"
)

// SessionCookieName is the cookie carrying the login session token
const SessionCookieName = "session"

// Page is the data every template receives
type Page struct {
	Title      string
	Account    *models.Account
	Categories []models.Category
}

// LoggedIn reports whether the page is rendered for a logged in account
func (p Page) LoggedIn() bool {
	return p.Account != nil
}

var templateFuncs = template.FuncMap{
	"productsURL": CategoryProductsURL,
}

// pageTemplate is a page template parsed together with the shared layout
type pageTemplate struct {
	template *template.Template
}

// newPageTemplate parses templates/layout.html and templates/<name> from templateDir
func newPageTemplate(templateDir, name string) (*pageTemplate, error) {
	tmpl, err := template.New("layout.html").Funcs(templateFuncs).ParseFiles(
		filepath.Join(templateDir, "layout.html"),
		filepath.Join(templateDir, name),
	)
	if err != nil {
		return nil, err
	}
	return &pageTemplate{template: tmpl}, nil
}

// render executes the layout into a buffer so a failing template never
// produces a partial page
func (p *pageTemplate) render(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := p.template.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Error().Err(err).Msg("failed to render template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// currentAccount resolves the session cookie of r, returning nil when the
// request is anonymous or the session is no longer valid
func currentAccount(auth services.AuthService, r *http.Request) *models.Account {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	account, err := auth.Resolve(cookie.Value)
	if err != nil {
		return nil
	}
	return account
}
