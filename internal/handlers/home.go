package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/themizzi/simplecom/internal/services"
)

// HomeHandler renders the home page with the category sidebar
type HomeHandler struct {
	page    *pageTemplate
	catalog services.CatalogService
	auth    services.AuthService
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(templateDir string, catalog services.CatalogService, auth services.AuthService) (*HomeHandler, error) {
	page, err := newPageTemplate(templateDir, "home.html")
	if err != nil {
		return nil, err
	}

	return &HomeHandler{
		page:    page,
		catalog: catalog,
		auth:    auth,
	}, nil
}

// ServeHTTP handles the GET / request
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	categories, err := h.catalog.Tree()
	if err != nil {
		log.Error().Err(err).Msg("failed to load category tree")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.page.render(w, http.StatusOK, Page{
		Title:      "SimpleCom - Home",
		Account:    currentAccount(h.auth, r),
		Categories: categories,
	})
}
