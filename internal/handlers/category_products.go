package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/themizzi/simplecom/internal/models"
	"github.com/themizzi/simplecom/internal/services"
)

// CategoryProductsPath is the route prefix of subcategory listings
const CategoryProductsPath = "/category_products/"

// CategoryProductsPage is the data of the category products template
type CategoryProductsPage struct {
	Page
	Category    models.Category
	Subcategory models.Subcategory
}

// CategoryProductsHandler lists the products of one subcategory
type CategoryProductsHandler struct {
	page    *pageTemplate
	catalog services.CatalogService
	auth    services.AuthService
}

// NewCategoryProductsHandler creates a new CategoryProductsHandler
func NewCategoryProductsHandler(templateDir string, catalog services.CatalogService, auth services.AuthService) (*CategoryProductsHandler, error) {
	page, err := newPageTemplate(templateDir, "category_products.html")
	if err != nil {
		return nil, err
	}

	return &CategoryProductsHandler{
		page:    page,
		catalog: catalog,
		auth:    auth,
	}, nil
}

// ServeHTTP handles GET /category_products/{id}
func (h *CategoryProductsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, CategoryProductsPath))
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}

	result, err := h.catalog.SubcategoryPage(id)
	if errors.Is(err, services.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error().Err(err).Int("subcategory", id).Msg("failed to load subcategory")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	categories, err := h.catalog.Tree()
	if err != nil {
		log.Error().Err(err).Msg("failed to load category tree")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.page.render(w, http.StatusOK, CategoryProductsPage{
		Page: Page{
			Title:      "SimpleCom - " + result.Category.Name + " " + result.Subcategory.Name + " Products",
			Account:    currentAccount(h.auth, r),
			Categories: categories,
		},
		Category:    result.Category,
		Subcategory: result.Subcategory,
	})
}

// CategoryProductsURL returns the listing path of a subcategory
func CategoryProductsURL(subcategoryID int) string {
	return CategoryProductsPath + strconv.Itoa(subcategoryID)
}
