package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/themizzi/simplecom/internal/services"
)

// CategoryResponse is one category of the categories API
type CategoryResponse struct {
	Name          string                `json:"name"`
	Subcategories []SubcategoryResponse `json:"subcategories"`
}

// SubcategoryResponse is one subcategory of the categories API
type SubcategoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CategoriesAPIHandler serves the category tree as JSON, in sidebar order
type CategoriesAPIHandler struct {
	catalog services.CatalogService
}

// NewCategoriesAPIHandler creates a new categories API handler
func NewCategoriesAPIHandler(catalog services.CatalogService) *CategoriesAPIHandler {
	return &CategoriesAPIHandler{catalog: catalog}
}

// ServeHTTP handles GET /api/categories
func (h *CategoriesAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sendErrorResponse(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	categories, err := h.catalog.Tree()
	if err != nil {
		log.Error().Err(err).Msg("failed to load category tree")
		sendErrorResponse(w, "Failed to load categories", http.StatusInternalServerError)
		return
	}

	resp := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		cat := CategoryResponse{Name: c.Name, Subcategories: []SubcategoryResponse{}}
		for _, s := range c.Subcategories {
			cat.Subcategories = append(cat.Subcategories, SubcategoryResponse{
				ID:   s.ID,
				Name: s.Name,
				URL:  CategoryProductsURL(s.ID),
			})
		}
		resp = append(resp, cat)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode categories")
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
