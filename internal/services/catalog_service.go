package services

import (
	"errors"
	"fmt"

	"github.com/themizzi/simplecom/internal/models"
)

// ErrNotFound is returned by repositories when a record does not exist
var ErrNotFound = errors.New("not found")

// CatalogRepository defines the interface for catalog persistence
type CatalogRepository interface {
	ListCategories() ([]models.Category, error)
	GetCategory(id int) (*models.Category, error)
	GetSubcategory(id int) (*models.Subcategory, error)
	SeedCatalog(categories []models.Category) error
}

// CategoryPage is what the category products page renders
type CategoryPage struct {
	Category    models.Category
	Subcategory models.Subcategory
}

// CatalogService handles catalog business logic
type CatalogService interface {
	Tree() ([]models.Category, error)
	SubcategoryPage(subcategoryID int) (*CategoryPage, error)
	Seed(categories []models.Category) error
}

// CatalogServiceImpl implements CatalogService
type CatalogServiceImpl struct {
	catalogRepo CatalogRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo CatalogRepository) CatalogService {
	return &CatalogServiceImpl{
		catalogRepo: catalogRepo,
	}
}

// Tree returns every category with its subcategories, in display order
func (s *CatalogServiceImpl) Tree() ([]models.Category, error) {
	categories, err := s.catalogRepo.ListCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// SubcategoryPage loads a subcategory with its products and parent category
func (s *CatalogServiceImpl) SubcategoryPage(subcategoryID int) (*CategoryPage, error) {
	sub, err := s.catalogRepo.GetSubcategory(subcategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategory %d: %w", subcategoryID, err)
	}

	category, err := s.catalogRepo.GetCategory(sub.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %d: %w", sub.CategoryID, err)
	}

	return &CategoryPage{Category: *category, Subcategory: *sub}, nil
}

// Seed validates and stores categories. Stores that already hold a catalog
// keep it.
func (s *CatalogServiceImpl) Seed(categories []models.Category) error {
	for i := range categories {
		if err := categories[i].Validate(); err != nil {
			return fmt.Errorf("invalid catalog: %w", err)
		}
	}
	if err := s.catalogRepo.SeedCatalog(categories); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	return nil
}
