package repository

import (
	"fmt"
	"sync"

	"github.com/themizzi/simplecom/internal/models"
	"github.com/themizzi/simplecom/internal/services"
)

// MemoryCatalogRepository keeps the catalog in process memory. It backs the
// shop when no database is configured.
type MemoryCatalogRepository struct {
	mu         sync.RWMutex
	categories []models.Category
	subs       map[int]models.Subcategory
}

// NewMemoryCatalogRepository creates an empty in-memory catalog
func NewMemoryCatalogRepository() *MemoryCatalogRepository {
	return &MemoryCatalogRepository{
		subs: make(map[int]models.Subcategory),
	}
}

// ListCategories returns copies of every category with its subcategories
func (r *MemoryCatalogRepository) ListCategories() ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]models.Category, len(r.categories))
	for i, c := range r.categories {
		categories[i] = c
		categories[i].Subcategories = make([]models.Subcategory, len(c.Subcategories))
		for j, sub := range c.Subcategories {
			sub.Products = nil
			categories[i].Subcategories[j] = sub
		}
	}
	return categories, nil
}

// GetCategory retrieves a category without its subcategories
func (r *MemoryCatalogRepository) GetCategory(id int) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.ID == id {
			c.Subcategories = nil
			return &c, nil
		}
	}
	return nil, fmt.Errorf("category %d: %w", id, services.ErrNotFound)
}

// GetSubcategory retrieves a subcategory with its products
func (r *MemoryCatalogRepository) GetSubcategory(id int) (*models.Subcategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[id]
	if !ok {
		return nil, fmt.Errorf("subcategory %d: %w", id, services.ErrNotFound)
	}
	sub.Products = append([]models.Product(nil), sub.Products...)
	return &sub, nil
}

// SeedCatalog stores categories when the catalog is empty, assigning IDs in order
func (r *MemoryCatalogRepository) SeedCatalog(categories []models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.categories) > 0 {
		return nil
	}

	subID, productID := 0, 0
	for i, c := range categories {
		stored := models.Category{ID: i + 1, Name: c.Name, Slug: slugOf(c)}
		for _, sub := range c.Subcategories {
			subID++
			s := models.Subcategory{ID: subID, CategoryID: stored.ID, Name: sub.Name}
			for _, p := range sub.Products {
				productID++
				p.ID = productID
				p.SubcategoryID = subID
				s.Products = append(s.Products, p)
			}
			r.subs[subID] = s
			stored.Subcategories = append(stored.Subcategories, s)
		}
		r.categories = append(r.categories, stored)
	}
	return nil
}

// MemoryAccountRepository keeps accounts in process memory
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

// NewMemoryAccountRepository creates an empty in-memory account store
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts: make(map[string]models.Account),
	}
}

// CreateAccount stores an account. A duplicate email fails with services.ErrEmailTaken.
func (r *MemoryAccountRepository) CreateAccount(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == account.Email {
			return services.ErrEmailTaken
		}
	}
	r.accounts[account.ID] = *account
	return nil
}

// GetAccountByEmail retrieves an account by its email address
func (r *MemoryAccountRepository) GetAccountByEmail(email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("account: %w", services.ErrNotFound)
}

// GetAccountByID retrieves an account by its ID
func (r *MemoryAccountRepository) GetAccountByID(id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account: %w", services.ErrNotFound)
	}
	return &a, nil
}
