package services

import (
	"github.com/themizzi/simplecom/internal/models"
)

// MockCatalogRepository is a mock implementation of CatalogRepository for testing
type MockCatalogRepository struct {
	ListCategoriesFunc func() ([]models.Category, error)
	GetCategoryFunc    func(int) (*models.Category, error)
	GetSubcategoryFunc func(int) (*models.Subcategory, error)
	SeedCatalogFunc    func([]models.Category) error
}

func (m *MockCatalogRepository) ListCategories() ([]models.Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc()
	}
	return nil, nil
}

func (m *MockCatalogRepository) GetCategory(id int) (*models.Category, error) {
	if m.GetCategoryFunc != nil {
		return m.GetCategoryFunc(id)
	}
	return &models.Category{ID: id}, nil
}

func (m *MockCatalogRepository) GetSubcategory(id int) (*models.Subcategory, error) {
	if m.GetSubcategoryFunc != nil {
		return m.GetSubcategoryFunc(id)
	}
	return &models.Subcategory{ID: id}, nil
}

func (m *MockCatalogRepository) SeedCatalog(categories []models.Category) error {
	if m.SeedCatalogFunc != nil {
		return m.SeedCatalogFunc(categories)
	}
	return nil
}

// MockAccountRepository is an in-memory AccountRepository for testing
type MockAccountRepository struct {
	accounts map[string]*models.Account
	Err      error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*models.Account)}
}

func (m *MockAccountRepository) CreateAccount(account *models.Account) error {
	if m.Err != nil {
		return m.Err
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetAccountByEmail(email string) (*models.Account, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockAccountRepository) GetAccountByID(id string) (*models.Account, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, ErrNotFound
}
