package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/themizzi/simplecom/internal/models"
	"github.com/themizzi/simplecom/internal/services"
)

// CatalogRepository handles database operations for categories, subcategories and products
type CatalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *sql.DB) *CatalogRepository {
	return &CatalogRepository{
		db: db,
	}
}

// ListCategories returns every category with its subcategories, in position order
func (r *CatalogRepository) ListCategories() ([]models.Category, error) {
	rows, err := r.db.Query(`
		SELECT c.id, c.name, c.slug, s.id, s.name
		FROM categories c
		LEFT JOIN subcategories s ON s.category_id = c.id
		ORDER BY c.position, s.position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var (
			c       models.Category
			subID   sql.NullInt64
			subName sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &subID, &subName); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		if n := len(categories); n == 0 || categories[n-1].ID != c.ID {
			categories = append(categories, c)
		}
		if subID.Valid {
			last := &categories[len(categories)-1]
			last.Subcategories = append(last.Subcategories, models.Subcategory{
				ID:         int(subID.Int64),
				CategoryID: last.ID,
				Name:       subName.String,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// GetCategory retrieves a category without its subcategories
func (r *CatalogRepository) GetCategory(id int) (*models.Category, error) {
	c := &models.Category{}
	err := r.db.QueryRow(`SELECT id, name, slug FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Slug)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, services.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return c, nil
}

// GetSubcategory retrieves a subcategory with its products
func (r *CatalogRepository) GetSubcategory(id int) (*models.Subcategory, error) {
	sub := &models.Subcategory{}
	err := r.db.QueryRow(`SELECT id, category_id, name FROM subcategories WHERE id = $1`, id).
		Scan(&sub.ID, &sub.CategoryID, &sub.Name)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subcategory %d: %w", id, services.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subcategory: %w", err)
	}

	rows, err := r.db.Query(`
		SELECT id, name, price_cents, currency
		FROM products
		WHERE subcategory_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := models.Product{SubcategoryID: sub.ID}
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents, &p.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		sub.Products = append(sub.Products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return sub, nil
}

// SeedCatalog inserts categories in one transaction when the catalog is empty.
// IDs are assigned by the database.
func (r *CatalogRepository) SeedCatalog(categories []models.Category) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&existing); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if existing > 0 {
		return nil
	}

	for i, c := range categories {
		var categoryID int
		err := tx.QueryRow(
			`INSERT INTO categories (name, slug, position) VALUES ($1, $2, $3) RETURNING id`,
			c.Name, slugOf(c), i,
		).Scan(&categoryID)
		if err != nil {
			return fmt.Errorf("failed to insert category %s: %w", c.Name, err)
		}

		for j, sub := range c.Subcategories {
			var subID int
			err := tx.QueryRow(
				`INSERT INTO subcategories (category_id, name, position) VALUES ($1, $2, $3) RETURNING id`,
				categoryID, sub.Name, j,
			).Scan(&subID)
			if err != nil {
				return fmt.Errorf("failed to insert subcategory %s/%s: %w", c.Name, sub.Name, err)
			}

			for _, p := range sub.Products {
				_, err := tx.Exec(
					`INSERT INTO products (subcategory_id, name, price_cents, currency) VALUES ($1, $2, $3, $4)`,
					subID, p.Name, p.PriceCents, p.Currency,
				)
				if err != nil {
					return fmt.Errorf("failed to insert product %s: %w", p.Name, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	return nil
}

func slugOf(c models.Category) string {
	if c.Slug != "" {
		return c.Slug
	}
	return models.Slugify(c.Name)
}
