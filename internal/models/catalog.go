package models

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Category is a top level entry of the shop's category sidebar
type Category struct {
	ID            int
	Name          string
	Slug          string
	Subcategories []Subcategory
}

// Subcategory groups products below a category
type Subcategory struct {
	ID         int
	CategoryID int
	Name       string
	Products   []Product
}

// Product is a listed item of a subcategory
type Product struct {
	ID            int
	SubcategoryID int
	Name          string
	PriceCents    int64
	Currency      string
}

// Catalog errors
var (
	ErrInvalidCategoryName    = errors.New("category name cannot be empty")
	ErrInvalidSubcategoryName = errors.New("subcategory name cannot be empty")
	ErrInvalidPrice           = errors.New("product price must be positive")
	ErrDuplicateSubcategory   = errors.New("subcategory already exists in category")
)

// Validate checks the category, its subcategories and their products
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidCategoryName
	}
	seen := make(map[string]bool, len(c.Subcategories))
	for _, sub := range c.Subcategories {
		if strings.TrimSpace(sub.Name) == "" {
			return fmt.Errorf("%w: in %s", ErrInvalidSubcategoryName, c.Name)
		}
		if seen[sub.Name] {
			return fmt.Errorf("%w: %s/%s", ErrDuplicateSubcategory, c.Name, sub.Name)
		}
		seen[sub.Name] = true
		for _, p := range sub.Products {
			if p.PriceCents <= 0 {
				return fmt.Errorf("%w: %s", ErrInvalidPrice, p.Name)
			}
		}
	}
	return nil
}

// IsLeaf returns true if the category has no subcategories and so renders
// without a collapsible panel
func (c Category) IsLeaf() bool {
	return len(c.Subcategories) == 0
}

// PanelID returns the HTML id of the category's collapsible body
func (c Category) PanelID() string {
	return "category-" + c.Slug
}

// GetFormattedPrice returns the price formatted with currency
func (p Product) GetFormattedPrice() string {
	return fmt.Sprintf("%.2f %s", float64(p.PriceCents)/100.0, p.Currency)
}

// Slugify lowercases name and joins its alphanumeric runs with dashes
func Slugify(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}

type seedSubcategory struct {
	name     string
	products []string
}

// DefaultCatalog returns the seed catalog served by the demo shop. IDs are
// assigned in order so every store seeded from it agrees on them.
func DefaultCatalog() []Category {
	seed := []struct {
		name string
		subs []seedSubcategory
	}{
		{"Women", []seedSubcategory{
			{"Dress", []string{"Sleeveless Dress", "Stylish Dress"}},
			{"Tops", []string{"Winter Top", "Summer White Top"}},
			{"Saree", []string{"Cotton Mull Saree"}},
		}},
		{"Men", []seedSubcategory{
			{"Tshirts", []string{"Pure Cotton V-Neck T-Shirt", "Men Tshirt"}},
			{"Jeans", []string{"Soft Stretch Jeans"}},
		}},
		{"Kids", []seedSubcategory{
			{"Dress", []string{"Sleeves Printed Top - White"}},
			{"Tops & Shirts", []string{"Little Girls Mr. Panda Shirt"}},
		}},
		{"Sale", nil},
	}

	var catalog []Category
	subID, productID := 0, 0
	price := int64(40000)
	for i, s := range seed {
		c := Category{ID: i + 1, Name: s.name, Slug: Slugify(s.name)}
		for _, ss := range s.subs {
			subID++
			sub := Subcategory{ID: subID, CategoryID: c.ID, Name: ss.name}
			for _, name := range ss.products {
				productID++
				price += 5000
				sub.Products = append(sub.Products, Product{
					ID:            productID,
					SubcategoryID: subID,
					Name:          name,
					PriceCents:    price,
					Currency:      "EUR",
				})
			}
			c.Subcategories = append(c.Subcategories, sub)
		}
		catalog = append(catalog, c)
	}
	return catalog
}
