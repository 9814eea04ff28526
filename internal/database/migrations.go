package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

var migrations = []struct {
	name string
	sql  string
}{
	{"categories", `
	CREATE TABLE IF NOT EXISTS categories (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(255) UNIQUE NOT NULL,
		position INTEGER NOT NULL
	);
	`},
	{"subcategories", `
	CREATE TABLE IF NOT EXISTS subcategories (
		id SERIAL PRIMARY KEY,
		category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		position INTEGER NOT NULL,
		UNIQUE (category_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_subcategories_category ON subcategories(category_id);
	`},
	{"products", `
	CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		subcategory_id INTEGER NOT NULL REFERENCES subcategories(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		price_cents BIGINT NOT NULL CHECK (price_cents > 0),
		currency VARCHAR(3) NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_products_subcategory ON products(subcategory_id);
	`},
	{"accounts", `
	CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		password_hash BYTEA NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`},
}

// RunMigrations creates the necessary database tables
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	for _, m := range migrations {
		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("failed to create %s table: %w", m.name, err)
		}
	}

	log.Info().Int("tables", len(migrations)).Msg("database migrations completed")
	return nil
}
