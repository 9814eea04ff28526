package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/themizzi/simplecom/internal/models"
	"github.com/themizzi/simplecom/internal/services"
)

// AccountRepository handles database operations for accounts
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

// CreateAccount inserts a new account. A duplicate email fails with services.ErrEmailTaken.
func (r *AccountRepository) CreateAccount(account *models.Account) error {
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO accounts (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, account.ID, account.Email, account.Name, account.PasswordHash, account.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return services.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetAccountByEmail retrieves an account by its email address
func (r *AccountRepository) GetAccountByEmail(email string) (*models.Account, error) {
	return r.getAccount(`WHERE email = $1`, email)
}

// GetAccountByID retrieves an account by its ID
func (r *AccountRepository) GetAccountByID(id string) (*models.Account, error) {
	return r.getAccount(`WHERE id = $1`, id)
}

func (r *AccountRepository) getAccount(where string, arg string) (*models.Account, error) {
	account := &models.Account{}
	err := r.db.QueryRow(`
		SELECT id, email, name, password_hash, created_at
		FROM accounts
		`+where, arg).Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.PasswordHash,
		&account.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account: %w", services.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}
