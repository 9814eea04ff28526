package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/themizzi/simplecom/internal/models"
)

// DefaultSessionTTL is how long a login session stays valid
const DefaultSessionTTL = 24 * time.Hour

// Auth errors
var (
	ErrInvalidCredentials = errors.New("your email or password is incorrect")
	ErrInvalidSession     = errors.New("session is invalid or expired")
	ErrEmailTaken         = errors.New("email address already exists")
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	CreateAccount(account *models.Account) error
	GetAccountByEmail(email string) (*models.Account, error)
	GetAccountByID(id string) (*models.Account, error)
}

// Session is an authenticated login
type Session struct {
	Token     string
	AccountID string
	ExpiresAt time.Time
}

// AuthService handles registration, login and session lookup
type AuthService interface {
	Register(email, name, password string) (*models.Account, error)
	Login(email, password string) (*Session, error)
	Resolve(token string) (*models.Account, error)
	Logout(token string)
}

// AuthServiceImpl implements AuthService with sessions held in memory
type AuthServiceImpl struct {
	accountRepo AccountRepository
	ttl         time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

// NewAuthService creates a new auth service. A zero ttl means DefaultSessionTTL.
func NewAuthService(accountRepo AccountRepository, ttl time.Duration) AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthServiceImpl{
		accountRepo: accountRepo,
		ttl:         ttl,
		now:         time.Now,
		sessions:    make(map[string]Session),
	}
}

// Register creates an account, failing with ErrEmailTaken for a known email
func (s *AuthServiceImpl) Register(email, name, password string) (*models.Account, error) {
	account, err := models.NewAccount(email, name, password)
	if err != nil {
		return nil, fmt.Errorf("invalid account: %w", err)
	}

	existing, err := s.accountRepo.GetAccountByEmail(account.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	if err := s.accountRepo.CreateAccount(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// Login checks the credentials and starts a session
func (s *AuthServiceImpl) Login(email, password string) (*Session, error) {
	account, err := s.accountRepo.GetAccountByEmail(strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if err := account.CheckPassword(password); err != nil {
		if errors.Is(err, models.ErrWrongPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	session := Session{
		Token:     uuid.New().String(),
		AccountID: account.ID,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return &session, nil
}

// Resolve returns the account of a live session
func (s *AuthServiceImpl) Resolve(token string) (*models.Account, error) {
	s.mu.Lock()
	session, ok := s.sessions[token]
	if ok && !s.now().Before(session.ExpiresAt) {
		delete(s.sessions, token)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	account, err := s.accountRepo.GetAccountByID(session.AccountID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// Logout ends a session. Unknown tokens are ignored.
func (s *AuthServiceImpl) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
