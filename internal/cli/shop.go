package cli

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/themizzi/simplecom/internal/config"
	"github.com/themizzi/simplecom/internal/handlers"
	"github.com/themizzi/simplecom/internal/models"
	"github.com/themizzi/simplecom/internal/repository"
	"github.com/themizzi/simplecom/internal/services"
)

// Shop bundles the services behind the web handlers
type Shop struct {
	Catalog services.CatalogService
	Auth    services.AuthService
}

// NewShop creates the shop services on db, or on in-memory stores when db is nil
func NewShop(db *sql.DB) *Shop {
	var (
		catalogRepo services.CatalogRepository
		accountRepo services.AccountRepository
	)
	if db != nil {
		catalogRepo = repository.NewCatalogRepository(db)
		accountRepo = repository.NewAccountRepository(db)
	} else {
		catalogRepo = repository.NewMemoryCatalogRepository()
		accountRepo = repository.NewMemoryAccountRepository()
	}

	return &Shop{
		Catalog: services.NewCatalogService(catalogRepo),
		Auth:    services.NewAuthService(accountRepo, 0),
	}
}

// Seed stores the default catalog and registers the account of shop. Both
// steps leave existing data untouched.
func (s *Shop) Seed(shop *config.ShopConfig) error {
	if err := s.Catalog.Seed(models.DefaultCatalog()); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	name := shop.Name
	if name == "" {
		name = config.DemoName
	}
	_, err := s.Auth.Register(shop.Email, name, shop.Password)
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		log.Debug().Str("email", shop.Email).Msg("account already registered")
	case err != nil:
		return fmt.Errorf("failed to register account: %w", err)
	default:
		log.Info().Str("email", shop.Email).Msg("registered account")
	}
	return nil
}

// BuildServerDependencies creates the handlers of the shop server
func BuildServerDependencies(serverConfig config.ServerConfig, shop *Shop) (ServerDependencies, error) {
	deps := ServerDependencies{ServerConfig: serverConfig}
	dir := serverConfig.TemplateDir

	homeHandler, err := handlers.NewHomeHandler(dir, shop.Catalog, shop.Auth)
	if err != nil {
		return deps, fmt.Errorf("failed to create home handler: %w", err)
	}
	deps.HomeHandler = homeHandler

	loginHandler, err := handlers.NewLoginHandler(dir, shop.Auth, serverConfig.SecureCookie)
	if err != nil {
		return deps, fmt.Errorf("failed to create login handler: %w", err)
	}
	deps.LoginHandler = loginHandler

	categoryProductsHandler, err := handlers.NewCategoryProductsHandler(dir, shop.Catalog, shop.Auth)
	if err != nil {
		return deps, fmt.Errorf("failed to create category products handler: %w", err)
	}
	deps.CategoryProductsHandler = categoryProductsHandler

	deps.LogoutHandler = handlers.NewLogoutHandler(shop.Auth)
	deps.CategoriesAPIHandler = handlers.NewCategoriesAPIHandler(shop.Catalog)

	return deps, nil
}
