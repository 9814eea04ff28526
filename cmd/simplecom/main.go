package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	internalcli "github.com/themizzi/simplecom/internal/cli"
	"github.com/themizzi/simplecom/internal/config"
	"github.com/themizzi/simplecom/internal/database"
	"github.com/themizzi/simplecom/internal/logging"
	"github.com/themizzi/simplecom/internal/pages"
	"github.com/themizzi/simplecom/internal/session"
	"github.com/themizzi/simplecom/internal/treenav"
)

var version = "0.2.0"

// getenv is replaced by the viper backed lookup once flags are parsed
var getenv = os.Getenv

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the shop web server",
		Action: func(c *cli.Context) error {
			shopConfig, err := config.LoadShopConfig(getenv)
			if err != nil {
				return fmt.Errorf("invalid shop configuration: %w", err)
			}
			serverConfig, err := config.LoadServerConfig(getenv)
			if err != nil {
				return fmt.Errorf("invalid server configuration: %w", err)
			}

			var shop *internalcli.Shop
			if getenv("POSTGRES_HOSTNAME") == "" {
				log.Warn().Msg("POSTGRES_HOSTNAME not set, using in-memory storage")
				shop = internalcli.NewShop(nil)
			} else {
				pgConfig, err := config.LoadPostgresConfig(getenv)
				if err != nil {
					return fmt.Errorf("missing required database configuration: %w", err)
				}
				db, err := database.Connect(pgConfig)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer db.Close()
				log.Info().Str("host", pgConfig.Host).Msg("connected to database")

				if err := database.RunMigrations(db); err != nil {
					return fmt.Errorf("failed to run database migrations: %w", err)
				}
				shop = internalcli.NewShop(db)
			}

			if err := shop.Seed(shopConfig); err != nil {
				return err
			}

			deps, err := internalcli.BuildServerDependencies(serverConfig, shop)
			if err != nil {
				return err
			}
			return internalcli.RunServe(deps)
		},
	}
}

// CategoriesCommand returns the categories command
func CategoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "Print the category tree of the shop's sidebar as JSON",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "headed", Usage: "show the browser window"},
		},
		Action: func(c *cli.Context) error {
			shopConfig, browserConfig, navConfig, err := loadBrowserConfigs()
			if err != nil {
				return err
			}
			if c.Bool("headed") {
				browserConfig.Headless = false
			}

			return withBrowser(browserConfig, func(browser playwright.Browser) error {
				page, err := browser.NewPage()
				if err != nil {
					return fmt.Errorf("could not create page: %w", err)
				}
				defer page.Close()

				home := pages.NewHomePage(page, shopConfig,
					pages.WithTimeout(browserConfig.Timeout),
					pages.WithNavigator(treenav.Options{Settler: navConfig.Settler()}),
				)
				ctx := c.Context
				if err := home.Goto(ctx); err != nil {
					return err
				}
				if err := home.CategoryFilter.WaitUntilReady(ctx, browserConfig.Timeout); err != nil {
					return err
				}
				tree, err := home.CategoryFilter.ExtractTree(ctx)
				if err != nil {
					return err
				}

				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(tree)
			})
		},
	}
}

// LoginCommand returns the login command
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Authenticate actors and store their browser storage state",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "actors", Value: 1, Usage: "number of actors, named worker-0 to worker-N"},
			&cli.BoolFlag{Name: "browser", Usage: "log in through the login page instead of posting the form"},
			&cli.BoolFlag{Name: "force", Usage: "discard stored states first"},
		},
		Action: func(c *cli.Context) error {
			shopConfig, browserConfig, _, err := loadBrowserConfigs()
			if err != nil {
				return err
			}
			if c.Int("actors") < 1 {
				return errors.New("--actors must be at least 1")
			}

			run := func(auth session.Authenticator) error {
				provider := session.NewProvider(browserConfig.StorageStateDir, auth)
				g, ctx := errgroup.WithContext(c.Context)
				for i := range c.Int("actors") {
					actor := "worker-" + strconv.Itoa(i)
					g.Go(func() error {
						if c.Bool("force") {
							if err := provider.Invalidate(actor); err != nil {
								return err
							}
						}
						s, err := provider.Ensure(ctx, actor)
						if err != nil {
							return err
						}
						fmt.Fprintln(c.App.Writer, s.StatePath)
						return nil
					})
				}
				return g.Wait()
			}

			if !c.Bool("browser") {
				return run(session.NewHTTPAuthenticator(shopConfig))
			}
			return withBrowser(browserConfig, func(browser playwright.Browser) error {
				return run(session.NewBrowserAuthenticator(browser, shopConfig, pages.WithTimeout(browserConfig.Timeout)))
			})
		},
	}
}

func loadBrowserConfigs() (*config.ShopConfig, *config.BrowserConfig, *config.NavigatorConfig, error) {
	shopConfig, err := config.LoadShopConfig(getenv)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid shop configuration: %w", err)
	}
	browserConfig, err := config.LoadBrowserConfig(getenv)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid browser configuration: %w", err)
	}
	navConfig, err := config.LoadNavigatorConfig(getenv)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid navigator configuration: %w", err)
	}
	return shopConfig, browserConfig, navConfig, nil
}

// withBrowser runs fn with a chromium browser and tears it down afterwards
func withBrowser(browserConfig *config.BrowserConfig, fn func(playwright.Browser) error) error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("could not start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(browserConfig.Headless),
		Timeout:  playwright.Float(browserConfig.TimeoutMillis()),
	})
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	defer browser.Close()

	return fn(browser)
}

// setup loads the env file and config lookup, then configures logging from
// the flag or, when unset, the resolved LOG_LEVEL
func setup(c *cli.Context) error {
	envFile := c.String("env-file")
	envMissing := false
	if err := godotenv.Load(envFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		envMissing = true
	}
	lookup, err := config.Lookup(c.String("config"))
	if err != nil {
		return err
	}
	getenv = lookup

	level := c.String("log-level")
	if !c.IsSet("log-level") {
		level = getenv("LOG_LEVEL")
	}
	if err := logging.Setup(level, nil); err != nil {
		return err
	}
	if envMissing {
		log.Debug().Str("file", envFile).Msg("env file not found, using environment variables")
	}
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "simplecom",
		Usage:   "Demo shop and category navigator tooling",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "optional JSON, YAML or TOML config file", EnvVars: []string{"SIMPLECOM_CONFIG"}},
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded into the environment"},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error (default info)", EnvVars: []string{"LOG_LEVEL"}},
		},
		Before: setup,
		Commands: []*cli.Command{
			ServeCommand(),
			CategoriesCommand(),
			LoginCommand(),
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("command failed")
		stop()
		os.Exit(1)
	}
}
