//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"net"
	"os"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog/log"

	internalcli "github.com/themizzi/simplecom/internal/cli"
	"github.com/themizzi/simplecom/internal/config"
	"github.com/themizzi/simplecom/internal/logging"
	"github.com/themizzi/simplecom/internal/pages"
	"github.com/themizzi/simplecom/internal/session"
	"github.com/themizzi/simplecom/internal/treenav"
)

const actor = "worker-0"

var (
	pw            *playwright.Playwright
	browser       playwright.Browser
	shopConfig    *config.ShopConfig
	browserConfig *config.BrowserConfig
	navConfig     *config.NavigatorConfig
	sessions      *session.Provider
)

// TestMain starts the shop in process unless BASE_URL points elsewhere, then
// sets up and tears down the Playwright browser for all tests
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	if err := logging.Setup(os.Getenv("LOG_LEVEL"), nil); err != nil {
		panic(err)
	}

	var err error
	if shopConfig, err = config.LoadShopConfig(os.Getenv); err != nil {
		panic(err)
	}
	if browserConfig, err = config.LoadBrowserConfig(os.Getenv); err != nil {
		panic(err)
	}
	if navConfig, err = config.LoadNavigatorConfig(os.Getenv); err != nil {
		panic(err)
	}

	if os.Getenv("BASE_URL") == "" {
		shop := internalcli.NewShop(nil)
		if err := shop.Seed(shopConfig); err != nil {
			panic(err)
		}
		deps, err := internalcli.BuildServerDependencies(config.ServerConfig{
			Port:        "0",
			TemplateDir: "../templates",
			StaticDir:   "../static",
		}, shop)
		if err != nil {
			panic(err)
		}
		listener, server, err := internalcli.StartServer(deps)
		if err != nil {
			panic(err)
		}
		defer listener.Close()
		defer server.Close()
		shopConfig.BaseURL = fmt.Sprintf("http://127.0.0.1:%d", listener.Addr().(*net.TCPAddr).Port)
	}
	log.Info().Str("url", shopConfig.BaseURL).Msg("testing shop")

	// Browsers are installed with: go run github.com/playwright-community/playwright-go/cmd/playwright@latest install chromium
	pw, err = playwright.Run()
	if err != nil {
		panic(err)
	}
	defer pw.Stop()

	browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(browserConfig.Headless),
	})
	if err != nil {
		panic(err)
	}
	defer browser.Close()

	stateDir, err := os.MkdirTemp("", "simplecom-auth-")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(stateDir)
	sessions = session.NewProvider(stateDir, session.NewBrowserAuthenticator(browser, shopConfig, pageOptions()...))

	return m.Run()
}

func pageOptions() []pages.Option {
	return []pages.Option{
		pages.WithTimeout(browserConfig.Timeout),
		pages.WithNavigator(treenav.Options{Settler: navConfig.Settler()}),
	}
}

// newContext opens a logged in browser context that records a video of the test
func newContext(t *testing.T) playwright.BrowserContext {
	t.Helper()

	s, err := sessions.Ensure(context.Background(), actor)
	if err != nil {
		t.Fatalf("Failed to authenticate: %v", err)
	}
	bctx, err := s.NewContext(browser, playwright.BrowserNewContextOptions{
		RecordVideo: &playwright.RecordVideo{Dir: browserConfig.VideoDir},
	})
	if err != nil {
		t.Fatal(err)
	}
	bctx.SetDefaultTimeout(browserConfig.TimeoutMillis())
	t.Cleanup(func() { bctx.Close() })
	return bctx
}

func newLoginPage(page playwright.Page) *pages.LoginPage {
	return pages.NewLoginPage(page, shopConfig, pageOptions()...)
}

// newHomePage opens the home page in a logged in context and waits for it to load
func newHomePage(t *testing.T) *pages.HomePage {
	t.Helper()

	page, err := newContext(t).NewPage()
	if err != nil {
		t.Fatal(err)
	}
	home := pages.NewHomePage(page, shopConfig, pageOptions()...)
	ctx := context.Background()
	if err := home.Goto(ctx); err != nil {
		t.Fatal(err)
	}
	if err := home.WaitForPageLoad(ctx); err != nil {
		t.Fatalf("Home page did not load: %v", err)
	}
	return home
}

// categories extracts the tree and fails the test when it is empty
func categories(t *testing.T, home *pages.HomePage) []treenav.Category {
	t.Helper()

	tree, err := home.CategoryFilter.ExtractTree(context.Background())
	if err != nil {
		t.Fatalf("Failed to extract categories: %v", err)
	}
	if len(tree) == 0 {
		t.Fatal("Expected at least one category")
	}
	return tree
}

// withSubcategories returns the first category with at least n subcategories
func withSubcategories(tree []treenav.Category, n int) (treenav.Category, bool) {
	for _, c := range tree {
		if len(c.Subcategories) >= n {
			return c, true
		}
	}
	return treenav.Category{}, false
}
