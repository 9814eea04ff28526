package pages

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/simplecom/internal/config"
	"github.com/themizzi/simplecom/internal/locator"
)

// LoginPage is the /login page of the shop
type LoginPage struct {
	basePage
	shop *config.ShopConfig

	Form *LoginForm
}

// NewLoginPage creates the login page of shop on page
func NewLoginPage(page playwright.Page, shop *config.ShopConfig, opts ...Option) *LoginPage {
	o := newOptions(opts)
	return &LoginPage{
		basePage: newBasePage(page, shop.URL("/login"), o.timeout),
		shop:     shop,
		Form:     NewLoginForm(locator.FromPage(page, ".login-form")),
	}
}

// Goto opens the login page and waits for the form
func (p *LoginPage) Goto(ctx context.Context) error {
	if err := p.basePage.Goto(ctx); err != nil {
		return err
	}
	return p.Form.WaitForVisible(ctx, p.timeout)
}

// Login submits the form and waits for the resulting page to load
func (p *LoginPage) Login(ctx context.Context, email, password string) error {
	if err := p.Form.Login(ctx, email, password); err != nil {
		return err
	}
	err := p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateDomcontentloaded,
		Timeout: playwright.Float(locator.Millis(ctx, p.timeout)),
	})
	if err != nil {
		return fmt.Errorf("wait for login response: %w", err)
	}
	return nil
}

// LoginWithStoredCredentials logs in with the configured account
func (p *LoginPage) LoginWithStoredCredentials(ctx context.Context) error {
	return p.Login(ctx, p.shop.Email, p.shop.Password)
}

// IsLoggedIn reports whether the header shows a logged in account
func (p *LoginPage) IsLoggedIn(ctx context.Context) (bool, error) {
	return p.Header.IsLoggedIn(ctx)
}
