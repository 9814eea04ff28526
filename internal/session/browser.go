package session

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/simplecom/internal/config"
	"github.com/themizzi/simplecom/internal/pages"
)

// BrowserAuthenticator logs in through the login page in a fresh browser
// context and captures the context's storage state
type BrowserAuthenticator struct {
	browser playwright.Browser
	shop    *config.ShopConfig
	opts    []pages.Option
}

// NewBrowserAuthenticator creates an authenticator driving browser
func NewBrowserAuthenticator(browser playwright.Browser, shop *config.ShopConfig, opts ...pages.Option) *BrowserAuthenticator {
	return &BrowserAuthenticator{browser: browser, shop: shop, opts: opts}
}

// Authenticate logs in with the configured account
func (a *BrowserAuthenticator) Authenticate(ctx context.Context, actorID string) (*State, error) {
	bctx, err := a.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}
	defer bctx.Close()

	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	login := pages.NewLoginPage(page, a.shop, a.opts...)
	if err := login.Goto(ctx); err != nil {
		return nil, err
	}
	if err := login.LoginWithStoredCredentials(ctx); err != nil {
		return nil, err
	}
	if err := login.Header.WaitLoggedIn(ctx, login.Timeout()); err != nil {
		message, _ := login.Form.ErrorMessage(ctx)
		return nil, fmt.Errorf("login as %s failed: %q: %w", a.shop.Email, message, err)
	}

	storage, err := bctx.StorageState()
	if err != nil {
		return nil, fmt.Errorf("could not read storage state: %w", err)
	}
	return stateOf(storage), nil
}

func stateOf(storage *playwright.StorageState) *State {
	state := &State{Cookies: []Cookie{}, Origins: []Origin{}}
	for _, c := range storage.Cookies {
		cookie := Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != nil {
			cookie.SameSite = string(*c.SameSite)
		}
		state.Cookies = append(state.Cookies, cookie)
	}
	for _, o := range storage.Origins {
		origin := Origin{Origin: o.Origin, LocalStorage: []NameValue{}}
		for _, kv := range o.LocalStorage {
			origin.LocalStorage = append(origin.LocalStorage, NameValue{Name: kv.Name, Value: kv.Value})
		}
		state.Origins = append(state.Origins, origin)
	}
	return state
}

// NewContext opens a browser context logged in as the session's actor.
// opts.StorageStatePath is replaced by the session's state file.
func (s *Session) NewContext(browser playwright.Browser, opts playwright.BrowserNewContextOptions) (playwright.BrowserContext, error) {
	opts.StorageStatePath = playwright.String(s.StatePath)
	bctx, err := browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("could not create browser context for %s: %w", s.ActorID, err)
	}
	return bctx, nil
}
