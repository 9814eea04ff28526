package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/themizzi/simplecom/internal/config"
)

// HTTPAuthenticator logs in by posting the shop login form directly,
// without a browser
type HTTPAuthenticator struct {
	client *resty.Client
	shop   *config.ShopConfig
}

// NewHTTPAuthenticator creates an authenticator for the shop at shop.BaseURL
func NewHTTPAuthenticator(shop *config.ShopConfig) *HTTPAuthenticator {
	client := resty.New().
		SetBaseURL(shop.BaseURL).
		SetTimeout(30 * time.Second).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			// The login redirect carries the cookie; stop there.
			return http.ErrUseLastResponse
		}))

	return &HTTPAuthenticator{client: client, shop: shop}
}

// Authenticate logs in with the configured account
func (a *HTTPAuthenticator) Authenticate(ctx context.Context, actorID string) (*State, error) {
	res, err := a.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"email":    a.shop.Email,
			"password": a.shop.Password,
		}).
		Post("/login")
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	if res.StatusCode() != http.StatusSeeOther {
		return nil, fmt.Errorf("login rejected: %s (status: %d)", res.Request.URL, res.StatusCode())
	}

	base, err := url.Parse(a.shop.BaseURL)
	if err != nil {
		return nil, err
	}
	state := &State{Origins: []Origin{}}
	for _, c := range res.Cookies() {
		state.Cookies = append(state.Cookies, cookieOf(c, base))
	}
	return state, nil
}

// cookieOf converts a response cookie into storage state form, filling the
// host only defaults a browser would apply
func cookieOf(c *http.Cookie, base *url.URL) Cookie {
	cookie := Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  -1,
		HTTPOnly: c.HttpOnly,
		Secure:   c.Secure,
		SameSite: "Lax",
	}
	if cookie.Domain == "" {
		cookie.Domain = base.Hostname()
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	if !c.Expires.IsZero() {
		cookie.Expires = float64(c.Expires.Unix())
	}
	switch c.SameSite {
	case http.SameSiteStrictMode:
		cookie.SameSite = "Strict"
	case http.SameSiteNoneMode:
		cookie.SameSite = "None"
	}
	return cookie
}
