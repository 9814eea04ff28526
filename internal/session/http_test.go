package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/simplecom/internal/cli"
	"github.com/themizzi/simplecom/internal/config"
)

func newShop(t *testing.T) (*httptest.Server, *cli.Shop) {
	t.Helper()
	shop := cli.NewShop(nil)
	require.NoError(t, shop.Seed(&config.ShopConfig{Email: config.DemoEmail, Password: config.DemoPassword}))
	deps, err := cli.BuildServerDependencies(config.ServerConfig{TemplateDir: "../../templates"}, shop)
	require.NoError(t, err)
	server := httptest.NewServer(cli.NewRouter(deps))
	t.Cleanup(server.Close)
	return server, shop
}

func TestHTTPAuthenticator_Authenticate(t *testing.T) {
	server, shop := newShop(t)
	auth := NewHTTPAuthenticator(&config.ShopConfig{BaseURL: server.URL, Email: config.DemoEmail, Password: config.DemoPassword})

	state, err := auth.Authenticate(context.Background(), "worker-0")
	require.NoError(t, err)

	cookie := state.Cookie(CookieName)
	require.NotNil(t, cookie)
	base, _ := url.Parse(server.URL)
	assert.Equal(t, base.Hostname(), cookie.Domain)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HTTPOnly)
	assert.Equal(t, "Lax", cookie.SameSite)
	assert.Positive(t, cookie.Expires)

	account, err := shop.Auth.Resolve(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, config.DemoEmail, account.Email)
}

func TestHTTPAuthenticator_WrongPassword(t *testing.T) {
	server, _ := newShop(t)
	auth := NewHTTPAuthenticator(&config.ShopConfig{BaseURL: server.URL, Email: config.DemoEmail, Password: "wrong-password"})

	_, err := auth.Authenticate(context.Background(), "worker-0")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 401")
}

func TestHTTPAuthenticator_WithProvider(t *testing.T) {
	server, _ := newShop(t)
	auth := NewHTTPAuthenticator(&config.ShopConfig{BaseURL: server.URL, Email: config.DemoEmail, Password: config.DemoPassword})
	p := NewProvider(t.TempDir(), auth)

	s, err := p.Ensure(context.Background(), "worker-0")
	require.NoError(t, err)

	// The stored cookie authenticates plain HTTP requests too.
	req, err := http.NewRequest(http.MethodGet, server.URL+"/", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: s.State.Cookie(CookieName).Value})
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestHTTPAuthenticator_Unreachable(t *testing.T) {
	auth := NewHTTPAuthenticator(&config.ShopConfig{BaseURL: "http://127.0.0.1:1", Email: config.DemoEmail, Password: config.DemoPassword})

	_, err := auth.Authenticate(context.Background(), "worker-0")

	assert.Error(t, err)
}
