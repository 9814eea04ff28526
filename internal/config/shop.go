package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Demo account seeded by the serve command and used by default by the suite
const (
	DemoEmail    = "demo@simplecom.test"
	DemoPassword = "simplecom-demo"
	DemoName     = "Demo User"
)

// ShopConfig holds the location of the shop under test and the
// credentials of the account that logs in to it
type ShopConfig struct {
	BaseURL  string
	Email    string
	Password string
	Name     string
}

// LoadShopConfig loads shop configuration from environment variables
func LoadShopConfig(getenv func(string) string) (*ShopConfig, error) {
	config := &ShopConfig{
		BaseURL:  strings.TrimRight(getenv("BASE_URL"), "/"),
		Email:    getenv("LOGIN_EMAIL"),
		Password: getenv("LOGIN_PASSWORD"),
		Name:     getenv("LOGIN_NAME"),
	}

	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:8080"
	}
	if u, err := url.Parse(config.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("BASE_URL %q is not an absolute URL", config.BaseURL)
	}
	if config.Email == "" && config.Password == "" {
		config.Email = DemoEmail
		config.Password = DemoPassword
		if config.Name == "" {
			config.Name = DemoName
		}
	}
	if config.Email == "" {
		return nil, fmt.Errorf("LOGIN_EMAIL is required")
	}
	if config.Password == "" {
		return nil, fmt.Errorf("LOGIN_PASSWORD is required")
	}

	return config, nil
}

// URL joins path onto the base URL
func (c *ShopConfig) URL(path string) string {
	return c.BaseURL + "/" + strings.TrimLeft(path, "/")
}
