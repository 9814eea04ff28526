package config

import (
	"fmt"
	"strconv"
)

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	TemplateDir  string
	StaticDir    string
	SecureCookie bool
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) (ServerConfig, error) {
	config := ServerConfig{
		Port:        getenv("PORT"),
		TemplateDir: getenv("TEMPLATE_DIR"),
		StaticDir:   getenv("STATIC_DIR"),
	}
	if config.Port == "" {
		config.Port = "8080" // Default to port 8080
	}
	if config.TemplateDir == "" {
		config.TemplateDir = "templates"
	}
	if config.StaticDir == "" {
		config.StaticDir = "static"
	}
	if v := getenv("SECURE_COOKIE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("SECURE_COOKIE must be a boolean: %w", err)
		}
		config.SecureCookie = secure
	}

	return config, nil
}
