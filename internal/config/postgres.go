package config

import (
	"fmt"
	"slices"
	"strconv"
)

var sslModes = []string{"disable", "require", "verify-ca", "verify-full"}

// PostgresConfig holds the connection settings of the shop database
type PostgresConfig struct {
	User     string
	Password string
	Database string
	Host     string
	Port     int
	SSLMode  string
}

// LoadPostgresConfig loads PostgreSQL configuration from environment variables.
// POSTGRES_PORT defaults to 5432 and POSTGRES_SSLMODE to disable.
func LoadPostgresConfig(getenv func(string) string) (*PostgresConfig, error) {
	config := &PostgresConfig{
		User:     getenv("POSTGRES_USER"),
		Password: getenv("POSTGRES_PASSWORD"),
		Database: getenv("POSTGRES_DB"),
		Host:     getenv("POSTGRES_HOSTNAME"),
		Port:     5432,
		SSLMode:  getenv("POSTGRES_SSLMODE"),
	}

	required := []struct {
		key   string
		value string
	}{
		{"POSTGRES_USER", config.User},
		{"POSTGRES_PASSWORD", config.Password},
		{"POSTGRES_DB", config.Database},
		{"POSTGRES_HOSTNAME", config.Host},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%s is required", r.key)
		}
	}

	if v := getenv("POSTGRES_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("POSTGRES_PORT must be a port number, got %q", v)
		}
		config.Port = port
	}
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}
	if !slices.Contains(sslModes, config.SSLMode) {
		return nil, fmt.Errorf("POSTGRES_SSLMODE must be one of %v, got %q", sslModes, config.SSLMode)
	}

	return config, nil
}

// ConnectionString returns a lib/pq keyword/value connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}
