package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Lookup returns a getenv function for the Load functions. Keys are read
// from the environment first, then from the optional config file (JSON,
// YAML or TOML by extension). Keys in the file are matched case
// insensitively, so POSTGRES_HOSTNAME may be written postgres_hostname.
func Lookup(file string) (func(string) string, error) {
	v := viper.New()
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return func(key string) string {
		return v.GetString(strings.ToLower(key))
	}, nil
}
