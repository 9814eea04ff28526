package config

import (
	"fmt"
	"time"

	"github.com/themizzi/simplecom/internal/treenav"
)

// Settle modes
const (
	SettlePoll  = "poll"
	SettleFixed = "fixed"
)

// NavigatorConfig holds the settle tuning of the category tree navigator
type NavigatorConfig struct {
	SettleMode     string
	SettleTimeout  time.Duration
	SettleInterval time.Duration
	SettleDelay    time.Duration
}

// LoadNavigatorConfig loads navigator configuration from environment variables
func LoadNavigatorConfig(getenv func(string) string) (*NavigatorConfig, error) {
	config := &NavigatorConfig{
		SettleMode:     getenv("NAV_SETTLE_MODE"),
		SettleTimeout:  treenav.DefaultSettleTimeout,
		SettleInterval: treenav.DefaultSettleInterval,
		SettleDelay:    treenav.DefaultSettleDelay,
	}

	switch config.SettleMode {
	case "":
		config.SettleMode = SettlePoll
	case SettlePoll, SettleFixed:
	default:
		return nil, fmt.Errorf("NAV_SETTLE_MODE must be %q or %q, got %q", SettlePoll, SettleFixed, config.SettleMode)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"NAV_SETTLE_TIMEOUT", &config.SettleTimeout},
		{"NAV_SETTLE_INTERVAL", &config.SettleInterval},
		{"NAV_SETTLE_DELAY", &config.SettleDelay},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive duration, got %q", d.key, v)
		}
		*d.dst = parsed
	}

	return config, nil
}

// Settler returns the settle strategy the configuration selects
func (c *NavigatorConfig) Settler() treenav.Settler {
	if c.SettleMode == SettleFixed {
		return treenav.FixedSettler{Delay: c.SettleDelay}
	}
	return treenav.PollSettler{Timeout: c.SettleTimeout, Interval: c.SettleInterval}
}
