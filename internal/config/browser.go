package config

import (
	"fmt"
	"strconv"
	"time"
)

// BrowserConfig holds the playwright browser settings of the e2e suite
// and the CLI commands that drive a browser
type BrowserConfig struct {
	Headless        bool
	Timeout         time.Duration
	VideoDir        string
	StorageStateDir string
}

// LoadBrowserConfig loads browser configuration from environment variables
func LoadBrowserConfig(getenv func(string) string) (*BrowserConfig, error) {
	config := &BrowserConfig{
		Headless:        true,
		Timeout:         30 * time.Second,
		VideoDir:        getenv("VIDEO_DIR"),
		StorageStateDir: getenv("STORAGE_STATE_DIR"),
	}

	if v := getenv("HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("HEADLESS must be a boolean: %w", err)
		}
		config.Headless = headless
	}
	if v := getenv("BROWSER_TIMEOUT_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("BROWSER_TIMEOUT_MS must be a positive integer, got %q", v)
		}
		config.Timeout = time.Duration(ms) * time.Millisecond
	}
	if config.VideoDir == "" {
		config.VideoDir = "test-results/videos"
	}
	if config.StorageStateDir == "" {
		config.StorageStateDir = ".auth"
	}

	return config, nil
}

// TimeoutMillis returns Timeout in the float milliseconds playwright expects
func (c *BrowserConfig) TimeoutMillis() float64 {
	return float64(c.Timeout.Milliseconds())
}
