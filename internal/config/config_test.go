package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/themizzi/simplecom/internal/treenav"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadServerConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want    ServerConfig
		wantErr bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: ServerConfig{Port: "8080", TemplateDir: "templates", StaticDir: "static"},
		},
		{
			name: "overrides",
			env: map[string]string{
				"PORT":          "9090",
				"TEMPLATE_DIR":  "/srv/templates",
				"STATIC_DIR":    "/srv/static",
				"SECURE_COOKIE": "true",
			},
			want: ServerConfig{Port: "9090", TemplateDir: "/srv/templates", StaticDir: "/srv/static", SecureCookie: true},
		},
		{
			name:    "unparseable secure cookie",
			env:     map[string]string{"SECURE_COOKIE": "maybe"},
			wantErr: true,
		},
		{
			name: "secure cookie off",
			env:  map[string]string{"SECURE_COOKIE": "0"},
			want: ServerConfig{Port: "8080", TemplateDir: "templates", StaticDir: "static"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadServerConfig(env(tt.env))
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "SECURE_COOKIE") {
					t.Errorf("LoadServerConfig() error = %v, want SECURE_COOKIE error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadServerConfig() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LoadServerConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadPostgresConfig(t *testing.T) {
	complete := map[string]string{
		"POSTGRES_USER":     "user",
		"POSTGRES_PASSWORD": "secret",
		"POSTGRES_DB":       "simplecom",
		"POSTGRES_HOSTNAME": "db",
	}
	with := func(extra map[string]string) map[string]string {
		values := make(map[string]string, len(complete)+len(extra))
		for k, v := range complete {
			values[k] = v
		}
		for k, v := range extra {
			values[k] = v
		}
		return values
	}

	tests := []struct {
		name    string
		env     map[string]string
		want    string
		wantErr string
	}{
		{
			name: "defaults",
			env:  complete,
			want: "host=db port=5432 user=user password=secret dbname=simplecom sslmode=disable",
		},
		{
			name: "port and sslmode",
			env:  with(map[string]string{"POSTGRES_PORT": "6543", "POSTGRES_SSLMODE": "verify-full"}),
			want: "host=db port=6543 user=user password=secret dbname=simplecom sslmode=verify-full",
		},
		{name: "missing user", env: with(map[string]string{"POSTGRES_USER": ""}), wantErr: "POSTGRES_USER is required"},
		{name: "missing password", env: with(map[string]string{"POSTGRES_PASSWORD": ""}), wantErr: "POSTGRES_PASSWORD is required"},
		{name: "missing database", env: with(map[string]string{"POSTGRES_DB": ""}), wantErr: "POSTGRES_DB is required"},
		{name: "missing hostname", env: with(map[string]string{"POSTGRES_HOSTNAME": ""}), wantErr: "POSTGRES_HOSTNAME is required"},
		{name: "non numeric port", env: with(map[string]string{"POSTGRES_PORT": "pg"}), wantErr: "POSTGRES_PORT"},
		{name: "port out of range", env: with(map[string]string{"POSTGRES_PORT": "70000"}), wantErr: "POSTGRES_PORT"},
		{name: "unknown sslmode", env: with(map[string]string{"POSTGRES_SSLMODE": "prefer-ish"}), wantErr: "POSTGRES_SSLMODE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadPostgresConfig(env(tt.env))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("LoadPostgresConfig() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadPostgresConfig() error = %v", err)
			}
			if got := config.ConnectionString(); got != tt.want {
				t.Errorf("ConnectionString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadShopConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *ShopConfig
		wantErr bool
	}{
		{
			name: "demo defaults",
			env:  map[string]string{},
			want: &ShopConfig{BaseURL: "http://localhost:8080", Email: DemoEmail, Password: DemoPassword, Name: DemoName},
		},
		{
			name: "explicit account",
			env: map[string]string{
				"BASE_URL":       "https://shop.example.com/",
				"LOGIN_EMAIL":    "jane@example.com",
				"LOGIN_PASSWORD": "hunter22",
				"LOGIN_NAME":     "Jane",
			},
			want: &ShopConfig{BaseURL: "https://shop.example.com", Email: "jane@example.com", Password: "hunter22", Name: "Jane"},
		},
		{
			name:    "email without password",
			env:     map[string]string{"LOGIN_EMAIL": "jane@example.com"},
			wantErr: true,
		},
		{
			name:    "password without email",
			env:     map[string]string{"LOGIN_PASSWORD": "hunter22"},
			wantErr: true,
		},
		{
			name:    "relative base url",
			env:     map[string]string{"BASE_URL": "shop.example.com"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadShopConfig(env(tt.env))
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadShopConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if *got != *tt.want {
				t.Errorf("LoadShopConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestShopConfig_URL(t *testing.T) {
	config := &ShopConfig{BaseURL: "http://localhost:8080"}

	for path, want := range map[string]string{
		"":          "http://localhost:8080/",
		"/login":    "http://localhost:8080/login",
		"login":     "http://localhost:8080/login",
		"/api/x?y=": "http://localhost:8080/api/x?y=",
	} {
		if got := config.URL(path); got != want {
			t.Errorf("URL(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestLoadBrowserConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    BrowserConfig
		wantErr bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: BrowserConfig{Headless: true, Timeout: 30 * time.Second, VideoDir: "test-results/videos", StorageStateDir: ".auth"},
		},
		{
			name: "headed with timeout",
			env:  map[string]string{"HEADLESS": "false", "BROWSER_TIMEOUT_MS": "4000", "VIDEO_DIR": "videos", "STORAGE_STATE_DIR": "state"},
			want: BrowserConfig{Headless: false, Timeout: 4 * time.Second, VideoDir: "videos", StorageStateDir: "state"},
		},
		{
			name:    "invalid headless",
			env:     map[string]string{"HEADLESS": "sometimes"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"BROWSER_TIMEOUT_MS": "-1"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadBrowserConfig(env(tt.env))
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadBrowserConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if *got != tt.want {
				t.Errorf("LoadBrowserConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoadNavigatorConfig(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantSettler treenav.Settler
		wantErr     bool
	}{
		{
			name:        "poll defaults",
			env:         map[string]string{},
			wantSettler: treenav.PollSettler{Timeout: treenav.DefaultSettleTimeout, Interval: treenav.DefaultSettleInterval},
		},
		{
			name:        "tuned poll",
			env:         map[string]string{"NAV_SETTLE_TIMEOUT": "5s", "NAV_SETTLE_INTERVAL": "10ms"},
			wantSettler: treenav.PollSettler{Timeout: 5 * time.Second, Interval: 10 * time.Millisecond},
		},
		{
			name:        "fixed delay",
			env:         map[string]string{"NAV_SETTLE_MODE": "fixed", "NAV_SETTLE_DELAY": "500ms"},
			wantSettler: treenav.FixedSettler{Delay: 500 * time.Millisecond},
		},
		{
			name:    "unknown mode",
			env:     map[string]string{"NAV_SETTLE_MODE": "sleep"},
			wantErr: true,
		},
		{
			name:    "bad duration",
			env:     map[string]string{"NAV_SETTLE_TIMEOUT": "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadNavigatorConfig(env(tt.env))
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadNavigatorConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if settler := got.Settler(); settler != tt.wantSettler {
				t.Errorf("Settler() = %+v, want %+v", settler, tt.wantSettler)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	file := filepath.Join(t.TempDir(), "simplecom.yaml")
	content := "port: \"9191\"\nbase_url: http://shop.test\nlogin_email: file@example.com\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("LOGIN_EMAIL", "env@example.com")

	getenv, err := Lookup(file)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	tests := map[string]string{
		"PORT":        "9191",
		"BASE_URL":    "http://shop.test",
		"LOGIN_EMAIL": "env@example.com",
		"UNSET_KEY":   "",
	}
	for key, want := range tests {
		if got := getenv(key); got != want {
			t.Errorf("getenv(%q) = %q, want %q", key, got, want)
		}
	}

	server, err := LoadServerConfig(getenv)
	if err != nil {
		t.Fatalf("LoadServerConfig(Lookup) error = %v", err)
	}
	if server.Port != "9191" {
		t.Errorf("LoadServerConfig(Lookup).Port = %q, want 9191", server.Port)
	}
}

func TestLookup_MissingFile(t *testing.T) {
	if _, err := Lookup(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Lookup() expected error for missing config file")
	}
}

func TestLookup_EnvironmentOnly(t *testing.T) {
	t.Setenv("PORT", "7070")

	getenv, err := Lookup("")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got := getenv("PORT"); got != "7070" {
		t.Errorf("getenv(PORT) = %q, want 7070", got)
	}
}
