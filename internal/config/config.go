// Package config loads missionctl settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every environment-driven setting.
type Config struct {
	// DBPath is the SQLite file backing the store. Empty resolves to
	// ~/.missionctl/missionctl.db.
	DBPath string `env:"MISSIONCTL_DB"`
	AppID  string `env:"MISSIONCTL_APP_ID" envDefault:"default-app-id"`

	AuthToken  string `env:"MISSIONCTL_AUTH_TOKEN"`
	AuthSecret string `env:"MISSIONCTL_AUTH_SECRET"`

	UploadDelay    time.Duration `env:"MISSIONCTL_UPLOAD_DELAY"    envDefault:"1500ms"`
	DeliverableURL string        `env:"MISSIONCTL_DELIVERABLE_URL" envDefault:"https://fake-storage.com/evidence.pdf"`

	LogUseCases bool `env:"MISSIONCTL_LOG_USECASES"`
	Watch       bool `env:"MISSIONCTL_WATCH" envDefault:"true"`
}

// Load reads the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads settings from vars instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.UploadDelay < 0 {
		return Config{}, fmt.Errorf("MISSIONCTL_UPLOAD_DELAY must not be negative, got %s", cfg.UploadDelay)
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".missionctl", "missionctl.db")
	}
	return cfg, nil
}

// InMemory reports whether the store is a private in-memory database.
func (c Config) InMemory() bool {
	return c.DBPath == ":memory:"
}

// IdentityPath is where the anonymous identity is persisted, next to the
// database. It is empty for an in-memory store.
func (c Config) IdentityPath() string {
	if c.InMemory() {
		return ""
	}
	return filepath.Join(filepath.Dir(c.DBPath), "identity")
}
