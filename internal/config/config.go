// internal/config/config.go
//
// Runtime configuration: defaults, optional YAML file, environment
// overrides (in that order; env wins). godotenv is loaded by main before
// this package reads the environment.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/connorpodea/EQLE/internal/kv"
)

// Config is the full runtime configuration.
type Config struct {
	Addr      string      `yaml:"addr"`
	LogLevel  string      `yaml:"log_level"`
	JWTSecret string      `yaml:"jwt_secret"`
	Store     StoreConfig `yaml:"store"`
}

// StoreConfig selects and locates the persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // memory | sqlite | badger
	Path   string `yaml:"path"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Addr:      ":5175",
		LogLevel:  "info",
		JWTSecret: "dev_secret_change_me",
		Store:     StoreConfig{Driver: "badger", Path: "./data/eqle"},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// and environment overrides. An empty path means "eqle.yaml if present".
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("eqle.yaml"); err == nil {
			path = "eqle.yaml"
		}
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("EQLE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("EQLE_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("EQLE_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	return cfg, nil
}

// OpenStore opens the configured persistence backend.
func (c Config) OpenStore() (kv.Store, error) {
	switch c.Store.Driver {
	case "memory":
		return kv.NewMemoryStore(), nil
	case "sqlite":
		return kv.NewSQLiteStore(c.Store.Path)
	case "badger", "":
		return kv.NewBadgerStore(kv.DefaultBadgerConfig(c.Store.Path))
	}
	return nil, fmt.Errorf("unknown store driver %q", c.Store.Driver)
}
