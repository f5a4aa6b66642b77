// Package config loads server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/evcraddock/visitor-pass/internal/db"
	"github.com/evcraddock/visitor-pass/internal/mongodb"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

// Config holds the server configuration.
type Config struct {
	Port          int
	Store         string
	DBPath        string
	MongoURL      string
	MongoDB       string
	SessionSecret string
	LogoPath      string
	DevMode       bool
}

// Load reads the given env files (default .env) into the process environment,
// then builds a Config from it. Missing env files are ignored and variables
// already set in the environment win over the files. The result is not
// validated, so callers can layer overrides before calling Validate.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from VP_* environment variables, applying defaults.
func FromEnv() (Config, error) {
	port, err := envInt("VP_PORT", 8080)
	if err != nil {
		return Config{}, err
	}

	dbPath := os.Getenv("VP_DB_PATH")
	if dbPath == "" {
		if dbPath, err = db.DefaultPath(); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		Port:          port,
		Store:         envOrDefault("VP_STORE", StoreSQLite),
		DBPath:        dbPath,
		MongoURL:      os.Getenv("VP_MONGO_URL"),
		MongoDB:       envOrDefault("VP_MONGO_DB", mongodb.DefaultDatabase),
		SessionSecret: os.Getenv("VP_SESSION_SECRET"),
		LogoPath:      envOrDefault("VP_LOGO_PATH", "logo.png"),
		DevMode:       os.Getenv("VP_DEV_MODE") == "true",
	}
	return cfg, nil
}

// Validate checks that the selected store has what it needs.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("VP_DB_PATH is required for the sqlite store")
		}
	case StoreMongo:
		if c.MongoURL == "" {
			return fmt.Errorf("VP_MONGO_URL is required for the mongo store")
		}
	default:
		return fmt.Errorf("unknown store %q (must be %s or %s)", c.Store, StoreSQLite, StoreMongo)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}
