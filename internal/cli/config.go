package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/evcraddock/visitor-pass/internal/config"
)

// CLIConfig holds CLI configuration persisted to disk.
type CLIConfig struct {
	Store    string `yaml:"store,omitempty"`
	DBPath   string `yaml:"db_path,omitempty"`
	MongoURL string `yaml:"mongo_url,omitempty"`
	MongoDB  string `yaml:"mongo_db,omitempty"`
	LogoPath string `yaml:"logo_path,omitempty"`

	// ServerURL and Session are written by "vp login".
	ServerURL string `yaml:"server_url,omitempty"`
	Session   string `yaml:"session,omitempty" json:"-"`
}

// configKeys maps config file keys to the environment variable that overrides them.
var configKeys = map[string]string{
	"store":      "VP_STORE",
	"db_path":    "VP_DB_PATH",
	"mongo_url":  "VP_MONGO_URL",
	"mongo_db":   "VP_MONGO_DB",
	"logo_path":  "VP_LOGO_PATH",
	"server_url": "VP_SERVER_URL",
}

// field returns a pointer to the field for key.
func (c *CLIConfig) field(key string) (*string, error) {
	switch key {
	case "store":
		return &c.Store, nil
	case "db_path":
		return &c.DBPath, nil
	case "mongo_url":
		return &c.MongoURL, nil
	case "mongo_db":
		return &c.MongoDB, nil
	case "logo_path":
		return &c.LogoPath, nil
	case "server_url":
		return &c.ServerURL, nil
	default:
		return nil, fmt.Errorf("unknown config key %q", key)
	}
}

// configPath returns the path to the CLI config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "vp", "config.yaml"), nil
}

// loadConfig reads the CLI config from disk.
// Returns a zero-value config if the file doesn't exist.
func loadConfig() (CLIConfig, error) {
	path, err := configPath()
	if err != nil {
		return CLIConfig{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return CLIConfig{}, nil
	}
	if err != nil {
		return CLIConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// saveConfig writes the CLI config to disk.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// applyFileConfig copies file values into cfg for every setting whose
// environment variable is unset.
func applyFileConfig(cfg *config.Config, file CLIConfig) {
	set := func(key, value string, dst *string) {
		if value != "" && os.Getenv(configKeys[key]) == "" {
			*dst = value
		}
	}
	set("store", file.Store, &cfg.Store)
	set("db_path", file.DBPath, &cfg.DBPath)
	set("mongo_url", file.MongoURL, &cfg.MongoURL)
	set("mongo_db", file.MongoDB, &cfg.MongoDB)
	set("logo_path", file.LogoPath, &cfg.LogoPath)
}

// getServerURL returns the server to talk to from the --server flag, the
// VP_SERVER_URL env var, or the config file. Empty means use the local store.
func getServerURL() string {
	if flagServer != "" {
		return flagServer
	}
	if v := os.Getenv("VP_SERVER_URL"); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err == nil {
		return cfg.ServerURL
	}
	return ""
}
