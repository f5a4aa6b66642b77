package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evcraddock/visitor-pass/internal/config"
)

func TestConfigSaveAndLoad(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	cfg := CLIConfig{
		Store:    "mongo",
		MongoURL: "mongodb://db:27017",
		MongoDB:  "visitors",
	}

	if err := saveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	path := filepath.Join(tmp, ".config", "vp", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not found: %v", err)
	}

	loaded, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded != cfg {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
}

func TestConfigLoadMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if cfg != (CLIConfig{}) {
		t.Error("expected zero-value config for missing file")
	}
}

func TestConfigLoadInvalid(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	dir := filepath.Join(tmp, ".config", "vp")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := loadConfig(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyFileConfigPrecedence(t *testing.T) {
	testEnv(t)
	t.Setenv("VP_MONGO_DB", "from-env")

	cfg := config.Config{Store: config.StoreSQLite, MongoDB: "from-env", LogoPath: "logo.png"}
	applyFileConfig(&cfg, CLIConfig{
		Store:    "mongo",
		MongoDB:  "from-file",
		LogoPath: "/srv/logo.png",
	})

	if cfg.Store != "mongo" {
		t.Errorf("Store = %q, want file value", cfg.Store)
	}
	if cfg.MongoDB != "from-env" {
		t.Errorf("MongoDB = %q, env should win", cfg.MongoDB)
	}
	if cfg.LogoPath != "/srv/logo.png" {
		t.Errorf("LogoPath = %q, want file value", cfg.LogoPath)
	}
}

func TestConfigCommands(t *testing.T) {
	path := testEnv(t)

	out := mustRun(t, path, "config", "set", "logo_path", "/srv/logo.png")
	if !strings.Contains(out, "Set logo_path.") {
		t.Errorf("output = %q", out)
	}

	out = mustRun(t, path, "config", "show")
	if !strings.Contains(out, "/srv/logo.png") {
		t.Errorf("show output = %q", out)
	}

	if _, err := executeCommand("config", "set", "colour", "blue"); err == nil {
		t.Error("expected unknown key error")
	}
}

func TestFlagsOverrideFileConfig(t *testing.T) {
	path := testEnv(t)

	mustRun(t, path, "config", "set", "store", "mongo")

	// --store wins over the file, so no mongo connection is attempted.
	mustRun(t, path, "--store", "sqlite", "list")
}
