package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func load(t *testing.T, configFile, envFile string) (*Config, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	return Load(viper.New(), configFile, envFile)
}

func TestDefaults(t *testing.T) {
	cfg, err := load(t, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.TopN != 20 || cfg.API.Timeout != 15*time.Second || cfg.Storage.Backend != BackendFile {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Poll.Interval != 30*time.Second {
		t.Fatalf("poll interval = %s", cfg.Poll.Interval)
	}
	if cfg.Crossref.TTL != time.Minute {
		t.Fatalf("crossref ttl = %s", cfg.Crossref.TTL)
	}
}

func TestConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "mwl.yaml")
	body := "api:\n  top_n: 50\n  timeout: 5s\nstorage:\n  backend: sqlite\n"
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MWL_API_KEY", "demo-key")
	t.Setenv("MWL_CROSSREF_TTL", "5m")
	t.Setenv("MWL_STORAGE_BACKEND", "memory")

	cfg, err := load(t, file, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.TopN != 50 || cfg.API.Timeout != 5*time.Second {
		t.Fatalf("file values not applied: %+v", cfg.API)
	}
	if cfg.API.Key != "demo-key" || cfg.Storage.Backend != BackendMemory {
		t.Fatalf("env should override file: %+v", cfg)
	}
	if cfg.Crossref.TTL != 5*time.Minute {
		t.Fatalf("crossref ttl = %s", cfg.Crossref.TTL)
	}
}

func TestEnvFile(t *testing.T) {
	env := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(env, []byte("MWL_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MWL_LOG_LEVEL", "")
	os.Unsetenv("MWL_LOG_LEVEL")

	cfg, err := load(t, "", env)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level = %q", cfg.Log.Level)
	}
}

func TestMissingEnvFileIsFine(t *testing.T) {
	if _, err := load(t, "", filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatal(err)
	}
}

func TestMissingExplicitConfig(t *testing.T) {
	if _, err := load(t, filepath.Join(t.TempDir(), "nope.yaml"), ""); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("MWL_STORAGE_BACKEND", "postgres")
	_, err := load(t, "", "")
	if err == nil || !strings.Contains(err.Error(), "storage.dsn") {
		t.Fatalf("expected dsn error, got %v", err)
	}

	t.Setenv("MWL_STORAGE_BACKEND", "floppy")
	if _, err := load(t, "", ""); err == nil {
		t.Fatal("expected unknown backend error")
	}
}
