// Package config loads settings from mwl.yaml, .env and MWL_* variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "MWL"

const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	API struct {
		BaseURL string        `mapstructure:"base_url"`
		Key     string        `mapstructure:"key"`
		Timeout time.Duration `mapstructure:"timeout"`
		TopN    int           `mapstructure:"top_n"`
	} `mapstructure:"api"`
	Storage struct {
		Backend       string `mapstructure:"backend"`
		Dir           string `mapstructure:"dir"`
		DSN           string `mapstructure:"dsn"`
		RedisAddr     string `mapstructure:"redis_addr"`
		RedisPassword string `mapstructure:"redis_password"`
		RedisDB       int    `mapstructure:"redis_db"`
	} `mapstructure:"storage"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Poll struct {
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"poll"`
	Share struct {
		Origin string `mapstructure:"origin"`
	} `mapstructure:"share"`
	Crossref struct {
		TTL time.Duration `mapstructure:"ttl"`
	} `mapstructure:"crossref"`
}

// DataDir is the default home for the file and sqlite backends.
func DataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "mwl")
	}
	return ".mwl"
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("api.key", "")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("api.top_n", 20)
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.dir", DataDir())
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.redis_addr", "localhost:6379")
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.redis_db", 0)
	v.SetDefault("log.level", "warn")
	v.SetDefault("poll.interval", 30*time.Second)
	v.SetDefault("share.origin", "https://marketwatchlite.app/")
	v.SetDefault("crossref.ttl", time.Minute)
}

// Load reads envFile (when present), then configFile or mwl.yaml from the
// working directory or DataDir, then MWL_* variables. A missing mwl.yaml is
// fine; a missing explicit configFile is not.
func Load(v *viper.Viper, configFile, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("mwl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DataDir())
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendMemory, BackendSQLite, BackendRedis:
	case BackendPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("config: storage.dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config: unknown storage.backend %q", c.Storage.Backend)
	}
	if c.API.TopN <= 0 || c.API.TopN > 250 {
		return fmt.Errorf("config: api.top_n must be between 1 and 250, got %d", c.API.TopN)
	}
	if c.Poll.Interval < time.Second {
		return fmt.Errorf("config: poll.interval must be at least 1s, got %s", c.Poll.Interval)
	}
	if c.Crossref.TTL < 0 {
		return fmt.Errorf("config: crossref.ttl must not be negative, got %s", c.Crossref.TTL)
	}
	return nil
}
