package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Home    string        `mapstructure:"home"`
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig locates the scoring service.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig selects where the session token is persisted.
type SessionConfig struct {
	Backend string `mapstructure:"backend"` // "file" or "sqlite"
}

// LogConfig holds logger settings.
type LogConfig struct {
	File       string `mapstructure:"file"`
	Production bool   `mapstructure:"production"`
	Verbose    bool   `mapstructure:"verbose"`
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Load reads configuration from .env, an optional TOML file and the
// environment. Env var overrides use prefix LANDVAL_.
func Load() (Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()

	home := defaultHome()
	v.SetDefault("home", home)
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", "15s")
	v.SetDefault("session.backend", BackendFile)
	v.SetDefault("log.file", "")
	v.SetDefault("log.production", false)
	v.SetDefault("log.verbose", false)

	v.SetConfigType("toml")
	if cfgPath := os.Getenv("LANDVAL_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "landval"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("LANDVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c.withDerived(), nil
}

// Validate rejects settings no component can work with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("api.base_url is required")
	}
	switch c.Session.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("session.backend %q: want %q or %q", c.Session.Backend, BackendFile, BackendSQLite)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	return nil
}

// WithHome returns a copy rooted at home, re-deriving paths that default to it.
func (c Config) WithHome(home string) Config {
	if home == "" || home == c.Home {
		return c
	}
	if c.Log.File == filepath.Join(c.Home, "landval.log") {
		c.Log.File = ""
	}
	c.Home = home
	return c.withDerived()
}

func (c Config) withDerived() Config {
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.Log.File == "" && c.Home != "" {
		c.Log.File = filepath.Join(c.Home, "landval.log")
	}
	return c
}

func defaultHome() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ".landval"
	}
	return filepath.Join(dir, ".landval")
}
