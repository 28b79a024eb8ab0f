// Package config loads tixshell settings from YAML and environment variables.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/habedi/tixshell/pkg/validation"
	"github.com/ilyakaznacheev/cleanenv"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "tixshell.yaml"

// Config is the root configuration.
// Sources, in order of precedence:
//  1. the path passed to Load (the --config flag);
//  2. the CONFIG_PATH environment variable;
//  3. ./tixshell.yaml;
//  4. environment variables only.
//
// Environment variables override values read from a file.
type Config struct {
	API   APIConfig   `yaml:"api"`
	Store StoreConfig `yaml:"store"`
	Web   WebConfig   `yaml:"web"`
}

// APIConfig describes the backend the client talks to.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url"        env:"API_BASE_URL"        env-default:"http://localhost:8081"`
	Timeout        time.Duration `yaml:"timeout"         env:"API_TIMEOUT"         env-default:"10s"`
	RefreshTimeout time.Duration `yaml:"refresh_timeout" env:"API_REFRESH_TIMEOUT" env-default:"10s"`
	RefreshPath    string        `yaml:"refresh_path"    env:"API_REFRESH_PATH"    env-default:"/api/auth/refresh"`
}

// StoreConfig selects where credentials are kept.
type StoreConfig struct {
	Backend string `yaml:"backend" env:"STORE_BACKEND" env-default:"sqlite"`
	// Path of the SQLite file. Empty means $HOME/.tixshell/credentials.db.
	Path          string `yaml:"path"           env:"STORE_PATH"`
	Scope         string `yaml:"scope"          env:"STORE_SCOPE"          env-default:"default"`
	RedisAddr     string `yaml:"redis_addr"     env:"STORE_REDIS_ADDR"     env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"STORE_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"       env:"STORE_REDIS_DB"       env-default:"0"`
}

// WebConfig holds the listen address of the web shell.
type WebConfig struct {
	Host string `yaml:"host" env:"WEB_HOST" env-default:"127.0.0.1"`
	Port int    `yaml:"port" env:"WEB_PORT" env-default:"3000"`
}

// Addr returns host:port.
func (w WebConfig) Addr() string {
	return net.JoinHostPort(w.Host, strconv.Itoa(w.Port))
}

// Load reads the configuration following the precedence documented on Config.
func Load(path string) (*Config, error) {
	var cfg Config

	readFile := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", p, err)
		}
		return &cfg, nil
	}

	var (
		c   *Config
		err error
	)
	switch {
	case path != "":
		c, err = readFile(path)
	case os.Getenv("CONFIG_PATH") != "":
		c, err = readFile(os.Getenv("CONFIG_PATH"))
	default:
		if _, statErr := os.Stat(DefaultFile); statErr == nil {
			c, err = readFile(DefaultFile)
		} else {
			if err = cleanenv.ReadEnv(&cfg); err != nil {
				err = fmt.Errorf("failed to read config from environment: %w", err)
			}
			c = &cfg
		}
	}
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if err := validation.ValidateBaseURL(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be > 0")
	}
	if c.API.RefreshTimeout <= 0 {
		return fmt.Errorf("api.refresh_timeout must be > 0")
	}
	if err := validation.ValidateRelativePath(c.API.RefreshPath); err != nil {
		return fmt.Errorf("api.refresh_path: %w", err)
	}
	if err := validation.ValidateStoreBackend(c.Store.Backend); err != nil {
		return fmt.Errorf("store.backend: %w", err)
	}
	if err := validation.ValidateNonEmptyString("store.scope", c.Store.Scope); err != nil {
		return err
	}
	if c.Store.Backend == "redis" {
		if err := validation.ValidateNonEmptyString("store.redis_addr", c.Store.RedisAddr); err != nil {
			return err
		}
		if c.Store.RedisDB < 0 {
			return fmt.Errorf("store.redis_db must be >= 0")
		}
	}
	if err := validation.ValidatePort(c.Web.Port); err != nil {
		return fmt.Errorf("web.port: %w", err)
	}
	return nil
}
