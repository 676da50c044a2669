// Package config loads service settings from defaults, an optional YAML file and
// SHOP_* environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix = "SHOP_"

	DefaultPort          = 8080
	DefaultSessionTTL    = 2 * time.Hour
	DefaultSessionsLimit = 30
	devSecret            = "dev-secret-dev-secret-dev-secret"
)

var (
	ErrNoCatalogSource = errors.New("config: one of catalog.path, catalog.url or catalog.dsn is required")
	ErrDefaultSecret   = errors.New("config: auth.secret must be set when app.env is prod")
)

type Config struct {
	App      AppConfig      `koanf:"app"      validate:"required"`
	Server   ServerConfig   `koanf:"server"   validate:"required"`
	Log      LogConfig      `koanf:"log"      validate:"required"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Auth     AuthConfig     `koanf:"auth"     validate:"required"`
	Sessions SessionsConfig `koanf:"sessions"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Receipts ReceiptsConfig `koanf:"receipts"`
}

type AppConfig struct {
	Name string `koanf:"name" validate:"required"`
	Env  string `koanf:"env"  validate:"required,oneof=local dev prod test"`
}

type ServerConfig struct {
	Host     string        `koanf:"host"`
	Port     int           `koanf:"port"     validate:"required,min=1,max=65535"`
	Shutdown time.Duration `koanf:"shutdown" validate:"min=0"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level string `koanf:"level" validate:"required,oneof=debug info warn error"`
	File  string `koanf:"file"`
}

type CatalogConfig struct {
	// Path is a comma-separated list of YAML catalog files.
	Path string `koanf:"path"`
	URL  string `koanf:"url"  validate:"omitempty,url"`
	DSN  string `koanf:"dsn"`
}

func (c CatalogConfig) Paths() []string {
	var out []string
	for _, p := range strings.Split(c.Path, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type AuthConfig struct {
	Secret string        `koanf:"secret" validate:"required,min=32"`
	TTL    time.Duration `koanf:"ttl"    validate:"required,min=1m"`
}

type SessionsConfig struct {
	// Limit caps session creation per client IP per minute; 0 disables the limit.
	Limit int `koanf:"limit" validate:"min=0"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Token   string `koanf:"token" validate:"required_if=Enabled true"`
}

type ReceiptsConfig struct {
	DSN string `koanf:"dsn"`
}

func defaults() map[string]any {
	return map[string]any{
		"app.name": "ministore-cart",
		"app.env":  "local",

		"server.host":     "",
		"server.port":     DefaultPort,
		"server.shutdown": "10s",

		"log.level": "info",
		"log.file":  "",

		"catalog.path": "",
		"catalog.url":  "",
		"catalog.dsn":  "",

		"auth.secret": devSecret,
		"auth.ttl":    DefaultSessionTTL.String(),

		"sessions.limit": DefaultSessionsLimit,

		"metrics.enabled": false,
		"metrics.token":   "",

		"receipts.dsn": "",
	}
}

// Load reads configuration. path may be empty; a non-empty path must exist.
// overrides are applied last (used for CLI flags).
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %q: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("loading overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if len(cfg.Catalog.Paths()) == 0 && cfg.Catalog.URL == "" && cfg.Catalog.DSN == "" {
		return ErrNoCatalogSource
	}
	if cfg.App.Env == "prod" && cfg.Auth.Secret == devSecret {
		return ErrDefaultSecret
	}
	return nil
}
