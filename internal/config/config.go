package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"time"
)

// Catalog sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `json:"server"`
	Catalog  CatalogConfig  `json:"catalog"`
	Database DatabaseConfig `json:"database"`
	Cache    CacheConfig    `json:"cache"`
	Gateway  GatewayConfig  `json:"gateway"`
}

type ServerConfig struct {
	Port     int    `json:"port"`
	LogLevel string `json:"log_level"`
}

// CatalogConfig selects where agents are loaded from. With source "file"
// an empty path means the catalog compiled into the binary.
type CatalogConfig struct {
	Source       string `json:"source"`
	Path         string `json:"path"`
	SeedFromFile bool   `json:"seed_from_file"`
	CloudAgentID string `json:"cloud_agent_id"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `json:"postgres"`
	Redis    RedisConfig    `json:"redis"`
}

type PostgresConfig struct {
	DSN           string `json:"dsn"`
	MigrationsDir string `json:"migrations_dir"`
}

type RedisConfig struct {
	URL string `json:"url"`
}

type CacheConfig struct {
	TTLSeconds int `json:"ttl_seconds"`
}

// TTL returns the cache lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type GatewayConfig struct {
	Slack   SlackGatewayConfig   `json:"slack"`
	Discord DiscordGatewayConfig `json:"discord"`
}

type SlackGatewayConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token"`
	AppToken string `json:"app_token"`
}

type DiscordGatewayConfig struct {
	Enabled  bool   `json:"enabled"`
	BotToken string `json:"bot_token"`
}

// Usable reports whether the Slack adapter is enabled and has both tokens.
func (s SlackGatewayConfig) Usable() bool {
	return s.Enabled && s.BotToken != "" && s.AppToken != ""
}

// Usable reports whether the Discord adapter is enabled and has a token.
func (d DiscordGatewayConfig) Usable() bool {
	return d.Enabled && d.BotToken != ""
}

// envVarRe matches ${VAR} and ${VAR:default} patterns.
var envVarRe = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// Load reads a JSON config file, substitutes environment variable
// references and fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes raw JSON config the same way Load does.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(expandEnv(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// expandEnv replaces ${VAR} with the variable's value and ${VAR:default}
// with default when VAR is unset or empty.
func expandEnv(data []byte) []byte {
	return envVarRe.ReplaceAllFunc(data, func(ref []byte) []byte {
		m := envVarRe.FindSubmatch(ref)
		if v, ok := os.LookupEnv(string(m[1])); ok && v != "" {
			return []byte(v)
		}
		return m[2]
	})
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5001
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = SourceFile
	}
	if c.Database.Postgres.MigrationsDir == "" {
		c.Database.Postgres.MigrationsDir = "migrations"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
}

func (c *Config) validate() error {
	switch c.Catalog.Source {
	case SourceFile:
	case SourcePostgres:
		if c.Database.Postgres.DSN == "" {
			return fmt.Errorf("catalog source %q requires database.postgres.dsn", SourcePostgres)
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	return nil
}
