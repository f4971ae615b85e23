// Package config defines the top-level configuration for wagerbook and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by WAGERBOOK_* environment
// variables.
type Config struct {
	Postgres   PostgresConfig   `toml:"postgres"`
	Redis      RedisConfig      `toml:"redis"`
	S3         S3Config         `toml:"s3"`
	Server     ServerConfig     `toml:"server"`
	Settlement SettlementConfig `toml:"settlement"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters. Redis is optional: when
// Addr is empty the breakdown cache is disabled and every read recomputes.
type RedisConfig struct {
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	PoolSize        int    `toml:"pool_size"`
	MaxRetries      int    `toml:"max_retries"`
	TLSEnabled      bool   `toml:"tls_enabled"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

// S3Config holds S3-compatible object storage parameters for the settled
// wager archive. Archival is disabled when Bucket is empty.
type S3Config struct {
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
}

// ServerConfig holds HTTP API parameters.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	APIKey      string   `toml:"api_key"`

	// RateLimitPerMin caps requests per client IP per minute. Zero disables
	// limiting; a positive value requires Redis to be configured.
	RateLimitPerMin int `toml:"rate_limit_per_min"`
}

// SettlementConfig holds parameters for the sweep mode that batch-finalizes
// wagers whose legs have all settled.
type SettlementConfig struct {
	SweepWorkers    int  `toml:"sweep_workers"`
	ArchiveOnSettle bool `toml:"archive_on_settle"`
}

// Defaults returns a Config populated with sensible defaults for local
// development. Load layers the TOML file and environment overrides on top.
func Defaults() Config {
	return Config{
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "wagerbook",
			User:          "wagerbook",
			SSLMode:       "disable",
			PoolMaxConns:  8,
			PoolMinConns:  1,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			PoolSize:        8,
			MaxRetries:      3,
			CacheTTLMinutes: 10,
		},
		Server: ServerConfig{
			Port: 8080,
		},
		Settlement: SettlementConfig{
			SweepWorkers:    4,
			ArchiveOnSettle: true,
		},
		Mode:     "serve",
		LogLevel: "info",
	}
}

// Validate checks the configuration for internal consistency and returns a
// descriptive error for the first problem found.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Mode) {
	case "serve", "sweep":
	default:
		return fmt.Errorf("config: unsupported mode %q (want serve or sweep)", c.Mode)
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unsupported log_level %q", c.LogLevel)
	}

	if c.Postgres.DSN == "" {
		if c.Postgres.Host == "" || c.Postgres.Database == "" || c.Postgres.User == "" {
			return fmt.Errorf("config: postgres requires either dsn or host/database/user")
		}
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server port %d out of range", c.Server.Port)
	}

	if c.Server.RateLimitPerMin < 0 {
		return fmt.Errorf("config: server rate_limit_per_min must not be negative")
	}
	if c.Server.RateLimitPerMin > 0 && c.Redis.Addr == "" {
		return fmt.Errorf("config: rate limiting requires redis.addr")
	}

	if c.Settlement.SweepWorkers < 1 {
		return fmt.Errorf("config: settlement sweep_workers must be at least 1")
	}

	if c.S3.Bucket != "" && c.S3.Region == "" {
		return fmt.Errorf("config: s3 bucket set but region missing")
	}

	return nil
}
