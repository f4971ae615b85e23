package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies WAGERBOOK_* environment variable overrides,
// and returns the final Config. The returned Config has NOT been validated;
// the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known WAGERBOOK_* environment variables and
// overwrites the corresponding Config fields when a variable is set. This
// lets operators inject secrets at deploy time without touching the TOML
// file.
func applyEnvOverrides(cfg *Config) {
	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "WAGERBOOK_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "WAGERBOOK_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "WAGERBOOK_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "WAGERBOOK_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "WAGERBOOK_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "WAGERBOOK_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "WAGERBOOK_POSTGRES_SSLMODE")
	setInt(&cfg.Postgres.PoolMaxConns, "WAGERBOOK_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "WAGERBOOK_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "WAGERBOOK_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "WAGERBOOK_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "WAGERBOOK_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "WAGERBOOK_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "WAGERBOOK_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "WAGERBOOK_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "WAGERBOOK_REDIS_TLS_ENABLED")
	setInt(&cfg.Redis.CacheTTLMinutes, "WAGERBOOK_REDIS_CACHE_TTL_MINUTES")

	// ── S3 ──
	setStr(&cfg.S3.Endpoint, "WAGERBOOK_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "WAGERBOOK_S3_REGION")
	setStr(&cfg.S3.Bucket, "WAGERBOOK_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "WAGERBOOK_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "WAGERBOOK_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "WAGERBOOK_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "WAGERBOOK_S3_FORCE_PATH_STYLE")

	// ── Server ──
	setInt(&cfg.Server.Port, "WAGERBOOK_SERVER_PORT")
	setStr(&cfg.Server.APIKey, "WAGERBOOK_SERVER_API_KEY")
	setInt(&cfg.Server.RateLimitPerMin, "WAGERBOOK_SERVER_RATE_LIMIT_PER_MIN")

	// ── Settlement ──
	setInt(&cfg.Settlement.SweepWorkers, "WAGERBOOK_SETTLEMENT_SWEEP_WORKERS")
	setBool(&cfg.Settlement.ArchiveOnSettle, "WAGERBOOK_SETTLEMENT_ARCHIVE_ON_SETTLE")

	// ── Top level ──
	setStr(&cfg.Mode, "WAGERBOOK_MODE")
	setStr(&cfg.LogLevel, "WAGERBOOK_LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
