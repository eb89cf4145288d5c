// Package config loads server settings from a YAML file. Loading is
// deliberately forgiving: every key is validated independently, and a
// missing or malformed key logs a warning and keeps its default, so a
// single bad entry can never stop the server from starting.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/playtoearn/coinserver/internal/coin"
	"github.com/playtoearn/coinserver/internal/idle"
)

// Config holds all server settings
type Config struct {
	// ListenAddr is the ingest API bind address
	ListenAddr string

	// TickIntervalMs is the accrual tick interval in milliseconds
	TickIntervalMs int

	// CoinsPerSecond is the reward rate in scaled units per second
	CoinsPerSecond coin.Amount

	// ExtendedLog enables debug-level logging
	ExtendedLog bool

	// StoreKind selects the balance store backend:
	// remote, postgres, redis or memory
	StoreKind string

	// Remote wallet-service settings
	RemoteBaseURL string
	RemoteFrom    string

	// PostgresDSN is the wallets-table connection string
	PostgresDSN string

	// RedisURL is the redis backend connection URL
	RedisURL string

	// IdleCategories are the activity categories that suspend accrual
	IdleCategories []string
}

// Store kind constants
const (
	StoreRemote   = "remote"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Default returns the reference defaults
func Default() Config {
	return Config{
		ListenAddr:     ":8080",
		TickIntervalMs: 5000,
		CoinsPerSecond: coin.MustParse(coin.DefaultRate),
		ExtendedLog:    false,
		StoreKind:      StoreRemote,
		RemoteBaseURL:  "http://127.0.0.1:8000",
		RemoteFrom:     "vintagestory",
		PostgresDSN:    "postgres://localhost:5432/playtoearn?sslmode=disable",
		RedisURL:       "redis://localhost:6379",
		IdleCategories: idle.DefaultCategories(),
	}
}

// Load reads the config file at path, then applies environment
// overrides. A missing file is recreated with defaults; an unreadable
// or unparsable file falls back to defaults. Load never fails.
func Load(path string, logger *slog.Logger) Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		logger.Warn("config file does not exist, creating it with defaults",
			slog.String("path", path),
		)
		writeDefault(path, logger)
	case err != nil:
		logger.Warn("cannot read config file, using defaults",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	default:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			logger.Warn("cannot parse config file, using defaults",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		} else {
			cfg.apply(raw, logger)
		}
	}

	cfg.applyEnv(logger)
	cfg.validate(logger)
	return cfg
}

// apply copies recognized keys out of the raw document, one at a time
func (c *Config) apply(raw map[string]any, logger *slog.Logger) {
	stringKey(raw, "listen_addr", &c.ListenAddr, logger)
	intKey(raw, "tick_interval_ms", &c.TickIntervalMs, logger)
	boolKey(raw, "extended_log", &c.ExtendedLog, logger)
	stringKey(raw, "store_kind", &c.StoreKind, logger)
	stringKey(raw, "remote_base_url", &c.RemoteBaseURL, logger)
	stringKey(raw, "remote_from", &c.RemoteFrom, logger)
	stringKey(raw, "postgres_dsn", &c.PostgresDSN, logger)
	stringKey(raw, "redis_url", &c.RedisURL, logger)

	if v, ok := raw["coins_per_second"]; ok {
		rate, err := coin.Parse(fmt.Sprintf("%v", v))
		if err != nil {
			logger.Warn("config key coins_per_second is not a non-negative integer, keeping default",
				slog.Any("value", v),
			)
		} else {
			c.CoinsPerSecond = rate
		}
	}

	if v, ok := raw["idle_categories"]; ok {
		if categories, ok := stringList(v); ok {
			c.IdleCategories = categories
		} else {
			logger.Warn("config key idle_categories is not a list of strings, keeping default",
				slog.Any("value", v),
			)
		}
	}

}

// applyEnv overlays environment variables on top of the file settings
func (c *Config) applyEnv(logger *slog.Logger) {
	envString("COINSERVER_LISTEN", &c.ListenAddr)
	envString("COINSERVER_STORE", &c.StoreKind)
	envString("COINSERVER_REMOTE_URL", &c.RemoteBaseURL)
	envString("COINSERVER_REMOTE_FROM", &c.RemoteFrom)
	envString("COINSERVER_POSTGRES_DSN", &c.PostgresDSN)
	envString("COINSERVER_REDIS_URL", &c.RedisURL)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// validate repairs settings no backend could run with
func (c *Config) validate(logger *slog.Logger) {
	if c.TickIntervalMs <= 0 {
		logger.Warn("config key tick_interval_ms must be positive, keeping default")
		c.TickIntervalMs = Default().TickIntervalMs
	}

	switch c.StoreKind {
	case StoreRemote, StorePostgres, StoreRedis, StoreMemory:
	default:
		logger.Warn("config key store_kind is not a known backend, keeping default",
			slog.String("value", c.StoreKind),
		)
		c.StoreKind = Default().StoreKind
	}
}

func stringList(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func stringKey(raw map[string]any, key string, dst *string, logger *slog.Logger) {
	v, ok := raw[key]
	if !ok {
		return
	}
	s, ok := v.(string)
	if !ok {
		logger.Warn("config key is not a string, keeping default",
			slog.String("key", key),
			slog.Any("value", v),
		)
		return
	}
	*dst = s
}

func intKey(raw map[string]any, key string, dst *int, logger *slog.Logger) {
	v, ok := raw[key]
	if !ok {
		return
	}
	n, ok := v.(int)
	if !ok {
		logger.Warn("config key is not an integer, keeping default",
			slog.String("key", key),
			slog.Any("value", v),
		)
		return
	}
	*dst = n
}

func boolKey(raw map[string]any, key string, dst *bool, logger *slog.Logger) {
	v, ok := raw[key]
	if !ok {
		return
	}
	b, ok := v.(bool)
	if !ok {
		logger.Warn("config key is not a boolean, keeping default",
			slog.String("key", key),
			slog.Any("value", v),
		)
		return
	}
	*dst = b
}

// writeDefault persists the default config so operators have a file to
// edit. Best effort: failure to write is logged and ignored.
func writeDefault(path string, logger *slog.Logger) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Warn("cannot create config directory",
				slog.String("path", dir),
				slog.String("error", err.Error()),
			)
			return
		}
	}

	def := Default()
	doc := map[string]any{
		"listen_addr":      def.ListenAddr,
		"tick_interval_ms": def.TickIntervalMs,
		"coins_per_second": def.CoinsPerSecond.String(),
		"extended_log":     def.ExtendedLog,
		"store_kind":       def.StoreKind,
		"remote_base_url":  def.RemoteBaseURL,
		"remote_from":      def.RemoteFrom,
		"postgres_dsn":     def.PostgresDSN,
		"redis_url":        def.RedisURL,
		"idle_categories":  def.IdleCategories,
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		logger.Warn("cannot marshal default config", slog.String("error", err.Error()))
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Warn("cannot write default config file",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}
}
