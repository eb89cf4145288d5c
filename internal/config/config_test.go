package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ConfigSuite struct {
	suite.Suite
	logger *slog.Logger
	dir    string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.dir = s.T().TempDir()
}

func (s *ConfigSuite) write(content string) string {
	path := filepath.Join(s.dir, "config.yaml")
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (s *ConfigSuite) TestMissingFileUsesDefaultsAndCreatesFile() {
	path := filepath.Join(s.dir, "config.yaml")

	cfg := Load(path, s.logger)
	s.Equal(Default(), cfg)

	// The file is recreated so operators have something to edit
	_, err := os.Stat(path)
	s.NoError(err)

	// And it must round-trip to the same defaults
	s.Equal(Default(), Load(path, s.logger))
}

func (s *ConfigSuite) TestFullFile() {
	path := s.write(`
listen_addr: ":9090"
tick_interval_ms: 1000
coins_per_second: "5000000000000000"
extended_log: true
store_kind: postgres
postgres_dsn: "postgres://db:5432/coins"
idle_categories: [movement]
`)

	cfg := Load(path, s.logger)
	s.Equal(":9090", cfg.ListenAddr)
	s.Equal(1000, cfg.TickIntervalMs)
	s.Equal("5000000000000000", cfg.CoinsPerSecond.String())
	s.True(cfg.ExtendedLog)
	s.Equal(StorePostgres, cfg.StoreKind)
	s.Equal("postgres://db:5432/coins", cfg.PostgresDSN)
	s.Equal([]string{"movement"}, cfg.IdleCategories)
}

func (s *ConfigSuite) TestRateBeyondInt64() {
	path := s.write(`coins_per_second: "277777800000000277777800000000"`)

	cfg := Load(path, s.logger)
	s.Equal("277777800000000277777800000000", cfg.CoinsPerSecond.String())
}

func (s *ConfigSuite) TestBareIntegerRate() {
	// Small rates may appear unquoted; YAML parses them as int
	path := s.write(`coins_per_second: 1000`)

	cfg := Load(path, s.logger)
	s.Equal("1000", cfg.CoinsPerSecond.String())
}

func (s *ConfigSuite) TestEachBadKeyKeepsItsDefault() {
	path := s.write(`
listen_addr: 42
tick_interval_ms: "soon"
coins_per_second: "-5"
extended_log: "yes please"
store_kind: carrier-pigeon
idle_categories: movement
remote_from: gameserver
`)

	cfg := Load(path, s.logger)
	def := Default()

	// Every malformed key individually degraded to its default
	s.Equal(def.ListenAddr, cfg.ListenAddr)
	s.Equal(def.TickIntervalMs, cfg.TickIntervalMs)
	s.Equal(def.CoinsPerSecond.String(), cfg.CoinsPerSecond.String())
	s.Equal(def.ExtendedLog, cfg.ExtendedLog)
	s.Equal(def.StoreKind, cfg.StoreKind)
	s.Equal(def.IdleCategories, cfg.IdleCategories)

	// While the one good key applied
	s.Equal("gameserver", cfg.RemoteFrom)
}

func (s *ConfigSuite) TestNonPositiveTickIntervalRejected() {
	path := s.write(`tick_interval_ms: 0`)

	cfg := Load(path, s.logger)
	s.Equal(Default().TickIntervalMs, cfg.TickIntervalMs)
}

func (s *ConfigSuite) TestEnvironmentOverridesFile() {
	path := s.write(`
store_kind: memory
listen_addr: ":9090"
`)

	s.T().Setenv("COINSERVER_STORE", "redis")
	s.T().Setenv("COINSERVER_REDIS_URL", "redis://cache:6379")

	cfg := Load(path, s.logger)
	s.Equal(StoreRedis, cfg.StoreKind)
	s.Equal("redis://cache:6379", cfg.RedisURL)

	// Keys without an override keep the file's value
	s.Equal(":9090", cfg.ListenAddr)
}

func (s *ConfigSuite) TestBadEnvStoreKindKeepsDefault() {
	path := s.write(`store_kind: memory`)

	s.T().Setenv("COINSERVER_STORE", "carrier-pigeon")

	cfg := Load(path, s.logger)
	s.Equal(Default().StoreKind, cfg.StoreKind)
}

func (s *ConfigSuite) TestGarbageFileUsesDefaults() {
	path := s.write(`{{{ not yaml`)

	cfg := Load(path, s.logger)
	s.Equal(Default(), cfg)
}
