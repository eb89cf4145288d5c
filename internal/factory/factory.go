// Package factory wires the application components together.
package factory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/playtoearn/coinserver/internal/accrual"
	"github.com/playtoearn/coinserver/internal/commands"
	"github.com/playtoearn/coinserver/internal/config"
	"github.com/playtoearn/coinserver/internal/dependencies/clock"
	"github.com/playtoearn/coinserver/internal/idle"
	"github.com/playtoearn/coinserver/internal/roster"
	"github.com/playtoearn/coinserver/internal/store"
	"github.com/playtoearn/coinserver/internal/store/memory"
	"github.com/playtoearn/coinserver/internal/store/postgres"
	redisstore "github.com/playtoearn/coinserver/internal/store/redis"
	"github.com/playtoearn/coinserver/internal/store/remote"
)

// App contains all wired application components
type App struct {
	Config    config.Config
	Balances  store.BalanceStore
	Clock     clock.Clock
	Roster    *roster.Tracker
	Idles     *idle.Tracker
	Mailbox   *commands.Mailbox
	Commands  *commands.Handler
	Scheduler *accrual.Scheduler
}

// New creates an application from config with all dependencies wired
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	balances, err := newStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	clk := clock.New()
	return NewWithDependencies(cfg, balances, clk, logger), nil
}

// NewWithDependencies creates an App with the given store and clock
// (useful for testing)
func NewWithDependencies(cfg config.Config, balances store.BalanceStore, clk clock.Clock, logger *slog.Logger) *App {
	rst := roster.New(balances, roster.DefaultConfig(), logger)
	idles := idle.NewTracker(cfg.IdleCategories)
	mailbox := commands.NewMailbox()
	cmds := commands.New(balances, idles, mailbox, commands.DefaultConfig(), logger)

	scheduler := accrual.New(rst, idles, balances, clk, accrual.Config{
		Interval:        time.Duration(cfg.TickIntervalMs) * time.Millisecond,
		Rate:            cfg.CoinsPerSecond,
		DispatchTimeout: 10 * time.Second,
	}, logger)

	return &App{
		Config:    cfg,
		Balances:  balances,
		Clock:     clk,
		Roster:    rst,
		Idles:     idles,
		Mailbox:   mailbox,
		Commands:  cmds,
		Scheduler: scheduler,
	}
}

// newStore builds the balance store backend selected by config
func newStore(cfg config.Config, logger *slog.Logger) (store.BalanceStore, error) {
	switch cfg.StoreKind {
	case config.StoreMemory:
		logger.Warn("using in-memory balance store; balances will not survive a restart")
		return memory.New(), nil

	case config.StoreRemote:
		remoteCfg := remote.DefaultConfig()
		remoteCfg.BaseURL = cfg.RemoteBaseURL
		remoteCfg.From = cfg.RemoteFrom
		return remote.New(remoteCfg), nil

	case config.StorePostgres:
		pgCfg := postgres.DefaultConfig()
		pgCfg.DSN = cfg.PostgresDSN
		pg, err := postgres.New(pgCfg)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := pg.EnsureSchema(ctx); err != nil {
			// Not fatal: the store degrades to per-call failures the
			// scheduler already tolerates
			logger.Warn("could not ensure wallets schema", slog.String("error", err.Error()))
		}
		return pg, nil

	case config.StoreRedis:
		redisCfg := redisstore.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		return redisstore.New(redisCfg)

	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.StoreKind)
	}
}
