// Package accrual implements the tick-based reward loop: every tick,
// elapsed wall-clock time times the configured rate is credited to
// each connected, non-idle player.
package accrual

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/playtoearn/coinserver/internal/coin"
	"github.com/playtoearn/coinserver/internal/dependencies/clock"
	"github.com/playtoearn/coinserver/internal/idle"
	"github.com/playtoearn/coinserver/internal/model"
	"github.com/playtoearn/coinserver/internal/roster"
	"github.com/playtoearn/coinserver/internal/store"
)

// Config holds scheduler settings
type Config struct {
	// Interval is the time between ticks
	Interval time.Duration

	// Rate is the reward in scaled units per second
	Rate coin.Amount

	// DispatchTimeout bounds each per-player store call
	DispatchTimeout time.Duration
}

// DefaultConfig returns the reference defaults: a 5 second tick and
// roughly one coin per hour
func DefaultConfig() Config {
	return Config{
		Interval:        5000 * time.Millisecond,
		Rate:            coin.MustParse(coin.DefaultRate),
		DispatchTimeout: 10 * time.Second,
	}
}

// Scheduler owns the last-tick timestamp and drives reward dispatch.
// Tick is only ever invoked from one goroutine (the Run loop, or the
// test directly), so lastTick has a single writer.
type Scheduler struct {
	roster   *roster.Tracker
	idles    idle.Signal
	balances store.BalanceStore
	clk      clock.Clock
	cfg      Config
	logger   *slog.Logger

	// lastTick is the unix second accrual was last computed at
	lastTick int64

	// inFlight tracks dispatch goroutines so Run can drain them on
	// shutdown and tests can wait for completion
	inFlight sync.WaitGroup
}

// New creates a scheduler. The elapsed-time base starts at "now": time
// before process start never produces a reward burst.
func New(
	rst *roster.Tracker,
	idles idle.Signal,
	balances store.BalanceStore,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		roster:   rst,
		idles:    idles,
		balances: balances,
		clk:      clk,
		cfg:      cfg,
		logger:   logger,
		lastTick: clk.Now().Unix(),
	}
}

// Run drives ticks at the configured interval until ctx is done, then
// waits for in-flight dispatches to finish.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.logger.Info("accrual scheduler started",
		slog.Duration("interval", s.cfg.Interval),
		slog.String("rate", s.cfg.Rate.String()),
	)

	for {
		select {
		case <-ctx.Done():
			s.inFlight.Wait()
			s.logger.Info("accrual scheduler stopped")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick performs one accrual pass. It returns promptly: store calls run
// on their own goroutines and never delay the next tick.
func (s *Scheduler) Tick() {
	now := s.clk.Now().Unix()

	members := s.roster.Members()
	if len(members) == 0 {
		// Reset the base so an empty stretch grants nothing when
		// players return
		s.lastTick = now
		s.logger.Debug("no players online")
		return
	}

	elapsed := now - s.lastTick
	if elapsed < 0 {
		// Clock skew; never accrue a negative interval
		elapsed = 0
	}

	// Advance the base before any dispatch: a slow or failed store
	// call must not double-count this interval on the next tick
	s.lastTick = now

	increment := s.cfg.Rate.MulSeconds(elapsed)

	for _, player := range members {
		if s.idles.IsIdle(player.ID) {
			s.logger.Debug("skipping idle player",
				slog.String("player_id", string(player.ID)),
				slog.String("name", player.DisplayName),
			)
			continue
		}

		s.inFlight.Add(1)
		go s.dispatch(player, increment)
	}
}

// dispatch credits one player, independently of every other player in
// the same tick. Failures are logged and dropped; the interval they
// covered is not re-sent.
func (s *Scheduler) dispatch(player model.Player, increment coin.Amount) {
	defer s.inFlight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.DispatchTimeout)
	defer cancel()

	err := s.balances.Increment(ctx, player.ID, increment)
	switch {
	case errors.Is(err, model.ErrNoWallet):
		// Registration hasn't landed yet; benign
		s.logger.Debug("player has no balance record yet",
			slog.String("player_id", string(player.ID)),
		)
	case err != nil:
		s.logger.Warn("failed to credit player",
			slog.String("player_id", string(player.ID)),
			slog.String("name", player.DisplayName),
			slog.String("error", err.Error()),
		)
	default:
		s.logger.Debug("credited player",
			slog.String("player_id", string(player.ID)),
			slog.String("name", player.DisplayName),
			slog.String("amount", coin.FormatHuman(increment)),
		)
	}
}
