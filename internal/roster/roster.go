// Package roster tracks which players are currently connected and
// eligible for accrual.
package roster

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/playtoearn/coinserver/internal/model"
	"github.com/playtoearn/coinserver/internal/store"
)

// Config holds roster behavior settings
type Config struct {
	// RegisterRetryDelay is the fixed delay between registration
	// attempts for a freshly joined player
	RegisterRetryDelay time.Duration

	// RegisterTimeout bounds each individual registration call
	RegisterTimeout time.Duration
}

// DefaultConfig returns sensible defaults for roster configuration
func DefaultConfig() Config {
	return Config{
		RegisterRetryDelay: 15 * time.Second,
		RegisterTimeout:    10 * time.Second,
	}
}

// Tracker is the set of currently connected players. Join and Leave
// are called from connection-event handlers while the accrual
// scheduler reads snapshots concurrently.
type Tracker struct {
	mu      sync.RWMutex
	players map[model.PlayerID]model.Player

	balances store.BalanceStore
	cfg      Config
	logger   *slog.Logger
}

// New creates an empty roster
func New(balances store.BalanceStore, cfg Config, logger *slog.Logger) *Tracker {
	return &Tracker{
		players:  make(map[model.PlayerID]model.Player),
		balances: balances,
		cfg:      cfg,
		logger:   logger,
	}
}

// Join adds a player to the roster. Joining twice is a no-op. The
// first join kicks off a background registration against the balance
// store so a record exists before the next tick; registration retries
// on a fixed delay for as long as the player stays connected.
func (t *Tracker) Join(ctx context.Context, player model.Player) {
	t.mu.Lock()
	if _, ok := t.players[player.ID]; ok {
		t.mu.Unlock()
		return
	}
	t.players[player.ID] = player
	t.mu.Unlock()

	t.logger.Info("player joined",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.DisplayName),
	)

	go t.register(ctx, player)
}

// Leave removes a player from the roster. Leaving when absent is a
// no-op.
func (t *Tracker) Leave(id model.PlayerID) {
	t.mu.Lock()
	player, ok := t.players[id]
	delete(t.players, id)
	t.mu.Unlock()

	if ok {
		t.logger.Info("player left",
			slog.String("player_id", string(id)),
			slog.String("name", player.DisplayName),
		)
	}
}

// Contains reports whether the player is currently connected
func (t *Tracker) Contains(id model.PlayerID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.players[id]
	return ok
}

// Empty reports whether nobody is connected
func (t *Tracker) Empty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.players) == 0
}

// Members returns a snapshot of the connected players. The snapshot is
// a copy: concurrent joins and leaves never corrupt an iteration over
// it.
func (t *Tracker) Members() []model.Player {
	t.mu.RLock()
	defer t.mu.RUnlock()
	members := make([]model.Player, 0, len(t.players))
	for _, p := range t.players {
		members = append(members, p)
	}
	return members
}

// register creates the player's balance record, retrying on a fixed
// delay. It gives up silently once the player disconnects or ctx is
// cancelled; an unregistered player is simply skipped by increments
// until a later join succeeds.
func (t *Tracker) register(ctx context.Context, player model.Player) {
	for {
		callCtx, cancel := context.WithTimeout(ctx, t.cfg.RegisterTimeout)
		err := t.balances.Register(callCtx, player.ID)
		cancel()

		if err == nil {
			t.logger.Debug("player registered with balance store",
				slog.String("player_id", string(player.ID)),
			)
			return
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		t.logger.Warn("registration failed, will retry",
			slog.String("player_id", string(player.ID)),
			slog.String("error", err.Error()),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(t.cfg.RegisterRetryDelay):
		}

		if !t.Contains(player.ID) {
			return
		}
	}
}
