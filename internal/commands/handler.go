// Package commands implements the player-facing wallet and balance
// commands. Handlers validate synchronously, acknowledge immediately,
// and deliver store results through the messenger once the I/O
// finishes.
package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/playtoearn/coinserver/internal/coin"
	"github.com/playtoearn/coinserver/internal/idle"
	"github.com/playtoearn/coinserver/internal/model"
	"github.com/playtoearn/coinserver/internal/store"
)

// Player-facing message texts, matching the reference mod
const (
	msgWalletChanged = "Success changing the wallet"
	msgWalletFailed  = "Failed to set wallet"
	msgNoWallet      = "You don't have any wallet set up"
	msgBalanceFailed = "Failed to get balance"
	suffixEarning    = ", Currently earning PTE"
	suffixNotEarning = ", YOU ARE NOT EARNING PTE"
	balancePrefix    = "PTE: "
)

// Config holds command handler settings
type Config struct {
	// StoreTimeout bounds each background store call
	StoreTimeout time.Duration
}

// DefaultConfig returns sensible defaults for command configuration
func DefaultConfig() Config {
	return Config{
		StoreTimeout: 10 * time.Second,
	}
}

// Handler executes the wallet and balance commands
type Handler struct {
	balances  store.BalanceStore
	idles     idle.Signal
	messenger Messenger
	cfg       Config
	logger    *slog.Logger

	inFlight sync.WaitGroup
}

// New creates a command handler
func New(balances store.BalanceStore, idles idle.Signal, messenger Messenger, cfg Config, logger *slog.Logger) *Handler {
	return &Handler{
		balances:  balances,
		idles:     idles,
		messenger: messenger,
		cfg:       cfg,
		logger:    logger,
	}
}

// SetWallet handles the wallet command. Input errors are returned
// synchronously before any I/O; a nil return is the immediate ack and
// the store result arrives via the messenger.
func (h *Handler) SetWallet(id model.PlayerID, address string) error {
	if address == "" {
		return model.ErrMissingAddress
	}
	if !model.ValidAddress(address) {
		return model.ErrInvalidAddress
	}

	h.inFlight.Add(1)
	go func() {
		defer h.inFlight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), h.cfg.StoreTimeout)
		defer cancel()

		if err := h.balances.SetWallet(ctx, id, model.WalletAddress(address)); err != nil {
			h.logger.Warn("wallet update failed",
				slog.String("player_id", string(id)),
				slog.String("error", err.Error()),
			)
			h.messenger.Error(id, msgWalletFailed)
			return
		}
		h.messenger.Notify(id, msgWalletChanged)
	}()

	return nil
}

// Balance handles the balance command: immediate ack, async balance
// fetch, reply formatted with the player's earning status appended.
func (h *Handler) Balance(id model.PlayerID) {
	// Status is sampled at command time, not at reply time
	suffix := suffixEarning
	if h.idles.IsIdle(id) {
		suffix = suffixNotEarning
	}

	h.inFlight.Add(1)
	go func() {
		defer h.inFlight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), h.cfg.StoreTimeout)
		defer cancel()

		bal, err := h.balances.Balance(ctx, id)
		switch {
		case errors.Is(err, model.ErrNoWallet):
			h.messenger.Error(id, msgNoWallet)
		case err != nil:
			h.logger.Warn("balance lookup failed",
				slog.String("player_id", string(id)),
				slog.String("error", err.Error()),
			)
			h.messenger.Error(id, msgBalanceFailed)
		default:
			h.messenger.Notify(id, balancePrefix+coin.FormatHuman(bal)+suffix)
		}
	}()
}
