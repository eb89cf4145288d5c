// Package store defines the balance persistence contract shared by the
// remote wallet-service, Postgres, Redis and in-memory backends. The
// accrual scheduler and command handlers are written against this
// interface only.
package store

import (
	"context"

	"github.com/playtoearn/coinserver/internal/coin"
	"github.com/playtoearn/coinserver/internal/model"
)

// BalanceStore persists per-player coin balances and wallet addresses.
//
// Implementations map "no record for this player" to model.ErrNoWallet;
// any other failure is a generic error the caller treats as transient.
type BalanceStore interface {
	// Register creates a balance record for the player if one does not
	// already exist. Registering an existing player is a no-op.
	Register(ctx context.Context, id model.PlayerID) error

	// SetWallet creates or replaces the player's payout address.
	SetWallet(ctx context.Context, id model.PlayerID, addr model.WalletAddress) error

	// Increment adds amount to the player's balance.
	Increment(ctx context.Context, id model.PlayerID, amount coin.Amount) error

	// Balance returns the player's current balance.
	Balance(ctx context.Context, id model.PlayerID) (coin.Amount, error)
}
