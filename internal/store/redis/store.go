// Package redis implements the balance store on Redis, for deployments
// that colocate balances with other hot game state.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/playtoearn/coinserver/internal/coin"
	"github.com/playtoearn/coinserver/internal/model"
	"github.com/playtoearn/coinserver/internal/store"
)

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// Store is a Redis-backed implementation of the balance store
type Store struct {
	client *redis.Client
}

// How many times an optimistic increment retries when another writer
// touches the key mid-transaction
const incrementRetries = 16

// New creates a new Redis store instance
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	return NewWithClient(redis.NewClient(opts)), nil
}

// NewWithClient wraps an existing Redis client (useful for testing)
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Ensure Store implements the interface
var _ store.BalanceStore = (*Store)(nil)

// Close releases the underlying client
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping verifies connectivity, for health checks
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Key prefix for all coin data
const keyPrefix = "playtoearn"

// balanceKey returns the Redis key holding a player's scaled balance
func balanceKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:balance:%s", keyPrefix, id)
}

// walletKey returns the Redis key holding a player's payout address
func walletKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:wallet:%s", keyPrefix, id)
}

func (s *Store) Register(ctx context.Context, id model.PlayerID) error {
	// SetNX keeps an existing balance intact
	if err := s.client.SetNX(ctx, balanceKey(id), "0", 0).Err(); err != nil {
		return fmt.Errorf("failed to register %s: %w", id, err)
	}
	return nil
}

func (s *Store) SetWallet(ctx context.Context, id model.PlayerID, addr model.WalletAddress) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, walletKey(id), string(addr), 0)
	pipe.SetNX(ctx, balanceKey(id), "0", 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set wallet for %s: %w", id, err)
	}
	return nil
}

// Increment adds amount to the stored balance. Balances are decimal
// strings rather than Redis integers because they outgrow int64, so
// the addition happens client-side under an optimistic WATCH
// transaction instead of INCRBY.
func (s *Store) Increment(ctx context.Context, id model.PlayerID, amount coin.Amount) error {
	key := balanceKey(id)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return model.ErrNoWallet
		}
		if err != nil {
			return err
		}

		current, err := coin.Parse(raw)
		if err != nil {
			return fmt.Errorf("malformed balance for %s: %w", id, err)
		}
		next := current.Add(amount)

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next.String(), 0)
			return nil
		})
		return err
	}

	for i := 0; i < incrementRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if errors.Is(err, model.ErrNoWallet) {
			return model.ErrNoWallet
		}
		return fmt.Errorf("failed to increment %s: %w", id, err)
	}
	return fmt.Errorf("failed to increment %s: contention on %s", id, key)
}

func (s *Store) Balance(ctx context.Context, id model.PlayerID) (coin.Amount, error) {
	raw, err := s.client.Get(ctx, balanceKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return coin.Amount{}, model.ErrNoWallet
	}
	if err != nil {
		return coin.Amount{}, fmt.Errorf("failed to read balance for %s: %w", id, err)
	}

	bal, err := coin.Parse(raw)
	if err != nil {
		return coin.Amount{}, fmt.Errorf("malformed balance for %s: %w", id, err)
	}
	return bal, nil
}

// Wallet returns the stored address for a player, for inspection
func (s *Store) Wallet(ctx context.Context, id model.PlayerID) (model.WalletAddress, error) {
	raw, err := s.client.Get(ctx, walletKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "", model.ErrNoWallet
	}
	if err != nil {
		return "", fmt.Errorf("failed to read wallet for %s: %w", id, err)
	}
	return model.WalletAddress(raw), nil
}
