// Package postgres implements the balance store on a wallets table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/playtoearn/coinserver/internal/coin"
	"github.com/playtoearn/coinserver/internal/model"
	"github.com/playtoearn/coinserver/internal/store"
)

// Config holds Postgres connection settings
type Config struct {
	// DSN is a lib/pq connection string or postgres:// URL
	DSN string

	// Pool settings. Concurrent per-player dispatches each check a
	// connection out of the pool; a single shared connection is never
	// reused across goroutines.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns sensible defaults for Postgres configuration
func DefaultConfig() Config {
	return Config{
		DSN:             "postgres://localhost:5432/playtoearn?sslmode=disable",
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// Store is a Postgres-backed implementation of the balance store
type Store struct {
	db *sql.DB
}

// New opens a pooled connection to Postgres
func New(cfg Config) (*Store, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return &Store{db: db}, nil
}

// NewWithDB wraps an existing database handle (useful for testing)
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ensure Store implements the interface
var _ store.BalanceStore = (*Store)(nil)

// EnsureSchema creates the wallets table if it does not exist. The
// balance column is NUMERIC(40,0): scaled integer units, wide enough
// that centuries of accrual cannot overflow it.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS wallets (
			uniqueid TEXT PRIMARY KEY,
			wallet   TEXT NOT NULL DEFAULT '',
			balance  NUMERIC(40,0) NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure wallets schema: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies connectivity, for health checks
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Register(ctx context.Context, id model.PlayerID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wallets (uniqueid)
		VALUES ($1)
		ON CONFLICT (uniqueid) DO NOTHING
	`, string(id))
	if err != nil {
		return fmt.Errorf("failed to register %s: %w", id, err)
	}
	return nil
}

func (s *Store) SetWallet(ctx context.Context, id model.PlayerID, addr model.WalletAddress) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO wallets (uniqueid, wallet)
		VALUES ($1, $2)
		ON CONFLICT (uniqueid)
		DO UPDATE SET wallet = EXCLUDED.wallet
	`, string(id), string(addr))
	if err != nil {
		return fmt.Errorf("failed to set wallet for %s: %w", id, err)
	}
	return nil
}

func (s *Store) Increment(ctx context.Context, id model.PlayerID, amount coin.Amount) error {
	// The amount travels as a decimal string and is added in NUMERIC
	// arithmetic server-side, so precision survives past int64.
	res, err := s.db.ExecContext(ctx, `
		UPDATE wallets
		SET balance = balance + $2::numeric
		WHERE uniqueid = $1
	`, string(id), amount.String())
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", id, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to increment %s: %w", id, err)
	}
	if rows == 0 {
		return model.ErrNoWallet
	}
	return nil
}

func (s *Store) Balance(ctx context.Context, id model.PlayerID) (coin.Amount, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `
		SELECT balance::text
		FROM wallets
		WHERE uniqueid = $1
	`, string(id)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return coin.Amount{}, model.ErrNoWallet
	}
	if err != nil {
		return coin.Amount{}, fmt.Errorf("failed to read balance for %s: %w", id, err)
	}

	bal, err := coin.Parse(raw)
	if err != nil {
		return coin.Amount{}, fmt.Errorf("wallets table holds malformed balance for %s: %w", id, err)
	}
	return bal, nil
}
