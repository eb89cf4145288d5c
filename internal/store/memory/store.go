package memory

import (
	"context"
	"sync"

	"github.com/playtoearn/coinserver/internal/coin"
	"github.com/playtoearn/coinserver/internal/model"
	"github.com/playtoearn/coinserver/internal/store"
)

// Store is an in-memory implementation of the balance store, used in
// tests and for running the server without external infrastructure
type Store struct {
	mu      sync.RWMutex
	records map[model.PlayerID]*record
}

type record struct {
	wallet  model.WalletAddress
	balance coin.Amount
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		records: make(map[model.PlayerID]*record),
	}
}

// Ensure Store implements the interface
var _ store.BalanceStore = (*Store)(nil)

func (s *Store) Register(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		s.records[id] = &record{balance: coin.Zero()}
	}
	return nil
}

func (s *Store) SetWallet(ctx context.Context, id model.PlayerID, addr model.WalletAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		rec = &record{balance: coin.Zero()}
		s.records[id] = rec
	}
	rec.wallet = addr
	return nil
}

func (s *Store) Increment(ctx context.Context, id model.PlayerID, amount coin.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return model.ErrNoWallet
	}
	rec.balance = rec.balance.Add(amount)
	return nil
}

func (s *Store) Balance(ctx context.Context, id model.PlayerID) (coin.Amount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return coin.Amount{}, model.ErrNoWallet
	}
	return rec.balance, nil
}

// Wallet returns the stored address for a player, for tests and the
// dev-mode inspection endpoints
func (s *Store) Wallet(id model.PlayerID) (model.WalletAddress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return "", false
	}
	return rec.wallet, true
}
