// Package remote implements the balance store against the external
// HTTP wallet service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/playtoearn/coinserver/internal/coin"
	"github.com/playtoearn/coinserver/internal/model"
	"github.com/playtoearn/coinserver/internal/store"
)

// Config holds wallet-service connection settings
type Config struct {
	// BaseURL is the wallet service address, e.g. http://127.0.0.1:8000
	BaseURL string

	// From identifies this caller to the wallet service; sent as the
	// From header on every request
	From string

	// RequestTimeout bounds each store call end to end
	RequestTimeout time.Duration
}

// DefaultConfig returns the defaults matching the reference deployment
func DefaultConfig() Config {
	return Config{
		BaseURL:        "http://127.0.0.1:8000",
		From:           "vintagestory",
		RequestTimeout: 10 * time.Second,
	}
}

// Store talks to the remote wallet service. The embedded http.Client
// pools connections, so concurrent per-player dispatches never share a
// single connection.
type Store struct {
	baseURL string
	from    string
	client  *http.Client
}

// New creates a remote store from config
func New(cfg Config) *Store {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().RequestTimeout
	}
	return &Store{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		from:    cfg.From,
		client:  &http.Client{Timeout: timeout},
	}
}

// Ensure Store implements the interface
var _ store.BalanceStore = (*Store)(nil)

type registerRequest struct {
	UniqueID string `json:"uniqueid"`
}

type updateWalletRequest struct {
	UniqueID string `json:"uniqueid"`
	Wallet   string `json:"wallet"`
}

type incrementRequest struct {
	UniqueID string `json:"uniqueid"`
	Quantity string `json:"quantity"`
}

func (s *Store) Register(ctx context.Context, id model.PlayerID) error {
	_, err := s.do(ctx, http.MethodPost, "/register", registerRequest{UniqueID: string(id)})
	return err
}

func (s *Store) SetWallet(ctx context.Context, id model.PlayerID, addr model.WalletAddress) error {
	_, err := s.do(ctx, http.MethodPut, "/updatewallet", updateWalletRequest{
		UniqueID: string(id),
		Wallet:   string(addr),
	})
	return err
}

func (s *Store) Increment(ctx context.Context, id model.PlayerID, amount coin.Amount) error {
	_, err := s.do(ctx, http.MethodPut, "/increment", incrementRequest{
		UniqueID: string(id),
		Quantity: amount.String(),
	})
	return err
}

func (s *Store) Balance(ctx context.Context, id model.PlayerID) (coin.Amount, error) {
	path := "/getbalance?uniqueid=" + url.QueryEscape(string(id))
	body, err := s.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return coin.Amount{}, err
	}

	// The service returns the scaled balance as a plain-text body
	bal, err := coin.Parse(strings.TrimSpace(string(body)))
	if err != nil {
		return coin.Amount{}, fmt.Errorf("wallet service returned malformed balance: %w", err)
	}
	return bal, nil
}

// do performs one request against the wallet service and returns the
// response body of a 2xx response. A 404 maps to model.ErrNoWallet.
func (s *Store) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("From", s.from)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, model.ErrNoWallet
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("wallet service returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return respBody, nil
}
