package model

import "errors"

// Common errors used across the application
var (
	// Store errors
	ErrNoWallet         = errors.New("player has no wallet record")
	ErrStoreUnavailable = errors.New("balance store unavailable")

	// Command errors
	ErrMissingAddress = errors.New("no wallet address provided")
	ErrInvalidAddress = errors.New("invalid wallet address")

	// Amount errors
	ErrInvalidAmount = errors.New("invalid coin amount")
)
