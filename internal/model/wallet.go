package model

import "regexp"

// WalletAddress is an Ethereum-style wallet address
type WalletAddress string

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// ValidAddress reports whether s is a well-formed wallet address
func ValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}
