package models

import "time"

// Wallet represents a connected wallet for the duration of a session.
// It is derived state: the profile's wallet_address is authoritative and
// the cached copy is refreshed from it, never the other way around.
type Wallet struct {
	Address     string    `json:"address"`
	WalletName  string    `json:"walletName"`
	ChainID     string    `json:"chainId,omitempty"`
	ConnectedAt time.Time `json:"connectedAt"`
}

// DefaultWalletName is used when the connecting client does not report one.
const DefaultWalletName = "Web3 Wallet"
