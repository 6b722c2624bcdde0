package models

// WalletResponse represents a wallet with its balances
// swagger:model WalletResponse
type WalletResponse struct {
	// Wallet snapshot
	Wallet WalletSnapshot `json:"wallet"`

	// Current optimistic version
	// example: 3
	Version int `json:"version"`
}

// WalletErrorResponse represents an error response for wallet endpoints
// swagger:model WalletErrorResponse
type WalletErrorResponse struct {
	// Error message
	// example: Wallet not found
	Error string `json:"error"`
}

// NewWalletResponse renders w for the admin API.
func NewWalletResponse(w *Wallet) WalletResponse {
	return WalletResponse{Wallet: NewWalletSnapshot(w), Version: w.Version}
}
