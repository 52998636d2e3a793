package storage

import (
	"context"

	"github.com/chris/upi-wallet-topup/pkg/models"
)

// WalletStore defines the interface for reading wallets.
// Balances are only ever changed through ApprovalStore.
type WalletStore interface {
	// GetWallet retrieves a user's wallet by their user ID.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)
}
