package storage

import (
	"context"

	"github.com/chris/upi-wallet-topup/pkg/models"
)

// LedgerReader defines the interface for reading the credit history of a wallet.
type LedgerReader interface {
	// ListLedgerEntries retrieves the most recent credits for a user.
	ListLedgerEntries(ctx context.Context, userID string, limit int32) ([]models.LedgerEntry, error)
}
