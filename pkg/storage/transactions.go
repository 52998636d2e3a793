package storage

import (
	"context"
	"time"

	"github.com/chris/upi-wallet-topup/pkg/models"
)

// TransactionReader defines the interface for reading transaction data.
type TransactionReader interface {
	// GetTransaction retrieves a transaction by its order ID, whatever its status.
	GetTransaction(ctx context.Context, orderID string) (*models.Transaction, error)

	// FindPendingByOrderID retrieves the transaction only if it is still pending.
	// It returns ErrTransactionNotFound otherwise.
	FindPendingByOrderID(ctx context.Context, orderID string) (*models.Transaction, error)

	// ListStalePending retrieves pending transactions created between maxAge and minAge ago,
	// oldest first. Orders older than maxAge are no longer returned.
	ListStalePending(ctx context.Context, minAge, maxAge time.Duration) ([]models.Transaction, error)

	// ListTransactionsByUserID retrieves all transactions for a specific user.
	ListTransactionsByUserID(ctx context.Context, userID string) ([]models.Transaction, error)
}

// TransactionManager defines the interface for recording new payment attempts.
type TransactionManager interface {
	// CreateTransaction stores a new pending transaction. It returns ErrDuplicateOrder
	// if the order ID is already taken.
	CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error)
}

// TransactionStore combines the reader and manager interfaces.
type TransactionStore interface {
	TransactionReader
	TransactionManager
}
