// Package memory provides an in-process implementation of the storage interfaces.
// It is used for local runs and tests and applies the same conditional commit
// semantics as the DynamoDB store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/upi-wallet-topup/pkg/models"
	"github.com/chris/upi-wallet-topup/pkg/storage"
	"github.com/google/uuid"
)

// Store keeps transactions, wallets and ledger entries in maps guarded by one mutex.
type Store struct {
	mu           sync.Mutex
	transactions map[string]models.Transaction
	wallets      map[string]models.Wallet
	ledger       []models.LedgerEntry

	// BeforeCommit, when set, runs inside AtomicallyApprove after the pending check and
	// before any write. A non-nil error aborts the commit with nothing applied.
	BeforeCommit func(approval models.Approval) error
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		transactions: make(map[string]models.Transaction),
		wallets:      make(map[string]models.Wallet),
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// CreateTransaction records a new pending transaction.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[tx.OrderId]; exists {
		return nil, fmt.Errorf("order ID %s: %w", tx.OrderId, storage.ErrDuplicateOrder)
	}

	now := time.Now().UTC()
	tx.Status = models.PENDING
	tx.Utr = ""
	tx.ProcessedAt = nil
	tx.CreatedAt = now
	tx.UpdatedAt = now
	s.transactions[tx.OrderId] = *tx

	return tx, nil
}

// GetTransaction returns a copy of the stored transaction.
func (s *Store) GetTransaction(ctx context.Context, orderID string) (*models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[orderID]
	if !ok {
		return nil, fmt.Errorf("transaction with order ID %s: %w", orderID, storage.ErrTransactionNotFound)
	}
	return &tx, nil
}

// FindPendingByOrderID returns the transaction only while it is pending.
func (s *Store) FindPendingByOrderID(ctx context.Context, orderID string) (*models.Transaction, error) {
	tx, err := s.GetTransaction(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if tx.Status != models.PENDING {
		return nil, fmt.Errorf("transaction with order ID %s is %s: %w", orderID, tx.Status, storage.ErrTransactionNotFound)
	}
	return tx, nil
}

// ListStalePending returns pending transactions created between maxAge and minAge ago, oldest first.
func (s *Store) ListStalePending(ctx context.Context, minAge, maxAge time.Duration) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	oldest, cutoff := now.Add(-maxAge), now.Add(-minAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	var stale []models.Transaction
	for _, tx := range s.transactions {
		if tx.Status == models.PENDING && !tx.CreatedAt.Before(oldest) && tx.CreatedAt.Before(cutoff) {
			stale = append(stale, tx)
		}
	}
	sort.Slice(stale, func(i, j int) bool {
		return stale[i].CreatedAt.Before(stale[j].CreatedAt)
	})
	return stale, nil
}

// ListTransactionsByUserID returns all transactions owned by userID, newest first.
func (s *Store) ListTransactionsByUserID(ctx context.Context, userID string) ([]models.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var txs []models.Transaction
	for _, tx := range s.transactions {
		if tx.UserId == userID {
			txs = append(txs, tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}

// GetWallet returns a copy of the user's wallet.
func (s *Store) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wallet, ok := s.wallets[userID]
	if !ok {
		return nil, fmt.Errorf("wallet for user ID %s: %w", userID, storage.ErrWalletNotFound)
	}
	return &wallet, nil
}

// ListLedgerEntries returns up to limit credits for userID, newest first.
func (s *Store) ListLedgerEntries(ctx context.Context, userID string, limit int32) ([]models.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []models.LedgerEntry
	for i := len(s.ledger) - 1; i >= 0 && int32(len(entries)) < limit; i-- {
		if s.ledger[i].UserID == userID {
			entries = append(entries, s.ledger[i])
		}
	}
	return entries, nil
}

// AtomicallyApprove approves the transaction and credits the wallet under a single lock.
func (s *Store) AtomicallyApprove(ctx context.Context, approval models.Approval) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if approval.Amount <= 0 {
		return fmt.Errorf("refusing to credit non-positive amount %d for order %s", approval.Amount, approval.OrderID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.transactions[approval.OrderID]
	if !ok || tx.Status != models.PENDING || tx.Amount != approval.Amount || tx.UserId != approval.UserID {
		return fmt.Errorf("order %s: %w", approval.OrderID, storage.ErrTransactionNotPending)
	}

	if s.BeforeCommit != nil {
		if err := s.BeforeCommit(approval); err != nil {
			return fmt.Errorf("approval of order %s aborted: %w", approval.OrderID, err)
		}
	}

	processedAt := approval.ProcessedAt.UTC()
	if approval.ProcessedAt.IsZero() {
		processedAt = time.Now().UTC()
	}

	tx.Status = models.APPROVED
	tx.Utr = approval.Utr
	tx.ProcessedAt = &processedAt
	tx.UpdatedAt = processedAt
	s.transactions[approval.OrderID] = tx

	wallet := s.wallets[approval.UserID]
	wallet.UserId = approval.UserID
	wallet.Balance += approval.Amount
	wallet.Version++
	wallet.UpdatedAt = processedAt
	s.wallets[approval.UserID] = wallet

	s.ledger = append(s.ledger, models.LedgerEntry{
		EntryID:   uuid.New().String(),
		OrderID:   approval.OrderID,
		UserID:    approval.UserID,
		Credit:    approval.Amount,
		Utr:       approval.Utr,
		Timestamp: processedAt,
	})

	return nil
}

// SeedWallet sets a user's balance. It exists for local setups and tests.
func (s *Store) SeedWallet(userID string, balance int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet := s.wallets[userID]
	wallet.UserId = userID
	wallet.Balance = balance
	wallet.UpdatedAt = time.Now().UTC()
	s.wallets[userID] = wallet
}

// Seed stores a transaction as-is, keeping its status and timestamps.
func (s *Store) Seed(tx models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactions[tx.OrderId] = tx
}
