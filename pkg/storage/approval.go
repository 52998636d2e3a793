package storage

import (
	"context"

	"github.com/chris/upi-wallet-topup/pkg/models"
)

// ApprovalStore defines the privileged interface that approves a transaction and credits
// the owner's wallet. Both writes commit together or not at all, conditioned on the
// transaction still being pending at commit time.
// It should only be exposed to the reconciliation engine.
type ApprovalStore interface {
	// AtomicallyApprove returns nil when this call performed the approval,
	// ErrTransactionNotPending when another caller already did, and ErrContention
	// when the commit should be retried.
	AtomicallyApprove(ctx context.Context, approval models.Approval) error
}

// ReconcileStore is the subset of storage the reconciliation engine depends on.
type ReconcileStore interface {
	FindPendingByOrderID(ctx context.Context, orderID string) (*models.Transaction, error)
	ApprovalStore
}
