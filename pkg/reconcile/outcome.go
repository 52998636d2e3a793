package reconcile

import "errors"

// Outcome is the terminal result of reconciling one webhook delivery.
type Outcome string

const (
	// OutcomeApproved means this delivery approved the transaction and credited the wallet.
	OutcomeApproved Outcome = "approved"
	// OutcomeNotFound means there was no pending transaction to approve: the order is unknown
	// or was already handled by an earlier or concurrent delivery.
	OutcomeNotFound Outcome = "not-found"
	// OutcomeRejected means the gateway reported a failed payment. Nothing was changed.
	OutcomeRejected Outcome = "rejected"
	// OutcomeInvalid means the payload was malformed or did not match the stored transaction.
	OutcomeInvalid Outcome = "invalid"
)

var (
	// ErrValidation marks a malformed webhook payload.
	ErrValidation = errors.New("invalid webhook payload")

	// ErrAmountMismatch marks a payload whose amount disagrees with the stored transaction.
	ErrAmountMismatch = errors.New("webhook amount does not match stored transaction")

	// ErrRetryable wraps every error Reconcile returns. The sender should redeliver.
	ErrRetryable = errors.New("reconciliation failed, retry later")

	// ErrContentionExceeded is returned when the approval lost to contention on every attempt.
	ErrContentionExceeded = errors.New("store contention exceeded")
)

// Result describes what Reconcile did with a delivery.
type Result struct {
	Outcome Outcome
	OrderID string
	// UserID and Credited (paise) are set for OutcomeApproved.
	UserID   string
	Credited int64
	// Reason explains OutcomeInvalid and OutcomeNotFound.
	Reason error
}
