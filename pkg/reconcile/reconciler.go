// Package reconcile turns gateway payment notifications into at most one wallet credit per order.
//
// Deliveries may be duplicated, reordered or concurrent. The store's conditional approval
// decides the single winner; every other delivery for the same order reports OutcomeNotFound.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/chris/upi-wallet-topup/pkg/models"
	"github.com/chris/upi-wallet-topup/pkg/money"
	"github.com/chris/upi-wallet-topup/pkg/storage"
)

const (
	// DefaultMaxAttempts bounds approval attempts when no WithMaxAttempts option is given.
	DefaultMaxAttempts = 4
	// DefaultMaxBackoff caps the jittered delay between contended attempts.
	DefaultMaxBackoff = 100 * time.Millisecond
)

// Reconciler applies validated webhook notifications to the store.
type Reconciler struct {
	store       storage.ReconcileStore
	logger      *slog.Logger
	maxAttempts int
	tolerance   int64
	backoff     retry.BackoffDelayer
	now         func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithMaxAttempts bounds how many times a contended approval is tried.
func WithMaxAttempts(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithAmountTolerance sets how far, in paise, a webhook amount may differ from the stored one.
func WithAmountTolerance(paise int64) Option {
	return func(r *Reconciler) {
		if paise >= 0 {
			r.tolerance = paise
		}
	}
}

// WithBackoff replaces the delay used between contended attempts.
func WithBackoff(b retry.BackoffDelayer) Option {
	return func(r *Reconciler) {
		if b != nil {
			r.backoff = b
		}
	}
}

// WithClock sets the time source used for processed_at.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a Reconciler. A nil logger falls back to slog.Default.
func New(store storage.ReconcileStore, logger *slog.Logger, opts ...Option) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reconciler{
		store:       store,
		logger:      logger,
		maxAttempts: DefaultMaxAttempts,
		backoff:     retry.NewExponentialJitterBackoff(DefaultMaxBackoff),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile processes one webhook delivery.
//
// Terminal results (approved, not-found, rejected, invalid) come back with a nil error and
// must be acknowledged to the sender. A non-nil error always wraps ErrRetryable and means
// nothing was committed by this call.
func (r *Reconciler) Reconcile(ctx context.Context, p Payload) (Result, error) {
	// 1. Validate the untrusted payload
	n, err := validate(p)
	if err != nil {
		r.logger.WarnContext(ctx, "ignoring invalid webhook", "order_id", n.orderID, "error", err)
		return Result{Outcome: OutcomeInvalid, OrderID: n.orderID, Reason: err}, nil
	}

	// 2. Failed payments never touch state
	if n.status == statusFailure {
		r.logger.InfoContext(ctx, "payment failed at gateway", "order_id", n.orderID, "utr", n.utr)
		return Result{Outcome: OutcomeRejected, OrderID: n.orderID}, nil
	}

	// 3. Approve, retrying only on contention
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := r.wait(ctx, attempt-1, lastErr); err != nil {
				return Result{}, fmt.Errorf("%w: order %s: %w", ErrRetryable, n.orderID, err)
			}
		}

		res, err := r.approve(ctx, n)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, storage.ErrContention) {
			r.logger.ErrorContext(ctx, "reconciliation failed", "order_id", n.orderID, "attempt", attempt, "error", err)
			return Result{}, fmt.Errorf("%w: order %s: %w", ErrRetryable, n.orderID, err)
		}

		lastErr = err
		r.logger.WarnContext(ctx, "approval contended", "order_id", n.orderID, "attempt", attempt, "error", err)
	}

	r.logger.ErrorContext(ctx, "giving up on contended approval", "order_id", n.orderID, "attempts", r.maxAttempts)
	return Result{}, fmt.Errorf("%w: order %s after %d attempts: %w: %w", ErrRetryable, n.orderID, r.maxAttempts, ErrContentionExceeded, lastErr)
}

func (r *Reconciler) approve(ctx context.Context, n notification) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	tx, err := r.store.FindPendingByOrderID(ctx, n.orderID)
	if errors.Is(err, storage.ErrTransactionNotFound) {
		r.logger.InfoContext(ctx, "no pending transaction for webhook", "order_id", n.orderID)
		return Result{Outcome: OutcomeNotFound, OrderID: n.orderID, Reason: err}, nil
	}
	if err != nil {
		return Result{}, err
	}

	// The stored amount is what gets credited. The payload amount is only cross-checked.
	if diff := money.Diff(tx.Amount, n.amount); diff > r.tolerance {
		err := fmt.Errorf("%w: stored %s, webhook %s", ErrAmountMismatch, money.FormatPaise(tx.Amount), money.FormatPaise(n.amount))
		r.logger.ErrorContext(ctx, "webhook amount mismatch",
			"order_id", n.orderID,
			"user_id", tx.UserId,
			"amount_mismatch", true,
			"stored_amount", money.FormatPaise(tx.Amount),
			"webhook_amount", money.FormatPaise(n.amount),
		)
		return Result{Outcome: OutcomeInvalid, OrderID: n.orderID, Reason: err}, nil
	}

	// Never start a commit we may not be around to observe.
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	err = r.store.AtomicallyApprove(ctx, models.Approval{
		OrderID:     tx.OrderId,
		UserID:      tx.UserId,
		Amount:      tx.Amount,
		Utr:         n.utr,
		ProcessedAt: r.now().UTC(),
	})
	if errors.Is(err, storage.ErrTransactionNotPending) {
		r.logger.InfoContext(ctx, "transaction already processed", "order_id", n.orderID)
		return Result{Outcome: OutcomeNotFound, OrderID: n.orderID, Reason: err}, nil
	}
	if err != nil {
		return Result{}, err
	}

	r.logger.InfoContext(ctx, "wallet credited",
		"order_id", tx.OrderId,
		"user_id", tx.UserId,
		"amount", money.FormatPaise(tx.Amount),
		"utr", n.utr,
	)
	return Result{Outcome: OutcomeApproved, OrderID: tx.OrderId, UserID: tx.UserId, Credited: tx.Amount}, nil
}

func (r *Reconciler) wait(ctx context.Context, attempt int, cause error) error {
	delay, err := r.backoff.BackoffDelay(attempt, cause)
	if err != nil {
		return fmt.Errorf("failed to compute backoff: %w", err)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
