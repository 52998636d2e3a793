package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/chris/upi-wallet-topup/pkg/models"
	"github.com/chris/upi-wallet-topup/pkg/storage"
	"github.com/chris/upi-wallet-topup/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noBackoff = retry.BackoffDelayerFunc(func(int, error) (time.Duration, error) { return 0, nil })

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedPending(t *testing.T, store *memory.Store, orderID, userID string, amount int64) {
	t.Helper()
	_, err := store.CreateTransaction(context.Background(), &models.Transaction{
		OrderId: orderID,
		UserId:  userID,
		Amount:  amount,
	})
	require.NoError(t, err)
}

func balance(t *testing.T, store *memory.Store, userID string) int64 {
	t.Helper()
	wallet, err := store.GetWallet(context.Background(), userID)
	if errors.Is(err, storage.ErrWalletNotFound) {
		return 0
	}
	require.NoError(t, err)
	return wallet.Balance
}

func ledgerLen(t *testing.T, store *memory.Store, userID string) int {
	t.Helper()
	entries, err := store.ListLedgerEntries(context.Background(), userID, 1000)
	require.NoError(t, err)
	return len(entries)
}

func success(orderID, amount string) Payload {
	return Payload{OrderID: Text(orderID), Status: "success", Amount: Text(amount), Utr: "UTR123"}
}

// flakyStore fails AtomicallyApprove with the given errors before delegating.
type flakyStore struct {
	*memory.Store
	mu    sync.Mutex
	errs  []error
	calls int
}

func (f *flakyStore) AtomicallyApprove(ctx context.Context, approval models.Approval) error {
	f.mu.Lock()
	f.calls++
	var err error
	if len(f.errs) > 0 {
		err, f.errs = f.errs[0], f.errs[1:]
	}
	f.mu.Unlock()

	if err != nil {
		return err
	}
	return f.Store.AtomicallyApprove(ctx, approval)
}

func TestReconcile(t *testing.T) {
	t.Run("Credits Wallet", func(t *testing.T) {
		store := memory.New()
		store.SeedWallet("U1", 5000)
		seedPending(t, store, "O1", "U1", 10000)
		r := New(store, discardLogger())

		res, err := r.Reconcile(context.Background(), success("O1", "100"))

		require.NoError(t, err)
		assert.Equal(t, OutcomeApproved, res.Outcome)
		assert.Equal(t, "U1", res.UserID)
		assert.Equal(t, int64(10000), res.Credited)
		assert.Equal(t, int64(15000), balance(t, store, "U1"))

		tx, err := store.GetTransaction(context.Background(), "O1")
		require.NoError(t, err)
		assert.Equal(t, models.APPROVED, tx.Status)
		assert.Equal(t, "UTR123", tx.Utr)
		require.NotNil(t, tx.ProcessedAt)
		assert.Equal(t, 1, ledgerLen(t, store, "U1"))
	})

	t.Run("Creates Wallet On First Credit", func(t *testing.T) {
		store := memory.New()
		seedPending(t, store, "O1", "U1", 2550)
		r := New(store, discardLogger())

		res, err := r.Reconcile(context.Background(), success("O1", "25.50"))

		require.NoError(t, err)
		assert.Equal(t, OutcomeApproved, res.Outcome)
		assert.Equal(t, int64(2550), balance(t, store, "U1"))
	})

	t.Run("Duplicate Delivery", func(t *testing.T) {
		store := memory.New()
		store.SeedWallet("U1", 5000)
		seedPending(t, store, "O1", "U1", 10000)
		r := New(store, discardLogger())

		first, err := r.Reconcile(context.Background(), success("O1", "100"))
		require.NoError(t, err)
		second, err := r.Reconcile(context.Background(), success("O1", "100"))
		require.NoError(t, err)

		assert.Equal(t, OutcomeApproved, first.Outcome)
		assert.Equal(t, OutcomeNotFound, second.Outcome)
		assert.ErrorIs(t, second.Reason, storage.ErrTransactionNotFound)
		assert.Equal(t, int64(15000), balance(t, store, "U1"))
		assert.Equal(t, 1, ledgerLen(t, store, "U1"))
	})

	t.Run("Failure Leaves State Untouched", func(t *testing.T) {
		store := memory.New()
		store.SeedWallet("U1", 5000)
		seedPending(t, store, "O1", "U1", 10000)
		r := New(store, discardLogger())

		res, err := r.Reconcile(context.Background(), Payload{OrderID: "O1", Status: "FAILED", Amount: "100"})

		require.NoError(t, err)
		assert.Equal(t, OutcomeRejected, res.Outcome)
		tx, err := store.GetTransaction(context.Background(), "O1")
		require.NoError(t, err)
		assert.Equal(t, models.PENDING, tx.Status)
		assert.Equal(t, int64(5000), balance(t, store, "U1"))
	})

	t.Run("Success After Failure", func(t *testing.T) {
		store := memory.New()
		seedPending(t, store, "O1", "U1", 10000)
		r := New(store, discardLogger())

		_, err := r.Reconcile(context.Background(), Payload{OrderID: "O1", Status: "failure", Amount: "100"})
		require.NoError(t, err)
		res, err := r.Reconcile(context.Background(), success("O1", "100"))

		require.NoError(t, err)
		assert.Equal(t, OutcomeApproved, res.Outcome)
		assert.Equal(t, int64(10000), balance(t, store, "U1"))
	})

	t.Run("Unknown Order", func(t *testing.T) {
		store := memory.New()
		r := New(store, discardLogger())

		res, err := r.Reconcile(context.Background(), success("missing", "100"))

		require.NoError(t, err)
		assert.Equal(t, OutcomeNotFound, res.Outcome)
		assert.Equal(t, "missing", res.OrderID)
	})

	t.Run("Amount Mismatch", func(t *testing.T) {
		store := memory.New()
		store.SeedWallet("U1", 5000)
		seedPending(t, store, "O1", "U1", 10000)
		r := New(store, discardLogger())

		res, err := r.Reconcile(context.Background(), success("O1", "1000"))

		require.NoError(t, err)
		assert.Equal(t, OutcomeInvalid, res.Outcome)
		assert.ErrorIs(t, res.Reason, ErrAmountMismatch)
		assert.Equal(t, int64(5000), balance(t, store, "U1"))
		tx, err := store.GetTransaction(context.Background(), "O1")
		require.NoError(t, err)
		assert.Equal(t, models.PENDING, tx.Status)
	})

	t.Run("Amount Within Tolerance Credits Stored Amount", func(t *testing.T) {
		store := memory.New()
		seedPending(t, store, "O1", "U1", 10000)
		r := New(store, discardLogger(), WithAmountTolerance(100))

		res, err := r.Reconcile(context.Background(), success("O1", "99.50"))

		require.NoError(t, err)
		assert.Equal(t, OutcomeApproved, res.Outcome)
		assert.Equal(t, int64(10000), balance(t, store, "U1"))
	})
}

func TestReconcileValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
	}{
		{"Missing Order ID", Payload{Status: "success", Amount: "100"}},
		{"Blank Order ID", Payload{OrderID: "   ", Status: "success", Amount: "100"}},
		{"Unknown Status", Payload{OrderID: "O1", Status: "pending", Amount: "100"}},
		{"Missing Status", Payload{OrderID: "O1", Amount: "100"}},
		{"Missing Amount", Payload{OrderID: "O1", Status: "success"}},
		{"Negative Amount", Payload{OrderID: "O1", Status: "success", Amount: "-100"}},
		{"Zero Amount", Payload{OrderID: "O1", Status: "success", Amount: "0"}},
		{"Garbage Amount", Payload{OrderID: "O1", Status: "success", Amount: "lots"}},
		{"Fractional Paise", Payload{OrderID: "O1", Status: "success", Amount: "1.005"}},
		{"Exponent Amount", Payload{OrderID: "O1", Status: "success", Amount: "1e2"}},
		{"Huge Negative Exponent", Payload{OrderID: "O1", Status: "success", Amount: "0e-50000000"}},
		{"Huge Positive Exponent", Payload{OrderID: "O1", Status: "success", Amount: "1e30000000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			store.SeedWallet("U1", 5000)
			seedPending(t, store, "O1", "U1", 10000)
			r := New(store, discardLogger())

			start := time.Now()
			res, err := r.Reconcile(context.Background(), tt.payload)

			require.NoError(t, err)
			assert.Less(t, time.Since(start), time.Second)
			assert.Equal(t, OutcomeInvalid, res.Outcome)
			assert.ErrorIs(t, res.Reason, ErrValidation)
			assert.Equal(t, int64(5000), balance(t, store, "U1"))
		})
	}
}

func TestReconcileStatusSynonyms(t *testing.T) {
	for _, status := range []string{"success", "SUCCESS", " Succeeded ", "completed"} {
		t.Run(status, func(t *testing.T) {
			store := memory.New()
			seedPending(t, store, "O1", "U1", 10000)
			r := New(store, discardLogger())

			res, err := r.Reconcile(context.Background(), Payload{OrderID: "O1", Status: Text(status), Amount: "100"})

			require.NoError(t, err)
			assert.Equal(t, OutcomeApproved, res.Outcome)
		})
	}
}

func TestReconcileConcurrentDeliveries(t *testing.T) {
	const deliveries = 32

	store := memory.New()
	store.SeedWallet("U1", 5000)
	seedPending(t, store, "O1", "U1", 10000)
	r := New(store, discardLogger(), WithBackoff(noBackoff))

	var approved, notFound atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			p := success("O1", "100")
			p.Utr = Text(fmt.Sprintf("UTR%d", i))
			res, err := r.Reconcile(context.Background(), p)
			if !assert.NoError(t, err) {
				return
			}
			switch res.Outcome {
			case OutcomeApproved:
				approved.Add(1)
			case OutcomeNotFound:
				notFound.Add(1)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), approved.Load())
	assert.Equal(t, int32(deliveries-1), notFound.Load())
	assert.Equal(t, int64(15000), balance(t, store, "U1"))
	assert.Equal(t, 1, ledgerLen(t, store, "U1"))
}

func TestReconcileAtomicity(t *testing.T) {
	store := memory.New()
	store.SeedWallet("U1", 5000)
	seedPending(t, store, "O1", "U1", 10000)
	store.BeforeCommit = func(models.Approval) error {
		return fmt.Errorf("injected: %w", storage.ErrStoreUnavailable)
	}
	r := New(store, discardLogger())

	_, err := r.Reconcile(context.Background(), success("O1", "100"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryable)
	tx, err := store.GetTransaction(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, models.PENDING, tx.Status)
	assert.Empty(t, tx.Utr)
	assert.Equal(t, int64(5000), balance(t, store, "U1"))
	assert.Equal(t, 0, ledgerLen(t, store, "U1"))

	// The redelivery succeeds once the store recovers.
	store.BeforeCommit = nil
	res, err := r.Reconcile(context.Background(), success("O1", "100"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, res.Outcome)
	assert.Equal(t, int64(15000), balance(t, store, "U1"))
}

func TestReconcileContention(t *testing.T) {
	contention := fmt.Errorf("cancelled: %w", storage.ErrContention)

	t.Run("Retries Then Succeeds", func(t *testing.T) {
		store := &flakyStore{Store: memory.New(), errs: []error{contention, contention}}
		seedPending(t, store.Store, "O1", "U1", 10000)
		r := New(store, discardLogger(), WithBackoff(noBackoff))

		res, err := r.Reconcile(context.Background(), success("O1", "100"))

		require.NoError(t, err)
		assert.Equal(t, OutcomeApproved, res.Outcome)
		assert.Equal(t, 3, store.calls)
		assert.Equal(t, int64(10000), balance(t, store.Store, "U1"))
	})

	t.Run("Gives Up After Max Attempts", func(t *testing.T) {
		store := &flakyStore{Store: memory.New(), errs: []error{contention, contention, contention}}
		seedPending(t, store.Store, "O1", "U1", 10000)
		r := New(store, discardLogger(), WithBackoff(noBackoff), WithMaxAttempts(3))

		_, err := r.Reconcile(context.Background(), success("O1", "100"))

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRetryable)
		assert.ErrorIs(t, err, ErrContentionExceeded)
		assert.Equal(t, 3, store.calls)
		assert.Equal(t, int64(0), balance(t, store.Store, "U1"))
	})

	t.Run("Store Unavailable Is Not Retried", func(t *testing.T) {
		store := &flakyStore{Store: memory.New(), errs: []error{storage.ErrStoreUnavailable}}
		seedPending(t, store.Store, "O1", "U1", 10000)
		r := New(store, discardLogger(), WithBackoff(noBackoff))

		_, err := r.Reconcile(context.Background(), success("O1", "100"))

		assert.ErrorIs(t, err, ErrRetryable)
		assert.ErrorIs(t, err, storage.ErrStoreUnavailable)
		assert.Equal(t, 1, store.calls)
	})

	t.Run("Backoff Honors Deadline", func(t *testing.T) {
		store := &flakyStore{Store: memory.New(), errs: []error{contention}}
		seedPending(t, store.Store, "O1", "U1", 10000)
		slow := retry.BackoffDelayerFunc(func(int, error) (time.Duration, error) { return time.Hour, nil })
		r := New(store, discardLogger(), WithBackoff(slow))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := r.Reconcile(ctx, success("O1", "100"))

		assert.ErrorIs(t, err, ErrRetryable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 1, store.calls)
	})
}

func TestReconcileCancelledContext(t *testing.T) {
	store := memory.New()
	seedPending(t, store, "O1", "U1", 10000)
	r := New(store, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Reconcile(ctx, success("O1", "100"))

	assert.ErrorIs(t, err, ErrRetryable)
	assert.ErrorIs(t, err, context.Canceled)
	tx, err := store.GetTransaction(context.Background(), "O1")
	require.NoError(t, err)
	assert.Equal(t, models.PENDING, tx.Status)
}

func TestPayloadDecoding(t *testing.T) {
	t.Run("Numbers And Strings", func(t *testing.T) {
		var p Payload
		err := json.Unmarshal([]byte(`{"order_id": 42, "status": "Success", "amount": 100.5, "utr": null}`), &p)

		require.NoError(t, err)
		assert.Equal(t, Text("42"), p.OrderID)
		assert.Equal(t, Text("100.5"), p.Amount)
		assert.Equal(t, Text(""), p.Utr)
	})

	t.Run("Rejects Objects", func(t *testing.T) {
		var p Payload
		err := json.Unmarshal([]byte(`{"amount": {"value": 1}}`), &p)
		assert.Error(t, err)
	})

	t.Run("Form", func(t *testing.T) {
		p := PayloadFromForm(url.Values{
			"order_id": {"O1"},
			"status":   {"success"},
			"amount":   {"100"},
			"utr":      {"UTR1"},
		})
		assert.Equal(t, success("O1", "100").Amount, p.Amount)
		assert.Equal(t, Text("UTR1"), p.Utr)
	})
}
