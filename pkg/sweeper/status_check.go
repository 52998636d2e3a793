package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chris/upi-wallet-topup/pkg/gateway"
	"github.com/chris/upi-wallet-topup/pkg/reconcile"
)

// ErrStillPending is returned when the gateway has no final answer for the order yet.
var ErrStillPending = errors.New("order still pending at gateway")

// Reconciler is the part of reconcile.Reconciler the checker needs.
type Reconciler interface {
	Reconcile(ctx context.Context, p reconcile.Payload) (reconcile.Result, error)
}

// StatusChecker asks the gateway about one order and feeds the answer to the reconciler.
type StatusChecker struct {
	Gateway    gateway.Client
	Reconciler Reconciler
	Logger     *slog.Logger
}

// NewStatusChecker creates a StatusChecker.
func NewStatusChecker(client gateway.Client, reconciler Reconciler, logger *slog.Logger) *StatusChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatusChecker{Gateway: client, Reconciler: reconciler, Logger: logger}
}

// Check reconciles orderID against the gateway's current view of it.
func (c *StatusChecker) Check(ctx context.Context, orderID string) (reconcile.Result, error) {
	status, err := c.Gateway.OrderStatus(ctx, orderID)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("failed to fetch status of order %s: %w", orderID, err)
	}

	if !reconcile.IsFinalStatus(status.Status) {
		return reconcile.Result{OrderID: orderID}, fmt.Errorf("order %s reported %q: %w", orderID, status.Status, ErrStillPending)
	}

	if status.OrderID != orderID {
		c.Logger.WarnContext(ctx, "gateway answered for a different order", "order_id", orderID, "gateway_order_id", status.OrderID)
	}

	return c.Reconciler.Reconcile(ctx, reconcile.Payload{
		OrderID: reconcile.Text(orderID),
		Status:  reconcile.Text(status.Status),
		Amount:  reconcile.Text(status.Amount),
		Utr:     reconcile.Text(status.Utr),
	})
}
