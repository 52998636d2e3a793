package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/upi-wallet-topup/pkg/gateway"
	"github.com/chris/upi-wallet-topup/pkg/reconcile"
	"github.com/chris/upi-wallet-topup/pkg/sweeper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func(ctx context.Context, orderID string) (reconcile.Result, error)

func (f checkerFunc) Check(ctx context.Context, orderID string) (reconcile.Result, error) {
	return f(ctx, orderID)
}

func TestHandleRequest(t *testing.T) {
	var checked []string
	h := &handler{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		checker: checkerFunc(func(_ context.Context, orderID string) (reconcile.Result, error) {
			checked = append(checked, orderID)
			switch orderID {
			case "approved":
				return reconcile.Result{Outcome: reconcile.OutcomeApproved, OrderID: orderID}, nil
			case "pending":
				return reconcile.Result{OrderID: orderID}, fmt.Errorf("order %s: %w", orderID, sweeper.ErrStillPending)
			case "gateway-down":
				return reconcile.Result{}, fmt.Errorf("order %s: %w", orderID, gateway.ErrUnavailable)
			case "never-created":
				return reconcile.Result{}, fmt.Errorf("failed to fetch status of order %s: %w", orderID, gateway.ErrOrderRejected)
			case "contended":
				return reconcile.Result{}, fmt.Errorf("%w: %w", reconcile.ErrRetryable, reconcile.ErrContentionExceeded)
			}
			return reconcile.Result{Outcome: reconcile.OutcomeNotFound, OrderID: orderID}, nil
		}),
	}

	event := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "m1", Body: `{"order_id":"approved"}`},
		{MessageId: "m2", Body: `{"order_id":"pending"}`},
		{MessageId: "m3", Body: `{"order_id":"gateway-down"}`},
		{MessageId: "m4", Body: `not json`},
		{MessageId: "m5", Body: `{"order_id":"contended"}`},
		{MessageId: "m6", Body: `{}`},
		{MessageId: "m7", Body: `{"order_id":"done-already"}`},
		{MessageId: "m8", Body: `{"order_id":"never-created"}`},
	}}

	resp, err := h.HandleRequest(context.Background(), event)
	require.NoError(t, err)

	var failed []string
	for _, f := range resp.BatchItemFailures {
		failed = append(failed, f.ItemIdentifier)
	}
	assert.Equal(t, []string{"m3", "m5"}, failed)
	assert.Equal(t, []string{"approved", "pending", "gateway-down", "contended", "done-already", "never-created"}, checked)
}
