package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/upi-wallet-topup/pkg/gateway"
	"github.com/chris/upi-wallet-topup/pkg/reconcile"
	"github.com/chris/upi-wallet-topup/pkg/scheduler"
	"github.com/chris/upi-wallet-topup/pkg/sweeper"
)

type checker interface {
	Check(ctx context.Context, orderID string) (reconcile.Result, error)
}

type handler struct {
	checker checker
	logger  *slog.Logger
}

// HandleRequest processes SQS status-check messages. Only messages that may succeed on
// redelivery are reported back as failures.
func (h *handler) HandleRequest(ctx context.Context, sqsEvent events.SQSEvent) (events.SQSEventResponse, error) {
	var resp events.SQSEventResponse

	for _, message := range sqsEvent.Records {
		logger := h.logger.With("message_id", message.MessageId)

		var check scheduler.StatusCheck
		if err := json.Unmarshal([]byte(message.Body), &check); err != nil || check.OrderID == "" {
			logger.ErrorContext(ctx, "dropping malformed status check", "error", err)
			continue
		}
		logger = logger.With("order_id", check.OrderID)

		res, err := h.checker.Check(ctx, check.OrderID)
		switch {
		case errors.Is(err, sweeper.ErrStillPending):
			logger.InfoContext(ctx, "order still pending at gateway; leaving it for the next sweep")
		case errors.Is(err, gateway.ErrOrderRejected):
			logger.WarnContext(ctx, "gateway does not know the order; dropping status check", "error", err)
		case err != nil:
			logger.ErrorContext(ctx, "status check failed", "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{ItemIdentifier: message.MessageId})
		default:
			logger.InfoContext(ctx, "status check reconciled", "outcome", string(res.Outcome))
		}
	}

	return resp, nil
}
