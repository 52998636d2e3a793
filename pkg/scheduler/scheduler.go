package scheduler

import (
	"context"
	"time"
)

// StatusCheck is the message asking a worker to query the gateway for an order's state.
type StatusCheck struct {
	OrderID    string    `json:"order_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Scheduler defines the interface for a component that schedules gateway status checks.
type Scheduler interface {
	// ScheduleStatusCheck enqueues a status check for orderID, delivered after delay.
	ScheduleStatusCheck(ctx context.Context, orderID string, delay time.Duration) error
}
