// Package sweeper recovers orders whose webhook never arrived. Stale pending orders are
// queued for a gateway status check, and the gateway's answer is reconciled exactly like a
// webhook delivery.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chris/upi-wallet-topup/pkg/scheduler"
	"github.com/chris/upi-wallet-topup/pkg/storage"
)

// Report summarizes one sweep.
type Report struct {
	Found    int
	Enqueued int
	Failed   int
}

// Sweeper finds pending transactions older than MinAge and schedules a status check for each.
// Orders past MaxAge are left alone. Failed payments and orders the gateway never accepted
// stay pending, so MaxAge bounds how long they keep being checked.
type Sweeper struct {
	Store     storage.TransactionReader
	Scheduler scheduler.Scheduler
	MinAge    time.Duration
	MaxAge    time.Duration
	Logger    *slog.Logger
}

// New creates a Sweeper.
func New(store storage.TransactionReader, sched scheduler.Scheduler, minAge, maxAge time.Duration, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{Store: store, Scheduler: sched, MinAge: minAge, MaxAge: maxAge, Logger: logger}
}

// Run performs one sweep. Failing to enqueue one order does not stop the others.
func (s *Sweeper) Run(ctx context.Context) (Report, error) {
	var report Report

	if s.MaxAge <= s.MinAge {
		return report, fmt.Errorf("sweep window is empty: max age %s is not above min age %s", s.MaxAge, s.MinAge)
	}

	stale, err := s.Store.ListStalePending(ctx, s.MinAge, s.MaxAge)
	if err != nil {
		return report, fmt.Errorf("failed to list stale pending transactions: %w", err)
	}
	report.Found = len(stale)

	for _, tx := range stale {
		if err := s.Scheduler.ScheduleStatusCheck(ctx, tx.OrderId, 0); err != nil {
			report.Failed++
			s.Logger.ErrorContext(ctx, "failed to schedule status check", "order_id", tx.OrderId, "error", err)
			continue
		}
		report.Enqueued++
		s.Logger.DebugContext(ctx, "scheduled status check", "order_id", tx.OrderId, "age", time.Since(tx.CreatedAt).Round(time.Second).String())
	}

	return report, nil
}
