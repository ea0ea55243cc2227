package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kmazurov/order_service/internal/logging"
	"github.com/kmazurov/order_service/internal/models"
	"github.com/kmazurov/order_service/internal/repo"
)

const stalePendingAge = time.Hour

type ProcessingService struct {
	Orders *repo.OrderRepo
	Logs   *repo.OrderLogRepo

	// Delay stands in for the real work step.
	Delay time.Duration
}

// ProcessOrder drives pending -> processing -> completed. Errors propagate
// with no compensation: a failure after the first write leaves the order in
// processing.
func (svc *ProcessingService) ProcessOrder(ctx context.Context, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "processing", "order_id", id)
	start := time.Now()
	l.Info("processing_started")

	order, err := svc.Orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return err
	}

	if err := svc.Orders.UpdateStatus(ctx, order, models.OrderStatusProcessing); err != nil {
		return svc.fail(ctx, l, id, err)
	}
	svc.Logs.CreateLog(ctx, id.String(), "PROCESSING_STARTED", map[string]any{"timestamp": start}, "success", "")

	if err := svc.work(ctx); err != nil {
		return svc.fail(ctx, l, id, err)
	}

	if err := svc.Orders.UpdateStatus(ctx, order, models.OrderStatusCompleted); err != nil {
		return svc.fail(ctx, l, id, err)
	}

	elapsed := time.Since(start)
	svc.Logs.CreateLog(ctx, id.String(), "PROCESSING_COMPLETED", map[string]any{"processingTimeMs": elapsed.Milliseconds()}, "success", "")
	l.Info("processing_completed", "duration_ms", elapsed.Milliseconds())
	return nil
}

func (svc *ProcessingService) fail(ctx context.Context, l *slog.Logger, id uuid.UUID, err error) error {
	if errors.Is(err, repo.ErrStatusConflict) {
		err = fmt.Errorf("%w: order %s changed concurrently", ErrConflict, id)
	}
	svc.Logs.CreateLog(ctx, id.String(), "PROCESSING_ERROR", map[string]any{"error": err.Error()}, "error", err.Error())
	l.Error("processing_failed", "error", err)
	return err
}

// work is the placeholder for the real task; it honors cancellation.
func (svc *ProcessingService) work(ctx context.Context) error {
	delay := svc.Delay
	if delay <= 0 {
		return nil
	}
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CleanupOldPendingOrders re-processes every order stuck in pending for over
// an hour. No backoff, no retry cap: a persistently failing order comes back
// every sweep.
func (svc *ProcessingService) CleanupOldPendingOrders(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "processing.cleanup")

	stale, err := svc.Orders.FindStalePending(ctx, time.Now().Add(-stalePendingAge))
	if err != nil {
		return err
	}
	l.Info("stale_pending_found", "count", len(stale))

	for i := range stale {
		if err := svc.ProcessOrder(ctx, stale[i].ID); err != nil {
			l.Error("stale_pending_reprocess_failed", "order_id", stale[i].ID, "error", err)
		}
	}
	return nil
}
