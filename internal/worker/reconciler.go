package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dgaraz/fulfillment/internal/domain/model"
)

// FulfillmentFacade exposes the subset of application functionality required
// by the reconciler.
type FulfillmentFacade interface {
	OrdersAwaitingStock(ctx context.Context) ([]model.Order, error)
	RetryReservation(ctx context.Context, orderID string) error
}

// Reconciler periodically re-runs the warehouse check for orders parked in
// waiting_marketplace, recovering them once the marketplace can deliver.
type Reconciler struct {
	facade   FulfillmentFacade
	interval time.Duration
	// pause between orders inside one sweep, keeps marketplace pressure low
	orderDelay time.Duration
	logger     *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewReconciler constructs the waiting-order reconciler.
func NewReconciler(facade FulfillmentFacade, interval time.Duration, logger *slog.Logger) *Reconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Reconciler{
		facade:     facade,
		interval:   interval,
		orderDelay: time.Second,
		logger:     logger,
	}
}

// Start launches background sweeping.
func (r *Reconciler) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.loop(runCtx)
}

// Stop waits for the current sweep to finish.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Reconciler) loop(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	orders, err := r.facade.OrdersAwaitingStock(ctx)
	if err != nil {
		r.logger.Error("fetch waiting orders failed", slog.String("error", err.Error()))
		return
	}
	if len(orders) == 0 {
		return
	}

	processed := 0
	failed := 0
	for i, order := range orders {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(r.orderDelay):
			}
		}

		if err := r.facade.RetryReservation(ctx, order.ID); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			failed++
			r.logger.Error("reservation retry failed",
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		processed++
	}

	r.logger.Info("reconcile sweep finished",
		slog.Int("waiting", len(orders)),
		slog.Int("processed", processed),
		slog.Int("failed", failed),
	)
}
