package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgaraz/fulfillment/internal/adapter/kitchen"
	domainErrors "github.com/dgaraz/fulfillment/internal/domain/errors"
	"github.com/dgaraz/fulfillment/internal/domain/model"
	"github.com/dgaraz/fulfillment/internal/domain/repository"
)

// transitions is the order state machine. Callbacks arrive at-least-once and
// unordered; a transition is applied only if the stored status still allows
// it, which makes replayed or out-of-order callbacks harmless.
var transitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending: {
		model.OrderStatusProcessing,
		model.OrderStatusFailed,
	},
	model.OrderStatusProcessing: {
		model.OrderStatusInPreparation,
		model.OrderStatusWaitingMarketplace,
		model.OrderStatusNeedsExternalPurchase,
		model.OrderStatusFailed,
	},
	model.OrderStatusWaitingMarketplace: {
		model.OrderStatusProcessing,
		model.OrderStatusInPreparation,
		model.OrderStatusNeedsExternalPurchase,
		model.OrderStatusFailed,
	},
	model.OrderStatusInPreparation: {
		model.OrderStatusReady,
		model.OrderStatusFailed,
	},
	model.OrderStatusReady: {
		model.OrderStatusDelivered,
		model.OrderStatusFailed,
	},
}

// CanTransition reports whether the state machine allows current -> next.
// Terminal statuses allow nothing.
func CanTransition(current, next model.OrderStatus) bool {
	for _, allowed := range transitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SagaUseCase coordinates the order fulfillment saga: it consumes callbacks
// from the kitchen, warehouse and marketplace and re-triggers downstream steps.
type SagaUseCase struct {
	orders       repository.OrderRepository
	kitchen      kitchen.Client
	reservations *ReservationUseCase
	logger       *slog.Logger
	now          func() time.Time
}

// NewSagaUseCase constructs the saga coordinator.
func NewSagaUseCase(
	orders repository.OrderRepository,
	kitchenClient kitchen.Client,
	reservations *ReservationUseCase,
	logger *slog.Logger,
) *SagaUseCase {
	return &SagaUseCase{
		orders:       orders,
		kitchen:      kitchenClient,
		reservations: reservations,
		logger:       logger,
		now:          time.Now,
	}
}

// TriggerKitchen asks the kitchen for a recipe selection for a pending order
// and feeds the result back into the saga as a kitchen-completed event. A
// kitchen failure at this stage is unrecoverable for the order.
func (u *SagaUseCase) TriggerKitchen(ctx context.Context, order *model.Order) error {
	recipes, err := u.kitchen.SelectRecipes(ctx, order.Quantity)
	if err != nil {
		u.logger.Error("kitchen recipe selection failed",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		u.failOrder(ctx, order.ID)
		return err
	}
	return u.HandleKitchenCompleted(ctx, order.ID, recipes)
}

// HandleKitchenCompleted stores the recipe selection, computes the required
// ingredients and drives the warehouse check.
func (u *SagaUseCase) HandleKitchenCompleted(ctx context.Context, orderID string, recipes []model.Recipe) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		return fmt.Errorf("order %s: empty recipe selection", orderID)
	}
	claimed, err := u.claim(ctx, order, model.OrderStatusProcessing)
	if err != nil {
		return err
	}
	if !claimed {
		u.logStale(orderID, order.Status, "kitchen-completed")
		return nil
	}

	order.SelectedRecipes = recipes
	order.RequiredIngredients = order.CalculateRequiredIngredients()
	if err := u.orders.Update(ctx, order); err != nil {
		return err
	}

	report, err := u.reservations.CheckAndReserve(ctx, order.ID, order.RequiredIngredients)
	if err != nil {
		u.logger.Error("reservation pass failed",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		u.failOrder(ctx, order.ID)
		return err
	}

	order.TotalAmount += report.TotalCost
	if err := u.orders.Update(ctx, order); err != nil {
		return err
	}

	return u.HandleWarehouseCompleted(ctx, order.ID, report.Verdict, report.Missing)
}

// HandleWarehouseCompleted maps an inventory verdict onto the order status.
func (u *SagaUseCase) HandleWarehouseCompleted(ctx context.Context, orderID string, verdict model.InventoryVerdict, missing map[string]int) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	var next model.OrderStatus
	switch verdict {
	case model.VerdictSufficient:
		next = model.OrderStatusInPreparation
	case model.VerdictWaitingMarketplace:
		next = model.OrderStatusWaitingMarketplace
	case model.VerdictNeedsExternalPurchase:
		next = model.OrderStatusNeedsExternalPurchase
	default:
		u.logger.Error("unknown inventory verdict",
			slog.String("order_id", orderID),
			slog.String("verdict", string(verdict)),
		)
		u.failOrder(ctx, orderID)
		return nil
	}

	if err := u.applyStatus(ctx, order, next); err != nil {
		return err
	}

	if next == model.OrderStatusWaitingMarketplace && len(missing) > 0 {
		u.logger.Warn("order waiting on marketplace",
			slog.String("order_id", orderID),
			slog.Any("missing", missing),
		)
	}

	if next == model.OrderStatusInPreparation {
		u.startPreparation(ctx, order)
	}
	return nil
}

// RetryReservation re-runs the warehouse check for an order parked in
// waiting_marketplace. The order is reclaimed into processing first so
// concurrent sweeps cannot reserve the same requirement twice; a failed pass
// parks it back in waiting_marketplace for the next sweep.
func (u *SagaUseCase) RetryReservation(ctx context.Context, orderID string) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != model.OrderStatusWaitingMarketplace {
		u.logStale(orderID, order.Status, "retry-reservation")
		return nil
	}
	if len(order.RequiredIngredients) == 0 {
		u.logger.Warn("waiting order has no requirements", slog.String("order_id", orderID))
		return nil
	}

	claimed, err := u.claim(ctx, order, model.OrderStatusProcessing)
	if err != nil {
		return err
	}
	if !claimed {
		u.logStale(orderID, order.Status, "retry-reservation")
		return nil
	}

	report, err := u.reservations.CheckAndReserve(ctx, orderID, order.RequiredIngredients)
	if err != nil {
		if undoErr := u.orders.UpdateStatus(ctx, orderID, model.OrderStatusProcessing, model.OrderStatusWaitingMarketplace); undoErr != nil {
			u.logger.Error("cannot park order back to waiting",
				slog.String("order_id", orderID),
				slog.String("error", undoErr.Error()),
			)
		}
		return err
	}

	if report.TotalCost > 0 {
		order.TotalAmount += report.TotalCost
		if err := u.orders.Update(ctx, order); err != nil {
			return err
		}
	}
	return u.HandleWarehouseCompleted(ctx, orderID, report.Verdict, report.Missing)
}

// HandleMarketplaceCompleted resumes or fails an order after an external
// marketplace purchase concluded.
func (u *SagaUseCase) HandleMarketplaceCompleted(ctx context.Context, orderID string, success bool) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !success {
		u.logger.Error("marketplace purchase failed", slog.String("order_id", orderID))
		u.failOrder(ctx, orderID)
		return nil
	}

	if err := u.applyStatus(ctx, order, model.OrderStatusInPreparation); err != nil {
		return err
	}
	u.startPreparation(ctx, order)
	return nil
}

// HandleOrderReady marks a cooked order ready and stamps its completion time.
func (u *SagaUseCase) HandleOrderReady(ctx context.Context, orderID string) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	claimed, err := u.claim(ctx, order, model.OrderStatusReady)
	if err != nil {
		return err
	}
	if !claimed {
		u.logStale(orderID, order.Status, "order-ready")
		return nil
	}

	now := u.now()
	order.EstimatedCompletionAt = &now
	return u.orders.Update(ctx, order)
}

// Deliver finishes the saga for a ready order.
func (u *SagaUseCase) Deliver(ctx context.Context, orderID string) error {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if !CanTransition(order.Status, model.OrderStatusDelivered) {
		return fmt.Errorf("order %s in %s: %w", orderID, order.Status, domainErrors.ErrInvalidTransition)
	}
	return u.orders.UpdateStatus(ctx, orderID, order.Status, model.OrderStatusDelivered)
}

// claim atomically moves the order to next via the compare-and-set status
// update. It reports false when the state machine forbids the move or another
// callback already advanced the stored row; callbacks arrive at-least-once,
// so only the claim winner may run the step's side effects.
func (u *SagaUseCase) claim(ctx context.Context, order *model.Order, next model.OrderStatus) (bool, error) {
	if !CanTransition(order.Status, next) {
		return false, nil
	}
	err := u.orders.UpdateStatus(ctx, order.ID, order.Status, next)
	if errors.Is(err, domainErrors.ErrInvalidTransition) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	order.Status = next
	return true, nil
}

// applyStatus advances the order if the state machine and the stored row
// still allow it. A repeated verdict or a lost race against another callback
// is ignored.
func (u *SagaUseCase) applyStatus(ctx context.Context, order *model.Order, next model.OrderStatus) error {
	if order.Status == next {
		return nil
	}
	claimed, err := u.claim(ctx, order, next)
	if err != nil {
		return err
	}
	if !claimed {
		u.logStale(order.ID, order.Status, string(next))
	}
	return nil
}

// startPreparation tells the kitchen to cook. Fire-and-forget: completion
// arrives later as an order-ready callback, and a trigger failure downgrades
// the order to failed rather than blocking the callback response.
func (u *SagaUseCase) startPreparation(ctx context.Context, order *model.Order) {
	minutes, err := u.kitchen.StartPreparation(ctx, order.ID, order.SelectedRecipes)
	if err != nil {
		u.logger.Error("start preparation failed",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		u.failOrder(ctx, order.ID)
		return
	}
	u.logger.Info("preparation started",
		slog.String("order_id", order.ID),
		slog.Int("preparation_minutes", minutes),
		slog.Int("max_recipe_minutes", order.MaxPreparationTime()),
	)
}

// failOrder forces an order to failed unless it already reached a terminal
// status. Errors here are logged, not propagated: failing the failure path
// must not mask the original problem.
func (u *SagaUseCase) failOrder(ctx context.Context, orderID string) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		u.logger.Error("cannot load order to fail it",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		return
	}
	if order.Status.Terminal() {
		return
	}
	if err := u.orders.UpdateStatus(ctx, orderID, order.Status, model.OrderStatusFailed); err != nil {
		u.logger.Error("failed to mark order failed",
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
	}
}

func (u *SagaUseCase) logStale(orderID string, current model.OrderStatus, event string) {
	u.logger.Info("ignoring stale callback",
		slog.String("order_id", orderID),
		slog.String("status", string(current)),
		slog.String("event", event),
	)
}
