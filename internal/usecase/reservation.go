package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgaraz/fulfillment/internal/adapter/marketplace"
	domainErrors "github.com/dgaraz/fulfillment/internal/domain/errors"
	"github.com/dgaraz/fulfillment/internal/domain/model"
	"github.com/dgaraz/fulfillment/internal/domain/repository"
)

const (
	defaultProcureRounds = 8

	// Pacing between procurement rounds: back off hard when the market is
	// empty, lightly when it is selling, in between when it is erroring.
	defaultStallDelay    = 5 * time.Second
	defaultProgressDelay = 1 * time.Second
	defaultFailureDelay  = 3 * time.Second
)

// ReservationUseCase decides ingredient sufficiency, reserves stock and
// drives procurement for shortfalls.
type ReservationUseCase struct {
	inventory repository.InventoryRepository
	market    marketplace.Client
	purchases repository.PurchaseLogRepository
	logger    *slog.Logger

	rounds        int
	stallDelay    time.Duration
	progressDelay time.Duration
	failureDelay  time.Duration
}

// NewReservationUseCase constructs the reservation engine.
func NewReservationUseCase(
	inventory repository.InventoryRepository,
	market marketplace.Client,
	purchases repository.PurchaseLogRepository,
	rounds int,
	logger *slog.Logger,
) *ReservationUseCase {
	if rounds <= 0 {
		rounds = defaultProcureRounds
	}
	return &ReservationUseCase{
		inventory:     inventory,
		market:        market,
		purchases:     purchases,
		logger:        logger,
		rounds:        rounds,
		stallDelay:    defaultStallDelay,
		progressDelay: defaultProgressDelay,
		failureDelay:  defaultFailureDelay,
	}
}

// Analyze compares every required ingredient against available stock. It
// never short-circuits: the caller sees all shortfalls at once.
func (u *ReservationUseCase) Analyze(ctx context.Context, required map[string]int) (*model.InventoryAnalysis, error) {
	analysis := &model.InventoryAnalysis{
		Sufficient: true,
		Missing:    make(map[string]int),
		Available:  make(map[string]int),
	}

	for _, ingredient := range sortedKeys(required) {
		amount := required[ingredient]
		record, err := u.inventory.Get(ctx, ingredient)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				analysis.Sufficient = false
				analysis.Missing[ingredient] = amount
				continue
			}
			return nil, fmt.Errorf("analyze %s: %w", ingredient, err)
		}

		available := record.AvailableQuantity()
		if available >= amount {
			analysis.Available[ingredient] = available
		} else {
			analysis.Sufficient = false
			analysis.Missing[ingredient] = amount - available
		}
	}

	return analysis, nil
}

// ReserveAll reserves every ingredient of the batch, one record at a time in
// sorted key order. On the first failure all reservations made by this call
// are released before the error is returned. The rollback is compensation,
// not a transaction: another order may grab the released stock before this
// call returns.
func (u *ReservationUseCase) ReserveAll(ctx context.Context, required map[string]int) error {
	reserved := make([]string, 0, len(required))

	for _, ingredient := range sortedKeys(required) {
		if err := u.inventory.Reserve(ctx, ingredient, required[ingredient]); err != nil {
			for _, prior := range reserved {
				if rbErr := u.inventory.Release(ctx, prior, required[prior]); rbErr != nil {
					u.logger.Error("reservation rollback failed",
						slog.String("ingredient", prior),
						slog.String("error", rbErr.Error()),
					)
				}
			}
			return fmt.Errorf("reserve %s: %w", ingredient, err)
		}
		reserved = append(reserved, ingredient)
	}

	return nil
}

// CheckAndReserve analyzes the requirement, reserves when stock suffices and
// otherwise procures the shortfall from the marketplace in rounds. Procurement
// failure is never fatal: the caller receives a verdict, not an error, unless
// the store itself misbehaves.
func (u *ReservationUseCase) CheckAndReserve(ctx context.Context, orderID string, required map[string]int) (*model.ReservationReport, error) {
	analysis, err := u.Analyze(ctx, required)
	if err != nil {
		return nil, err
	}

	if analysis.Sufficient {
		return u.finishReservation(ctx, orderID, required, nil, 0)
	}

	supplyable := make(map[string]int)
	unsupplyable := make(map[string]int)
	for ingredient, amount := range analysis.Missing {
		if marketplace.CanSupply(ingredient) {
			supplyable[ingredient] = amount
		} else {
			unsupplyable[ingredient] = amount
		}
	}

	if len(supplyable) == 0 {
		u.logger.Warn("shortfall not supplyable by marketplace",
			slog.String("order_id", orderID),
			slog.Any("missing", unsupplyable),
		)
		return &model.ReservationReport{
			Verdict: model.VerdictNeedsExternalPurchase,
			Missing: unsupplyable,
		}, nil
	}

	purchases, totalCost, err := u.procure(ctx, orderID, supplyable)
	if err != nil {
		return nil, err
	}

	remaining := 0
	for _, amount := range supplyable {
		remaining += amount
	}

	switch {
	case remaining == 0 && len(unsupplyable) == 0:
		return u.finishReservation(ctx, orderID, required, purchases, totalCost)
	case remaining == 0:
		return &model.ReservationReport{
			Verdict:   model.VerdictNeedsExternalPurchase,
			Missing:   unsupplyable,
			Purchases: purchases,
			TotalCost: totalCost,
		}, nil
	default:
		stillMissing := make(map[string]int, len(supplyable)+len(unsupplyable))
		for ingredient, amount := range supplyable {
			if amount > 0 {
				stillMissing[ingredient] = amount
			}
		}
		for ingredient, amount := range unsupplyable {
			stillMissing[ingredient] = amount
		}
		return &model.ReservationReport{
			Verdict:   model.VerdictWaitingMarketplace,
			Missing:   stillMissing,
			Purchases: purchases,
			TotalCost: totalCost,
		}, nil
	}
}

// procure runs purchase rounds against the marketplace, mutating supplyable
// down to the still-unmet amounts. Obtained stock is added to the store as it
// arrives so a later round (or another order) can use it.
func (u *ReservationUseCase) procure(ctx context.Context, orderID string, supplyable map[string]int) ([]model.Purchase, float64, error) {
	var (
		purchases []model.Purchase
		totalCost float64
	)

	for round := 1; round <= u.rounds; round++ {
		roundObtained := 0
		attempts := 0
		failures := 0

		for _, ingredient := range sortedKeys(supplyable) {
			needed := supplyable[ingredient]
			if needed == 0 {
				continue
			}
			attempts++

			purchase, err := u.market.Purchase(ctx, ingredient, needed)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return purchases, totalCost, err
				}
				failures++
				u.logger.Warn("procurement attempt failed",
					slog.String("order_id", orderID),
					slog.String("ingredient", ingredient),
					slog.Int("round", round),
					slog.String("error", err.Error()),
				)
				continue
			}

			purchase.OrderID = orderID
			purchases = append(purchases, *purchase)
			totalCost += purchase.Cost
			u.recordPurchase(ctx, *purchase)

			if purchase.Obtained == 0 {
				continue
			}

			roundObtained += purchase.Obtained
			supplyable[ingredient] = needed - purchase.Obtained
			if err := u.inventory.AddStock(ctx, ingredient, purchase.Obtained); err != nil {
				return purchases, totalCost, fmt.Errorf("stock purchased %s: %w", ingredient, err)
			}
		}

		done := true
		for _, amount := range supplyable {
			if amount > 0 {
				done = false
				break
			}
		}
		if done {
			break
		}

		if round < u.rounds {
			delay := u.stallDelay
			switch {
			case roundObtained > 0:
				delay = u.progressDelay
			case failures == attempts && attempts > 0:
				delay = u.failureDelay
			}
			if err := sleepContext(ctx, delay); err != nil {
				return purchases, totalCost, err
			}
		}
	}

	return purchases, totalCost, nil
}

// finishReservation re-checks and reserves the full original requirement.
// A concurrent order may have taken the stock meanwhile; that degrades the
// verdict to waiting instead of failing the order.
func (u *ReservationUseCase) finishReservation(ctx context.Context, orderID string, required map[string]int, purchases []model.Purchase, totalCost float64) (*model.ReservationReport, error) {
	analysis, err := u.Analyze(ctx, required)
	if err != nil {
		return nil, err
	}

	if analysis.Sufficient {
		if err := u.ReserveAll(ctx, required); err == nil {
			return &model.ReservationReport{
				Verdict:   model.VerdictSufficient,
				Purchases: purchases,
				TotalCost: totalCost,
			}, nil
		} else if !errors.Is(err, domainErrors.ErrInsufficientStock) {
			return nil, err
		}
		// Lost the race for some record; fall through to waiting.
		if analysis, err = u.Analyze(ctx, required); err != nil {
			return nil, err
		}
	}

	u.logger.Info("requirement not reservable yet",
		slog.String("order_id", orderID),
		slog.Any("missing", analysis.Missing),
	)
	return &model.ReservationReport{
		Verdict:   model.VerdictWaitingMarketplace,
		Missing:   analysis.Missing,
		Purchases: purchases,
		TotalCost: totalCost,
	}, nil
}

func (u *ReservationUseCase) recordPurchase(ctx context.Context, purchase model.Purchase) {
	if u.purchases == nil {
		return
	}
	if err := u.purchases.Append(ctx, purchase); err != nil {
		u.logger.Warn("purchase history append failed", slog.String("error", err.Error()))
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
