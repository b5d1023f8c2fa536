package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	domainErrors "github.com/dgaraz/fulfillment/internal/domain/errors"
	"github.com/dgaraz/fulfillment/internal/domain/model"
	"github.com/dgaraz/fulfillment/internal/domain/repository"
	testhelpers "github.com/dgaraz/fulfillment/internal/test"
)

func newReservationForTest(inventory *testhelpers.InventoryRepositoryStub, market *testhelpers.MarketplaceClientStub, log *testhelpers.PurchaseLogStub) *ReservationUseCase {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	// Avoid a typed-nil interface: a nil *PurchaseLogStub must reach the
	// use case as a nil PurchaseLogRepository.
	var purchases repository.PurchaseLogRepository
	if log != nil {
		purchases = log
	}
	uc := NewReservationUseCase(inventory, market, purchases, 3, logger)
	uc.stallDelay = time.Millisecond
	uc.progressDelay = time.Millisecond
	uc.failureDelay = time.Millisecond
	return uc
}

func TestAnalyzeReportsAllShortfallsAtOnce(t *testing.T) {
	inventory := testhelpers.NewInventoryRepositoryStub(map[string]int{
		"tomato": 10,
		"cheese": 1,
	})
	uc := newReservationForTest(inventory, &testhelpers.MarketplaceClientStub{}, nil)

	analysis, err := uc.Analyze(context.Background(), map[string]int{
		"tomato":  6,
		"cheese":  3,
		"saffron": 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Sufficient {
		t.Fatal("expected insufficient analysis")
	}
	if analysis.Missing["cheese"] != 2 {
		t.Fatalf("expected cheese shortfall 2, got %d", analysis.Missing["cheese"])
	}
	if analysis.Missing["saffron"] != 1 {
		t.Fatalf("expected unknown ingredient entirely missing, got %d", analysis.Missing["saffron"])
	}
	if analysis.Available["tomato"] != 10 {
		t.Fatalf("expected tomato availability 10, got %d", analysis.Available["tomato"])
	}
}

func TestAnalyzeCountsReservedStockAsUnavailable(t *testing.T) {
	inventory := testhelpers.NewInventoryRepositoryStub(map[string]int{"rice": 5})
	if err := inventory.Reserve(context.Background(), "rice", 4); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	uc := newReservationForTest(inventory, &testhelpers.MarketplaceClientStub{}, nil)

	analysis, err := uc.Analyze(context.Background(), map[string]int{"rice": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if analysis.Sufficient {
		t.Fatal("reserved stock must not satisfy new requirements")
	}
	if analysis.Missing["rice"] != 1 {
		t.Fatalf("expected rice shortfall 1, got %d", analysis.Missing["rice"])
	}
}

func TestReserveAllRollsBackOnFailure(t *testing.T) {
	inventory := testhelpers.NewInventoryRepositoryStub(map[string]int{
		"meat":  10,
		"onion": 0,
	})
	uc := newReservationForTest(inventory, &testhelpers.MarketplaceClientStub{}, nil)

	err := uc.ReserveAll(context.Background(), map[string]int{"meat": 4, "onion": 1})
	if !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if got := inventory.Reserved("meat"); got != 0 {
		t.Fatalf("expected meat reservation rolled back, reserved = %d", got)
	}
	if len(inventory.ReleaseCalls) != 1 || inventory.ReleaseCalls[0] != "meat" {
		t.Fatalf("expected a single release of meat, got %v", inventory.ReleaseCalls)
	}
}

func TestReserveAllReservesEverything(t *testing.T) {
	inventory := testhelpers.NewInventoryRepositoryStub(map[string]int{
		"meat": 10,
		"rice": 8,
	})
	uc := newReservationForTest(inventory, &testhelpers.MarketplaceClientStub{}, nil)

	if err := uc.ReserveAll(context.Background(), map[string]int{"meat": 4, "rice": 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inventory.Reserved("meat") != 4 || inventory.Reserved("rice") != 2 {
		t.Fatalf("unexpected reservations: meat=%d rice=%d", inventory.Reserved("meat"), inventory.Reserved("rice"))
	}
}

func TestCheckAndReserveSufficientStock(t *testing.T) {
	inventory := testhelpers.NewInventoryRepositoryStub(map[string]int{"tomato": 10})
	market := &testhelpers.MarketplaceClientStub{}
	uc := newReservationForTest(inventory, market, nil)

	report, err := uc.CheckAndReserve(context.Background(), "order-1", map[string]int{"tomato": 6})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != model.VerdictSufficient {
		t.Fatalf("expected sufficient verdict, got %s", report.Verdict)
	}
	if market.CallCount() != 0 {
		t.Fatalf("expected no marketplace calls, got %d", market.CallCount())
	}
	if inventory.Reserved("tomato") != 6 {
		t.Fatalf("expected 6 tomato reserved, got %d", inventory.Reserved("tomato"))
	}
}

func TestCheckAndReserveProcuresShortfall(t *testing.T) {
	inventory := testhelpers.NewInventoryRepositoryStub(map[string]int{"cheese": 1})
	market := &testhelpers.MarketplaceClientStub{Supply: map[string]int{"cheese": 10}}
	log := &testhelpers.PurchaseLogStub{}
	uc := newReservationForTest(inventory, market, log)

	report, err := uc.CheckAndReserve(context.Background(), "order-1", map[string]int{"cheese": 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != model.VerdictSufficient {
		t.Fatalf("expected sufficient verdict after procurement, got %s", report.Verdict)
	}
	if market.CallCount() != 1 {
		t.Fatalf("expected one purchase, got %d", market.CallCount())
	}
	if market.Calls[0].Quantity != 2 {
		t.Fatalf("expected to buy only the shortfall of 2, bought %d", market.Calls[0].Quantity)
	}
	if report.TotalCost != 2.0 {
		t.Fatalf("unexpected total cost %v", report.TotalCost)
	}
	if inventory.Reserved("cheese") != 3 {
		t.Fatalf("expected 3 cheese reserved, got %d", inventory.Reserved("cheese"))
	}
	if len(log.Purchases) != 1 {
		t.Fatalf("expected purchase recorded in history, got %d entries", len(log.Purchases))
	}
	if log.Purchases[0].OrderID != "order-1" {
		t.Fatalf("purchase not tagged with order id: %+v", log.Purchases[0])
	}
}

func TestCheckAndReserveZeroSoldEndsWaiting(t *testing.T) {
	inventory := testhelpers.NewInventoryRepositoryStub(map[string]int{"ketchup": 0})
	market := &testhelpers.MarketplaceClientStub{Supply: map[string]int{}}
	uc := newReservationForTest(inventory, market, nil)

	report, err := uc.CheckAndReserve(context.Background(), "order-1", map[string]int{"ketchup": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != model.VerdictWaitingMarketplace {
		t.Fatalf("expected waiting verdict, got %s", report.Verdict)
	}
	if report.Missing["ketchup"] != 2 {
		t.Fatalf("expected ketchup still missing 2, got %d", report.Missing["ketchup"])
	}
	// One zero-sold purchase per round, every round exhausted.
	if market.CallCount() != 3 {
		t.Fatalf("expected 3 purchase attempts, got %d", market.CallCount())
	}
}

func TestCheckAndReserveUnsupplyableShortfallSkipsMarket(t *testing.T) {
	inventory := testhelpers.NewInventoryRepositoryStub(map[string]int{"olive_oil": 1})
	market := &testhelpers.MarketplaceClientStub{}
	uc := newReservationForTest(inventory, market, nil)

	report, err := uc.CheckAndReserve(context.Background(), "order-1", map[string]int{"olive_oil": 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != model.VerdictNeedsExternalPurchase {
		t.Fatalf("expected external purchase verdict, got %s", report.Verdict)
	}
	if market.CallCount() != 0 {
		t.Fatalf("marketplace must not be called for unsupplyable ingredients, got %d calls", market.CallCount())
	}
	if report.Missing["olive_oil"] != 2 {
		t.Fatalf("expected olive_oil shortfall 2, got %d", report.Missing["olive_oil"])
	}
}

func TestCheckAndReserveMixedShortfallWaits(t *testing.T) {
	inventory := testhelpers.NewInventoryRepositoryStub(map[string]int{
		"cheese":    0,
		"olive_oil": 0,
	})
	market := &testhelpers.MarketplaceClientStub{Supply: map[string]int{"cheese": 10}}
	uc := newReservationForTest(inventory, market, nil)

	report, err := uc.CheckAndReserve(context.Background(), "order-1", map[string]int{
		"cheese":    2,
		"olive_oil": 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != model.VerdictNeedsExternalPurchase {
		t.Fatalf("expected external purchase verdict for unsupplyable remainder, got %s", report.Verdict)
	}
	if report.Missing["olive_oil"] != 1 {
		t.Fatalf("expected olive_oil in missing, got %v", report.Missing)
	}
	if _, ok := report.Missing["cheese"]; ok {
		t.Fatalf("cheese was procured, must not be missing: %v", report.Missing)
	}
}

func TestCheckAndReserveMultiRoundProcurement(t *testing.T) {
	inventory := testhelpers.NewInventoryRepositoryStub(map[string]int{"potato": 0})
	calls := 0
	market := &testhelpers.MarketplaceClientStub{
		PurchaseFn: func(ctx context.Context, ingredient string, quantity int) (*model.Purchase, error) {
			calls++
			// First round sells only part of the requirement.
			obtained := 2
			if obtained > quantity {
				obtained = quantity
			}
			return &model.Purchase{
				Ingredient: ingredient,
				Requested:  quantity,
				Obtained:   obtained,
				Cost:       float64(obtained),
				Success:    true,
			}, nil
		},
	}
	uc := newReservationForTest(inventory, market, nil)

	report, err := uc.CheckAndReserve(context.Background(), "order-1", map[string]int{"potato": 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Verdict != model.VerdictSufficient {
		t.Fatalf("expected sufficient verdict after rounds, got %s", report.Verdict)
	}
	if calls != 3 {
		t.Fatalf("expected 3 rounds of purchasing, got %d", calls)
	}
	if report.TotalCost != 5.0 {
		t.Fatalf("unexpected total cost %v", report.TotalCost)
	}
}

func TestCheckAndReservePropagatesContextCancellation(t *testing.T) {
	inventory := testhelpers.NewInventoryRepositoryStub(map[string]int{"cheese": 0})
	ctx, cancel := context.WithCancel(context.Background())
	market := &testhelpers.MarketplaceClientStub{
		PurchaseFn: func(context.Context, string, int) (*model.Purchase, error) {
			cancel()
			return nil, context.Canceled
		},
	}
	uc := newReservationForTest(inventory, market, nil)

	_, err := uc.CheckAndReserve(ctx, "order-1", map[string]int{"cheese": 2})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestCheckAndReserveSurvivesHistoryFailure(t *testing.T) {
	inventory := testhelpers.NewInventoryRepositoryStub(map[string]int{"cheese": 0})
	market := &testhelpers.MarketplaceClientStub{Supply: map[string]int{"cheese": 5}}
	log := &testhelpers.PurchaseLogStub{AppendErr: errors.New("redis down")}
	uc := newReservationForTest(inventory, market, log)

	report, err := uc.CheckAndReserve(context.Background(), "order-1", map[string]int{"cheese": 2})
	if err != nil {
		t.Fatalf("history failure must not fail procurement: %v", err)
	}
	if report.Verdict != model.VerdictSufficient {
		t.Fatalf("expected sufficient verdict, got %s", report.Verdict)
	}
}
