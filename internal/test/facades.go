package test

import (
	"context"
	"sync"

	"github.com/dgaraz/fulfillment/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	mu sync.Mutex

	CreateFn       func(context.Context, int, string) (*model.Order, error)
	ProcessFn      func(context.Context, *model.Order) error
	OrderFn        func(context.Context, string) (*model.Order, error)
	OrdersFn       func(context.Context) ([]model.Order, error)
	ByStatusFn     func(context.Context, model.OrderStatus) ([]model.Order, error)
	DeliverFn      func(context.Context, string) error
	ProcessedCh    chan string
	processedCount int
}

// CreateOrder delegates to the override or returns a pending order.
func (s *OrderFacadeStub) CreateOrder(ctx context.Context, quantity int, customerName string) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, quantity, customerName)
	}
	return &model.Order{ID: "stub-id", Number: "ORD-STUB", Status: model.OrderStatusPending, Quantity: quantity, CustomerName: customerName}, nil
}

// ProcessOrder records the invocation for asynchronous assertions.
func (s *OrderFacadeStub) ProcessOrder(ctx context.Context, order *model.Order) error {
	s.mu.Lock()
	s.processedCount++
	s.mu.Unlock()
	if s.ProcessedCh != nil {
		select {
		case s.ProcessedCh <- order.ID:
		default:
		}
	}
	if s.ProcessFn != nil {
		return s.ProcessFn(ctx, order)
	}
	return nil
}

// Processed reports how many orders entered processing.
func (s *OrderFacadeStub) Processed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processedCount
}

// Order returns the configured order.
func (s *OrderFacadeStub) Order(ctx context.Context, id string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &model.Order{ID: id, Status: model.OrderStatusPending}, nil
}

// Orders returns the configured order list.
func (s *OrderFacadeStub) Orders(ctx context.Context) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx)
	}
	return []model.Order{{ID: "stub-id"}}, nil
}

// OrdersByStatus returns the configured filtered list.
func (s *OrderFacadeStub) OrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	if s.ByStatusFn != nil {
		return s.ByStatusFn(ctx, status)
	}
	return []model.Order{{ID: "stub-id", Status: status}}, nil
}

// DeliverOrder delegates to the override.
func (s *OrderFacadeStub) DeliverOrder(ctx context.Context, id string) error {
	if s.DeliverFn != nil {
		return s.DeliverFn(ctx, id)
	}
	return nil
}

// CallbackCall records one received callback.
type CallbackCall struct {
	Event   string
	OrderID string
	Recipes []model.Recipe
	Verdict model.InventoryVerdict
	Missing map[string]int
	Success bool
}

// CallbackFacadeStub records saga callbacks for handler tests.
type CallbackFacadeStub struct {
	mu    sync.Mutex
	Calls []CallbackCall
	Err   error
}

func (s *CallbackFacadeStub) record(call CallbackCall) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, call)
	return s.Err
}

// Recorded returns a copy of the received callbacks.
func (s *CallbackFacadeStub) Recorded() []CallbackCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CallbackCall, len(s.Calls))
	copy(out, s.Calls)
	return out
}

// KitchenCompleted records the kitchen-completed callback.
func (s *CallbackFacadeStub) KitchenCompleted(ctx context.Context, orderID string, recipes []model.Recipe) error {
	return s.record(CallbackCall{Event: "kitchen-completed", OrderID: orderID, Recipes: recipes})
}

// WarehouseCompleted records the warehouse-completed callback.
func (s *CallbackFacadeStub) WarehouseCompleted(ctx context.Context, orderID string, verdict model.InventoryVerdict, missing map[string]int) error {
	return s.record(CallbackCall{Event: "warehouse-completed", OrderID: orderID, Verdict: verdict, Missing: missing})
}

// MarketplaceCompleted records the marketplace-completed callback.
func (s *CallbackFacadeStub) MarketplaceCompleted(ctx context.Context, orderID string, success bool) error {
	return s.record(CallbackCall{Event: "marketplace-completed", OrderID: orderID, Success: success})
}

// OrderReady records the order-ready callback.
func (s *CallbackFacadeStub) OrderReady(ctx context.Context, orderID string) error {
	return s.record(CallbackCall{Event: "order-ready", OrderID: orderID})
}

// InventoryFacadeStub simulates warehouse operations for handler tests.
type InventoryFacadeStub struct {
	ListFn       func(context.Context) ([]model.InventoryRecord, error)
	GetFn        func(context.Context, string) (*model.InventoryRecord, error)
	AddStockFn   func(context.Context, map[string]int) error
	ConsumeFn    func(context.Context, map[string]int) error
	CheckFn      func(context.Context, map[string]int) (*model.InventoryAnalysis, error)
	ReserveFn    func(context.Context, map[string]int) error
	InitializeFn func(context.Context) error
}

// Inventory returns the configured records.
func (s InventoryFacadeStub) Inventory(ctx context.Context) ([]model.InventoryRecord, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return []model.InventoryRecord{{Ingredient: "tomato", Quantity: 10, Unit: "kg"}}, nil
}

// Ingredient returns the configured record.
func (s InventoryFacadeStub) Ingredient(ctx context.Context, name string) (*model.InventoryRecord, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, name)
	}
	return &model.InventoryRecord{Ingredient: name, Quantity: 10, Unit: "kg"}, nil
}

// AddStock delegates to the override.
func (s InventoryFacadeStub) AddStock(ctx context.Context, ingredients map[string]int) error {
	if s.AddStockFn != nil {
		return s.AddStockFn(ctx, ingredients)
	}
	return nil
}

// ConsumeIngredients delegates to the override.
func (s InventoryFacadeStub) ConsumeIngredients(ctx context.Context, ingredients map[string]int) error {
	if s.ConsumeFn != nil {
		return s.ConsumeFn(ctx, ingredients)
	}
	return nil
}

// CheckInventory delegates to the override or reports sufficiency.
func (s InventoryFacadeStub) CheckInventory(ctx context.Context, required map[string]int) (*model.InventoryAnalysis, error) {
	if s.CheckFn != nil {
		return s.CheckFn(ctx, required)
	}
	return &model.InventoryAnalysis{Sufficient: true}, nil
}

// ReserveIngredients delegates to the override.
func (s InventoryFacadeStub) ReserveIngredients(ctx context.Context, required map[string]int) error {
	if s.ReserveFn != nil {
		return s.ReserveFn(ctx, required)
	}
	return nil
}

// InitializeInventory delegates to the override.
func (s InventoryFacadeStub) InitializeInventory(ctx context.Context) error {
	if s.InitializeFn != nil {
		return s.InitializeFn(ctx)
	}
	return nil
}

// PurchaseFacadeStub serves canned purchase history.
type PurchaseFacadeStub struct {
	RecentFn  func(context.Context, int) ([]model.Purchase, error)
	ByOrderFn func(context.Context, string, int) ([]model.Purchase, error)
}

// RecentPurchases returns the configured history.
func (s PurchaseFacadeStub) RecentPurchases(ctx context.Context, limit int) ([]model.Purchase, error) {
	if s.RecentFn != nil {
		return s.RecentFn(ctx, limit)
	}
	return []model.Purchase{{Ingredient: "tomato", Requested: 2, Obtained: 2, Cost: 1.6, Success: true}}, nil
}

// OrderPurchases returns the configured per-order history.
func (s PurchaseFacadeStub) OrderPurchases(ctx context.Context, orderID string, limit int) ([]model.Purchase, error) {
	if s.ByOrderFn != nil {
		return s.ByOrderFn(ctx, orderID, limit)
	}
	return []model.Purchase{{OrderID: orderID, Ingredient: "tomato", Requested: 2, Obtained: 2, Cost: 1.6, Success: true}}, nil
}

// FulfillmentFacadeStub aggregates facade stubs for router level tests.
type FulfillmentFacadeStub struct {
	OrderFacadeStub
	CallbackFacadeStub
	InventoryFacadeStub
	PurchaseFacadeStub
}
