package app

import (
	"context"

	"github.com/dgaraz/fulfillment/internal/domain/model"
	"github.com/dgaraz/fulfillment/internal/domain/repository"
	"github.com/dgaraz/fulfillment/internal/usecase"
)

// FulfillmentFacade aggregates the use cases behind one surface consumed by
// the HTTP handlers and the reconciler worker.
type FulfillmentFacade struct {
	orders    *usecase.OrderUseCase
	inventory *usecase.InventoryUseCase
	saga      *usecase.SagaUseCase
	reserve   *usecase.ReservationUseCase
	purchases repository.PurchaseLogRepository
}

func NewFulfillmentFacade(
	orders *usecase.OrderUseCase,
	inventory *usecase.InventoryUseCase,
	saga *usecase.SagaUseCase,
	reserve *usecase.ReservationUseCase,
	purchases repository.PurchaseLogRepository,
) *FulfillmentFacade {
	return &FulfillmentFacade{
		orders:    orders,
		inventory: inventory,
		saga:      saga,
		reserve:   reserve,
		purchases: purchases,
	}
}

func (f *FulfillmentFacade) CreateOrder(ctx context.Context, quantity int, customerName string) (*model.Order, error) {
	return f.orders.Create(ctx, quantity, customerName)
}

// ProcessOrder runs the kitchen selection step of a freshly created order.
// Handlers call it in a goroutine so order creation responds immediately.
func (f *FulfillmentFacade) ProcessOrder(ctx context.Context, order *model.Order) error {
	return f.saga.TriggerKitchen(ctx, order)
}

func (f *FulfillmentFacade) Order(ctx context.Context, id string) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *FulfillmentFacade) Orders(ctx context.Context) ([]model.Order, error) {
	return f.orders.List(ctx)
}

func (f *FulfillmentFacade) OrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	return f.orders.ListByStatus(ctx, status)
}

func (f *FulfillmentFacade) DeliverOrder(ctx context.Context, id string) error {
	return f.saga.Deliver(ctx, id)
}

func (f *FulfillmentFacade) KitchenCompleted(ctx context.Context, orderID string, recipes []model.Recipe) error {
	return f.saga.HandleKitchenCompleted(ctx, orderID, recipes)
}

func (f *FulfillmentFacade) WarehouseCompleted(ctx context.Context, orderID string, verdict model.InventoryVerdict, missing map[string]int) error {
	return f.saga.HandleWarehouseCompleted(ctx, orderID, verdict, missing)
}

func (f *FulfillmentFacade) MarketplaceCompleted(ctx context.Context, orderID string, success bool) error {
	return f.saga.HandleMarketplaceCompleted(ctx, orderID, success)
}

func (f *FulfillmentFacade) OrderReady(ctx context.Context, orderID string) error {
	return f.saga.HandleOrderReady(ctx, orderID)
}

// OrdersAwaitingStock lists orders parked until the marketplace recovers.
func (f *FulfillmentFacade) OrdersAwaitingStock(ctx context.Context) ([]model.Order, error) {
	return f.orders.ListByStatus(ctx, model.OrderStatusWaitingMarketplace)
}

func (f *FulfillmentFacade) RetryReservation(ctx context.Context, orderID string) error {
	return f.saga.RetryReservation(ctx, orderID)
}

func (f *FulfillmentFacade) Inventory(ctx context.Context) ([]model.InventoryRecord, error) {
	return f.inventory.List(ctx)
}

func (f *FulfillmentFacade) Ingredient(ctx context.Context, name string) (*model.InventoryRecord, error) {
	return f.inventory.Get(ctx, name)
}

func (f *FulfillmentFacade) AddStock(ctx context.Context, ingredients map[string]int) error {
	return f.inventory.AddStockAll(ctx, ingredients)
}

func (f *FulfillmentFacade) ConsumeIngredients(ctx context.Context, ingredients map[string]int) error {
	return f.inventory.ConsumeAll(ctx, ingredients)
}

func (f *FulfillmentFacade) CheckInventory(ctx context.Context, required map[string]int) (*model.InventoryAnalysis, error) {
	return f.reserve.Analyze(ctx, required)
}

func (f *FulfillmentFacade) ReserveIngredients(ctx context.Context, required map[string]int) error {
	return f.reserve.ReserveAll(ctx, required)
}

func (f *FulfillmentFacade) InitializeInventory(ctx context.Context) error {
	return f.inventory.Initialize(ctx)
}

func (f *FulfillmentFacade) RecentPurchases(ctx context.Context, limit int) ([]model.Purchase, error) {
	return f.purchases.Recent(ctx, limit)
}

func (f *FulfillmentFacade) OrderPurchases(ctx context.Context, orderID string, limit int) ([]model.Purchase, error) {
	return f.purchases.RecentByOrder(ctx, orderID, limit)
}
