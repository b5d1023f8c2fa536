package handlers

import (
	"context"

	"github.com/dgaraz/fulfillment/internal/domain/model"
)

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, quantity int, customerName string) (*model.Order, error)
	ProcessOrder(ctx context.Context, order *model.Order) error
	Order(ctx context.Context, id string) (*model.Order, error)
	Orders(ctx context.Context) ([]model.Order, error)
	OrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	DeliverOrder(ctx context.Context, id string) error
}

// CallbackFacade receives saga progress callbacks from collaborating services.
type CallbackFacade interface {
	KitchenCompleted(ctx context.Context, orderID string, recipes []model.Recipe) error
	WarehouseCompleted(ctx context.Context, orderID string, verdict model.InventoryVerdict, missing map[string]int) error
	MarketplaceCompleted(ctx context.Context, orderID string, success bool) error
	OrderReady(ctx context.Context, orderID string) error
}

// InventoryFacade provides warehouse stock operations.
type InventoryFacade interface {
	Inventory(ctx context.Context) ([]model.InventoryRecord, error)
	Ingredient(ctx context.Context, name string) (*model.InventoryRecord, error)
	AddStock(ctx context.Context, ingredients map[string]int) error
	ConsumeIngredients(ctx context.Context, ingredients map[string]int) error
	CheckInventory(ctx context.Context, required map[string]int) (*model.InventoryAnalysis, error)
	ReserveIngredients(ctx context.Context, required map[string]int) error
	InitializeInventory(ctx context.Context) error
}

// PurchaseFacade exposes the marketplace purchase history.
type PurchaseFacade interface {
	RecentPurchases(ctx context.Context, limit int) ([]model.Purchase, error)
	OrderPurchases(ctx context.Context, orderID string, limit int) ([]model.Purchase, error)
}

// FulfillmentFacade aggregates the full set of operations used across handlers.
type FulfillmentFacade interface {
	OrderFacade
	CallbackFacade
	InventoryFacade
	PurchaseFacade
}
