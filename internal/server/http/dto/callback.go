package dto

import "github.com/dgaraz/fulfillment/internal/domain/model"

// KitchenCompletedRequest is the kitchen-completed callback payload.
type KitchenCompletedRequest struct {
	OrderID string         `json:"order_id" binding:"required"`
	Recipes []model.Recipe `json:"recipes" binding:"required"`
}

// WarehouseCompletedRequest is the warehouse-completed callback payload.
type WarehouseCompletedRequest struct {
	OrderID string         `json:"order_id" binding:"required"`
	Verdict string         `json:"verdict" binding:"required"`
	Missing map[string]int `json:"missing"`
}

// MarketplaceCompletedRequest is the marketplace-completed callback payload.
type MarketplaceCompletedRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Success *bool  `json:"success" binding:"required"`
}

// OrderReadyRequest is the order-ready callback payload.
type OrderReadyRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}
