package model

import (
	"strings"
	"time"
)

// OrderStatus describes the fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending               OrderStatus = "pending"
	OrderStatusProcessing            OrderStatus = "processing"
	OrderStatusInPreparation         OrderStatus = "in_preparation"
	OrderStatusReady                 OrderStatus = "ready"
	OrderStatusDelivered             OrderStatus = "delivered"
	OrderStatusWaitingMarketplace    OrderStatus = "waiting_marketplace"
	OrderStatusNeedsExternalPurchase OrderStatus = "needs_external_purchase"
	OrderStatusFailed                OrderStatus = "failed"
)

// Terminal reports whether no further transition is allowed from the status.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusNeedsExternalPurchase, OrderStatusFailed:
		return true
	}
	return false
}

// Valid reports whether s names a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusInPreparation,
		OrderStatusReady, OrderStatusDelivered, OrderStatusWaitingMarketplace,
		OrderStatusNeedsExternalPurchase, OrderStatusFailed:
		return true
	}
	return false
}

// Order describes a customer order moving through the fulfillment saga.
type Order struct {
	ID                    string
	Number                string
	Status                OrderStatus
	Quantity              int
	CustomerName          string
	SelectedRecipes       []Recipe
	RequiredIngredients   map[string]int
	TotalAmount           float64
	EstimatedCompletionAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// OrderNumber derives the human-readable number from an order id.
func OrderNumber(id string) string {
	fragment := id
	if len(fragment) > 8 {
		fragment = fragment[:8]
	}
	return "ORD-" + strings.ToUpper(fragment)
}

// CalculateRequiredIngredients sums recipe ingredients multiplied by order quantity.
func (o *Order) CalculateRequiredIngredients() map[string]int {
	total := make(map[string]int)
	for _, recipe := range o.SelectedRecipes {
		for ingredient, amount := range recipe.Ingredients {
			total[ingredient] += amount * o.Quantity
		}
	}
	return total
}

// MaxPreparationTime returns the longest preparation time in minutes among
// selected recipes. Recipes cook in parallel, so the slowest one bounds the order.
func (o *Order) MaxPreparationTime() int {
	maxMinutes := 0
	for _, recipe := range o.SelectedRecipes {
		if recipe.PreparationTime > maxMinutes {
			maxMinutes = recipe.PreparationTime
		}
	}
	return maxMinutes
}
