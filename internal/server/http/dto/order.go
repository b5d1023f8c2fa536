package dto

import (
	"time"

	"github.com/dgaraz/fulfillment/internal/domain/model"
)

// CreateOrderRequest is the payload of POST /api/orders.
type CreateOrderRequest struct {
	Quantity     int    `json:"quantity" binding:"required"`
	CustomerName string `json:"customer_name"`
}

// OrderResponse is the public shape of an order.
type OrderResponse struct {
	ID                    string         `json:"id"`
	Number                string         `json:"order_number"`
	Status                string         `json:"status"`
	Quantity              int            `json:"quantity"`
	CustomerName          string         `json:"customer_name"`
	SelectedRecipes       []model.Recipe `json:"selected_recipes,omitempty"`
	RequiredIngredients   map[string]int `json:"required_ingredients,omitempty"`
	TotalAmount           float64        `json:"total_amount"`
	EstimatedCompletionAt *time.Time     `json:"estimated_completion_at,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// ToOrderResponse converts the domain order.
func ToOrderResponse(order model.Order) OrderResponse {
	return OrderResponse{
		ID:                    order.ID,
		Number:                order.Number,
		Status:                string(order.Status),
		Quantity:              order.Quantity,
		CustomerName:          order.CustomerName,
		SelectedRecipes:       order.SelectedRecipes,
		RequiredIngredients:   order.RequiredIngredients,
		TotalAmount:           order.TotalAmount,
		EstimatedCompletionAt: order.EstimatedCompletionAt,
		CreatedAt:             order.CreatedAt,
		UpdatedAt:             order.UpdatedAt,
	}
}
