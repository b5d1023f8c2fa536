package dto

import (
	"time"

	"github.com/dgaraz/fulfillment/internal/domain/model"
)

// PurchaseResponse is the public shape of one marketplace purchase.
type PurchaseResponse struct {
	OrderID    string    `json:"order_id,omitempty"`
	Ingredient string    `json:"ingredient"`
	Requested  int       `json:"requested"`
	Obtained   int       `json:"obtained"`
	Cost       float64   `json:"cost"`
	Supplier   string    `json:"supplier,omitempty"`
	Success    bool      `json:"success"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToPurchaseResponse converts the domain purchase.
func ToPurchaseResponse(purchase model.Purchase) PurchaseResponse {
	return PurchaseResponse{
		OrderID:    purchase.OrderID,
		Ingredient: purchase.Ingredient,
		Requested:  purchase.Requested,
		Obtained:   purchase.Obtained,
		Cost:       purchase.Cost,
		Supplier:   purchase.Supplier,
		Success:    purchase.Success,
		CreatedAt:  purchase.CreatedAt,
	}
}
