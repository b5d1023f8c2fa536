package dto

import (
	"time"

	"github.com/dgaraz/fulfillment/internal/domain/model"
)

// IngredientsRequest carries an ingredient-to-amount map for stock operations.
type IngredientsRequest struct {
	Ingredients map[string]int `json:"ingredients" binding:"required"`
}

// InventoryRecordResponse is the public shape of one stock record.
type InventoryRecordResponse struct {
	Ingredient       string    `json:"ingredient"`
	Quantity         int       `json:"quantity"`
	ReservedQuantity int       `json:"reserved_quantity"`
	Available        int       `json:"available"`
	Unit             string    `json:"unit"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ToInventoryRecordResponse converts the domain record.
func ToInventoryRecordResponse(record model.InventoryRecord) InventoryRecordResponse {
	return InventoryRecordResponse{
		Ingredient:       record.Ingredient,
		Quantity:         record.Quantity,
		ReservedQuantity: record.ReservedQuantity,
		Available:        record.AvailableQuantity(),
		Unit:             record.Unit,
		UpdatedAt:        record.UpdatedAt,
	}
}

// InventoryCheckResponse reports the outcome of a sufficiency analysis.
type InventoryCheckResponse struct {
	Sufficient bool           `json:"sufficient"`
	Missing    map[string]int `json:"missing,omitempty"`
	Available  map[string]int `json:"available,omitempty"`
}
