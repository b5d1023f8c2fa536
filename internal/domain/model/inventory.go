package model

import "time"

// InventoryRecord holds stock for one ingredient.
type InventoryRecord struct {
	Ingredient       string
	Quantity         int
	ReservedQuantity int
	Unit             string
	UpdatedAt        time.Time
}

// AvailableQuantity is the stock not yet committed to an order.
func (r InventoryRecord) AvailableQuantity() int {
	return r.Quantity - r.ReservedQuantity
}

// CanReserve reports whether amount units are free to reserve.
func (r InventoryRecord) CanReserve(amount int) bool {
	return r.AvailableQuantity() >= amount
}
