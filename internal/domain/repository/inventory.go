package repository

import (
	"context"

	"github.com/dgaraz/fulfillment/internal/domain/model"
)

// InventoryRepository describes the per-ingredient stock store. Reserve,
// Release, Consume and AddStock must be atomic per record: no caller ever
// observes a record mid-update, and 0 <= reserved_quantity <= quantity holds
// at every observable point.
type InventoryRepository interface {
	Get(ctx context.Context, ingredient string) (*model.InventoryRecord, error)
	List(ctx context.Context) ([]model.InventoryRecord, error)
	// Reserve increments reserved_quantity; fails with ErrInsufficientStock
	// when amount exceeds quantity - reserved_quantity.
	Reserve(ctx context.Context, ingredient string, amount int) error
	// Release decrements reserved_quantity, never below zero. Used to undo
	// reservations of a failed batch.
	Release(ctx context.Context, ingredient string, amount int) error
	// Consume decrements both quantity and reserved_quantity; fails with
	// ErrOverConsumption when amount exceeds reserved_quantity.
	Consume(ctx context.Context, ingredient string, amount int) error
	// AddStock increments quantity, creating the record with zero reserved
	// quantity and a default unit when the ingredient is unknown.
	AddStock(ctx context.Context, ingredient string, amount int) error
	// Initialize seeds the given records, skipping ingredients that already exist.
	Initialize(ctx context.Context, records []model.InventoryRecord) error
}
