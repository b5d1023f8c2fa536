package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/dgaraz/fulfillment/internal/domain/model"
	"github.com/dgaraz/fulfillment/internal/domain/repository"
)

// InventoryUseCase encapsulates warehouse stock operations.
type InventoryUseCase struct {
	inventory repository.InventoryRepository
}

// NewInventoryUseCase constructs InventoryUseCase.
func NewInventoryUseCase(inventory repository.InventoryRepository) *InventoryUseCase {
	return &InventoryUseCase{inventory: inventory}
}

// Get returns one ingredient record.
func (u *InventoryUseCase) Get(ctx context.Context, ingredient string) (*model.InventoryRecord, error) {
	return u.inventory.Get(ctx, ingredient)
}

// List returns the whole inventory.
func (u *InventoryUseCase) List(ctx context.Context) ([]model.InventoryRecord, error) {
	return u.inventory.List(ctx)
}

// AddStockAll increments stock for every ingredient in the map.
func (u *InventoryUseCase) AddStockAll(ctx context.Context, ingredients map[string]int) error {
	for _, ingredient := range sortedKeys(ingredients) {
		if err := u.inventory.AddStock(ctx, ingredient, ingredients[ingredient]); err != nil {
			return fmt.Errorf("add stock %s: %w", ingredient, err)
		}
	}
	return nil
}

// ConsumeAll deducts previously reserved stock for every ingredient in the map.
func (u *InventoryUseCase) ConsumeAll(ctx context.Context, ingredients map[string]int) error {
	for _, ingredient := range sortedKeys(ingredients) {
		if err := u.inventory.Consume(ctx, ingredient, ingredients[ingredient]); err != nil {
			return fmt.Errorf("consume %s: %w", ingredient, err)
		}
	}
	return nil
}

// Initialize seeds the default opening stock, skipping existing records.
func (u *InventoryUseCase) Initialize(ctx context.Context) error {
	return u.inventory.Initialize(ctx, model.DefaultInventory())
}

// sortedKeys fixes iteration order over ingredient maps so that multi-record
// operations and their rollbacks behave deterministically.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
