package test

import (
	"context"
	"sync"

	"github.com/dgaraz/fulfillment/internal/adapter/kitchen"
	"github.com/dgaraz/fulfillment/internal/domain/model"
)

// MarketplaceClientStub simulates the external procurement endpoint. Supply
// maps ingredient to the quantity the stub will sell per call; quantities are
// drained as calls arrive, so repeated rounds see a shrinking market.
type MarketplaceClientStub struct {
	mu     sync.Mutex
	Supply map[string]int
	// Drain makes each successful purchase subtract from Supply.
	Drain      bool
	UnitPrice  float64
	PurchaseFn func(context.Context, string, int) (*model.Purchase, error)
	Calls      []PurchaseCall
}

// PurchaseCall records one Purchase invocation.
type PurchaseCall struct {
	Ingredient string
	Quantity   int
}

// Purchase returns up to the configured supply at the configured price.
func (s *MarketplaceClientStub) Purchase(ctx context.Context, ingredient string, quantity int) (*model.Purchase, error) {
	s.mu.Lock()
	s.Calls = append(s.Calls, PurchaseCall{Ingredient: ingredient, Quantity: quantity})
	s.mu.Unlock()
	if s.PurchaseFn != nil {
		return s.PurchaseFn(ctx, ingredient, quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	available := s.Supply[ingredient]
	obtained := quantity
	if obtained > available {
		obtained = available
	}
	if s.Drain && obtained > 0 {
		s.Supply[ingredient] -= obtained
	}
	price := s.UnitPrice
	if price == 0 {
		price = 1.0
	}
	return &model.Purchase{
		Ingredient: ingredient,
		Requested:  quantity,
		Obtained:   obtained,
		Cost:       float64(obtained) * price,
		Supplier:   "stub-market",
		Success:    obtained > 0,
	}, nil
}

// CallCount reports how many purchases were attempted.
func (s *MarketplaceClientStub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Calls)
}

// KitchenClientStub simulates the kitchen service using the built-in recipe
// catalog.
type KitchenClientStub struct {
	mu sync.Mutex

	SelectFn func(context.Context, int) ([]model.Recipe, error)
	StartFn  func(context.Context, string, []model.Recipe) (int, error)

	StartedOrders []string
}

// SelectRecipes returns the first recipes from the catalog, one per portion.
func (s *KitchenClientStub) SelectRecipes(ctx context.Context, quantity int) ([]model.Recipe, error) {
	if s.SelectFn != nil {
		return s.SelectFn(ctx, quantity)
	}
	catalog := kitchen.DefaultRecipes()
	recipes := make([]model.Recipe, 0, quantity)
	for i := 0; i < quantity; i++ {
		recipes = append(recipes, catalog[i%len(catalog)])
	}
	return recipes, nil
}

// StartPreparation records the order and reports the longest recipe time.
func (s *KitchenClientStub) StartPreparation(ctx context.Context, orderID string, recipes []model.Recipe) (int, error) {
	s.mu.Lock()
	s.StartedOrders = append(s.StartedOrders, orderID)
	s.mu.Unlock()
	if s.StartFn != nil {
		return s.StartFn(ctx, orderID, recipes)
	}
	minutes := 0
	for _, recipe := range recipes {
		if recipe.PreparationTime > minutes {
			minutes = recipe.PreparationTime
		}
	}
	return minutes, nil
}
