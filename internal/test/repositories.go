package test

import (
	"context"
	"fmt"
	"sync"

	domainErrors "github.com/dgaraz/fulfillment/internal/domain/errors"
	"github.com/dgaraz/fulfillment/internal/domain/model"
)

// OrderRepositoryStub stores orders in-memory and lets tests override any call.
type OrderRepositoryStub struct {
	mu     sync.Mutex
	Orders map[string]*model.Order

	CreateFn       func(context.Context, *model.Order) error
	GetByIDFn      func(context.Context, string) (*model.Order, error)
	UpdateFn       func(context.Context, *model.Order) error
	UpdateStatusFn func(context.Context, string, model.OrderStatus, model.OrderStatus) error

	StatusUpdates []StatusUpdateCall
}

// StatusUpdateCall records one UpdateStatus invocation.
type StatusUpdateCall struct {
	OrderID  string
	Expected model.OrderStatus
	Next     model.OrderStatus
}

// NewOrderRepositoryStub constructs the stub with an initialized store.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
}

// Create stores the order unless an override or duplicate intervenes.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Orders[order.ID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	clone := *order
	s.Orders[order.ID] = &clone
	return nil
}

// GetByID returns a copy of the stored order or ErrNotFound.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

// List returns all stored orders.
func (s *OrderRepositoryStub) List(ctx context.Context) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Order, 0, len(s.Orders))
	for _, order := range s.Orders {
		out = append(out, *order)
	}
	return out, nil
}

// ListByStatus filters the stored orders by status.
func (s *OrderRepositoryStub) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, order := range s.Orders {
		if order.Status == status {
			out = append(out, *order)
		}
	}
	return out, nil
}

// Update replaces the stored order, keeping the stored status the way the
// real repository does: status moves only through UpdateStatus.
func (s *OrderRepositoryStub) Update(ctx context.Context, order *model.Order) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.Orders[order.ID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	clone := *order
	clone.Status = stored.Status
	s.Orders[order.ID] = &clone
	return nil
}

// UpdateStatus applies the compare-and-set the real repository performs.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, id string, expected, next model.OrderStatus) error {
	s.mu.Lock()
	s.StatusUpdates = append(s.StatusUpdates, StatusUpdateCall{OrderID: id, Expected: expected, Next: next})
	s.mu.Unlock()
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, id, expected, next)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if order.Status != expected {
		return fmt.Errorf("order %s in %s: %w", id, order.Status, domainErrors.ErrInvalidTransition)
	}
	order.Status = next
	return nil
}

// InventoryRepositoryStub keeps stock in-memory with the same reserve and
// consume invariants as the real store.
type InventoryRepositoryStub struct {
	mu      sync.Mutex
	Records map[string]*model.InventoryRecord

	ReserveFn  func(context.Context, string, int) error
	AddStockFn func(context.Context, string, int) error

	ReserveCalls []string
	ReleaseCalls []string
}

// NewInventoryRepositoryStub constructs the stub preloaded with the given stock.
func NewInventoryRepositoryStub(stock map[string]int) *InventoryRepositoryStub {
	records := make(map[string]*model.InventoryRecord, len(stock))
	for ingredient, quantity := range stock {
		records[ingredient] = &model.InventoryRecord{Ingredient: ingredient, Quantity: quantity, Unit: "kg"}
	}
	return &InventoryRepositoryStub{Records: records}
}

// Get returns a copy of the stored record or ErrNotFound.
func (s *InventoryRepositoryStub) Get(ctx context.Context, ingredient string) (*model.InventoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.Records[ingredient]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	clone := *record
	return &clone, nil
}

// List returns all stored records.
func (s *InventoryRepositoryStub) List(ctx context.Context) ([]model.InventoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.InventoryRecord, 0, len(s.Records))
	for _, record := range s.Records {
		out = append(out, *record)
	}
	return out, nil
}

// Reserve increments reserved quantity when free stock suffices.
func (s *InventoryRepositoryStub) Reserve(ctx context.Context, ingredient string, amount int) error {
	s.mu.Lock()
	s.ReserveCalls = append(s.ReserveCalls, ingredient)
	s.mu.Unlock()
	if s.ReserveFn != nil {
		return s.ReserveFn(ctx, ingredient, amount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.Records[ingredient]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if record.Quantity-record.ReservedQuantity < amount {
		return fmt.Errorf("%s: %w", ingredient, domainErrors.ErrInsufficientStock)
	}
	record.ReservedQuantity += amount
	return nil
}

// Release decrements reserved quantity, never below zero.
func (s *InventoryRepositoryStub) Release(ctx context.Context, ingredient string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ReleaseCalls = append(s.ReleaseCalls, ingredient)
	record, ok := s.Records[ingredient]
	if !ok {
		return domainErrors.ErrNotFound
	}
	record.ReservedQuantity -= amount
	if record.ReservedQuantity < 0 {
		record.ReservedQuantity = 0
	}
	return nil
}

// Consume decrements both quantity and reserved quantity.
func (s *InventoryRepositoryStub) Consume(ctx context.Context, ingredient string, amount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.Records[ingredient]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if record.ReservedQuantity < amount {
		return fmt.Errorf("%s: %w", ingredient, domainErrors.ErrOverConsumption)
	}
	record.ReservedQuantity -= amount
	record.Quantity -= amount
	return nil
}

// AddStock increments quantity, creating unknown ingredients.
func (s *InventoryRepositoryStub) AddStock(ctx context.Context, ingredient string, amount int) error {
	if s.AddStockFn != nil {
		return s.AddStockFn(ctx, ingredient, amount)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.Records[ingredient]
	if !ok {
		s.Records[ingredient] = &model.InventoryRecord{Ingredient: ingredient, Quantity: amount, Unit: "kg"}
		return nil
	}
	record.Quantity += amount
	return nil
}

// Initialize seeds records that are not present yet.
func (s *InventoryRepositoryStub) Initialize(ctx context.Context, records []model.InventoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range records {
		if _, exists := s.Records[record.Ingredient]; exists {
			continue
		}
		clone := record
		s.Records[record.Ingredient] = &clone
	}
	return nil
}

// Available reports quantity minus reserved for assertions.
func (s *InventoryRepositoryStub) Available(ingredient string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.Records[ingredient]
	if !ok {
		return 0
	}
	return record.Quantity - record.ReservedQuantity
}

// Reserved reports the reserved quantity for assertions.
func (s *InventoryRepositoryStub) Reserved(ingredient string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.Records[ingredient]
	if !ok {
		return 0
	}
	return record.ReservedQuantity
}

// PurchaseLogStub records appended purchases in-memory.
type PurchaseLogStub struct {
	mu        sync.Mutex
	Purchases []model.Purchase
	AppendErr error
}

// Append stores the purchase most recent first.
func (s *PurchaseLogStub) Append(ctx context.Context, purchase model.Purchase) error {
	if s.AppendErr != nil {
		return s.AppendErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Purchases = append([]model.Purchase{purchase}, s.Purchases...)
	return nil
}

// Recent returns up to limit stored purchases.
func (s *PurchaseLogStub) Recent(ctx context.Context, limit int) ([]model.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > len(s.Purchases) {
		limit = len(s.Purchases)
	}
	out := make([]model.Purchase, limit)
	copy(out, s.Purchases[:limit])
	return out, nil
}

// RecentByOrder filters the stored purchases by order.
func (s *PurchaseLogStub) RecentByOrder(ctx context.Context, orderID string, limit int) ([]model.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Purchase
	for _, purchase := range s.Purchases {
		if purchase.OrderID == orderID {
			out = append(out, purchase)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
