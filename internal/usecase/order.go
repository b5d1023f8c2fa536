package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domainErrors "github.com/dgaraz/fulfillment/internal/domain/errors"
	"github.com/dgaraz/fulfillment/internal/domain/model"
	"github.com/dgaraz/fulfillment/internal/domain/repository"
)

const maxOrderQuantity = 100

// OrderUseCase encapsulates order lifecycle persistence logic.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// Create registers a new order in pending status.
func (u *OrderUseCase) Create(ctx context.Context, quantity int, customerName string) (*model.Order, error) {
	if quantity <= 0 || quantity > maxOrderQuantity {
		return nil, fmt.Errorf("quantity %d: %w", quantity, domainErrors.ErrInvalidQuantity)
	}
	if customerName == "" {
		customerName = "Guest"
	}

	id := uuid.NewString()
	order := &model.Order{
		ID:           id,
		Number:       model.OrderNumber(id),
		Status:       model.OrderStatusPending,
		Quantity:     quantity,
		CustomerName: customerName,
	}

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get fetches one order by id.
func (u *OrderUseCase) Get(ctx context.Context, id string) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// List returns all orders, newest first.
func (u *OrderUseCase) List(ctx context.Context) ([]model.Order, error) {
	return u.orders.List(ctx)
}

// ListByStatus returns orders in the given status.
func (u *OrderUseCase) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status %q: %w", status, domainErrors.ErrInvalidStatus)
	}
	return u.orders.ListByStatus(ctx, status)
}
