package repository

import (
	"context"

	"github.com/dgaraz/fulfillment/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	// Update persists the order's mutable fields except status, which moves
	// only through UpdateStatus. A saga step may hold an order for a long
	// procurement pass; its final Update must not overwrite a status another
	// callback advanced in the meantime.
	Update(ctx context.Context, order *model.Order) error
	// UpdateStatus persists only the status change. expected guards against
	// concurrent callbacks: the update applies only while the stored status
	// still equals expected.
	UpdateStatus(ctx context.Context, id string, expected, next model.OrderStatus) error
}
