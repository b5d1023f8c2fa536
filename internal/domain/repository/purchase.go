package repository

import (
	"context"

	"github.com/dgaraz/fulfillment/internal/domain/model"
)

// PurchaseLogRepository keeps a bounded most-recent-first history of
// marketplace purchases, globally and per order.
type PurchaseLogRepository interface {
	Append(ctx context.Context, purchase model.Purchase) error
	Recent(ctx context.Context, limit int) ([]model.Purchase, error)
	RecentByOrder(ctx context.Context, orderID string, limit int) ([]model.Purchase, error)
}
