package redislog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dgaraz/fulfillment/internal/domain/model"
)

const (
	globalKey      = "purchases:recent"
	orderKeyPrefix = "purchases:order:"
	orderKeyTTL    = 7 * 24 * time.Hour
)

// PurchaseLog keeps a bounded most-recent-first history of marketplace
// purchases in Redis lists, one global and one per order.
type PurchaseLog struct {
	client *redis.Client
	cap    int64
}

// NewPurchaseLog constructs the log with the given retention cap.
func NewPurchaseLog(client *redis.Client, cap int) *PurchaseLog {
	if cap <= 0 {
		cap = 50
	}
	return &PurchaseLog{client: client, cap: int64(cap)}
}

// Append records a purchase at the head of both lists and trims them to cap.
func (l *PurchaseLog) Append(ctx context.Context, purchase model.Purchase) error {
	payload, err := json.Marshal(purchase)
	if err != nil {
		return fmt.Errorf("marshal purchase: %w", err)
	}

	pipe := l.client.TxPipeline()
	pipe.LPush(ctx, globalKey, payload)
	pipe.LTrim(ctx, globalKey, 0, l.cap-1)
	if purchase.OrderID != "" {
		key := orderKeyPrefix + purchase.OrderID
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, l.cap-1)
		pipe.Expire(ctx, key, orderKeyTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append purchase: %w", err)
	}
	return nil
}

// Recent returns up to limit most recent purchases across all orders.
func (l *PurchaseLog) Recent(ctx context.Context, limit int) ([]model.Purchase, error) {
	return l.list(ctx, globalKey, limit)
}

// RecentByOrder returns up to limit most recent purchases for one order.
func (l *PurchaseLog) RecentByOrder(ctx context.Context, orderID string, limit int) ([]model.Purchase, error) {
	return l.list(ctx, orderKeyPrefix+orderID, limit)
}

func (l *PurchaseLog) list(ctx context.Context, key string, limit int) ([]model.Purchase, error) {
	if limit <= 0 || int64(limit) > l.cap {
		limit = int(l.cap)
	}

	entries, err := l.client.LRange(ctx, key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("read purchase history: %w", err)
	}

	purchases := make([]model.Purchase, 0, len(entries))
	for _, entry := range entries {
		var p model.Purchase
		if err := json.Unmarshal([]byte(entry), &p); err != nil {
			return nil, fmt.Errorf("unmarshal purchase: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, nil
}
