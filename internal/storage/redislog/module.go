package redislog

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/dgaraz/fulfillment/internal/config"
	"github.com/dgaraz/fulfillment/internal/domain/repository"
)

// Module wires the Redis client and purchase log adapter.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(func(cfg *config.Config, client *redis.Client) *PurchaseLog {
		return NewPurchaseLog(client, cfg.PurchaseHistoryCap)
	}),
	fx.Provide(func(log *PurchaseLog) repository.PurchaseLogRepository { return log }),
	fx.Invoke(registerLifecycle),
)

func newClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.RedisAddress})
}

func registerLifecycle(lc fx.Lifecycle, client *redis.Client) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
}
