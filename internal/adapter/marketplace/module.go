package marketplace

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/dgaraz/fulfillment/internal/config"
)

// Module exposes the procurement client to the fx graph.
var Module = fx.Provide(newBreaker, newClient)

func newBreaker(cfg *config.Config) *Breaker {
	return NewBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown)
}

type clientParams struct {
	fx.In

	Config  *config.Config
	Breaker *Breaker
	Logger  *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.MarketplaceURL, p.Breaker, p.Logger)
}
