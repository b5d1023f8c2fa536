package kitchen

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/dgaraz/fulfillment/internal/config"
)

// Module exposes kitchen client implementation to fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.KitchenURL, p.Logger)
}
