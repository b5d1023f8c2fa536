package di

import (
	"go.uber.org/fx"

	"github.com/dgaraz/fulfillment/internal/adapter/kitchen"
	"github.com/dgaraz/fulfillment/internal/adapter/marketplace"
	"github.com/dgaraz/fulfillment/internal/app"
	"github.com/dgaraz/fulfillment/internal/config"
	"github.com/dgaraz/fulfillment/internal/logger"
	"github.com/dgaraz/fulfillment/internal/server/http/handlers"
	"github.com/dgaraz/fulfillment/internal/server/http/router"
	"github.com/dgaraz/fulfillment/internal/storage/postgres"
	"github.com/dgaraz/fulfillment/internal/storage/redislog"
	"github.com/dgaraz/fulfillment/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		redislog.Module,
		kitchen.Module,
		marketplace.Module,
		usecase.Module,
		fx.Provide(func(facade *app.FulfillmentFacade) handlers.FulfillmentFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
