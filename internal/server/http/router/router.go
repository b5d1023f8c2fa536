package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/dgaraz/fulfillment/internal/server/http/handlers"
	"github.com/dgaraz/fulfillment/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.FulfillmentFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	callbackHandler := handlers.NewCallbackHandler(facade)
	inventoryHandler := handlers.NewInventoryHandler(facade)
	purchaseHandler := handlers.NewPurchaseHandler(facade)

	api := engine.Group("/api")

	orders := api.Group("/orders")
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.GET("/status/:status", orderHandler.ListByStatus)
	orders.POST("/:id/deliver", orderHandler.Deliver)

	callbacks := api.Group("/callbacks")
	callbacks.POST("/kitchen-completed", callbackHandler.KitchenCompleted)
	callbacks.POST("/warehouse-completed", callbackHandler.WarehouseCompleted)
	callbacks.POST("/marketplace-completed", callbackHandler.MarketplaceCompleted)
	callbacks.POST("/order-ready", callbackHandler.OrderReady)

	inventory := api.Group("/inventory")
	inventory.GET("", inventoryHandler.List)
	inventory.GET("/:ingredient", inventoryHandler.Get)
	inventory.POST("/initialize", inventoryHandler.Initialize)
	api.POST("/add-stock", inventoryHandler.AddStock)
	api.POST("/check-inventory", inventoryHandler.Check)
	api.POST("/reserve-ingredients", inventoryHandler.Reserve)
	api.POST("/consume-ingredients", inventoryHandler.Consume)

	api.GET("/purchase-history", purchaseHandler.Recent)
	api.GET("/purchase-history/:orderID", purchaseHandler.ByOrder)

	return engine
}
