package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/dgaraz/fulfillment/internal/adapter/marketplace"
	"github.com/dgaraz/fulfillment/internal/config"
	"github.com/dgaraz/fulfillment/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewOrderUseCase,
	NewInventoryUseCase,
	newReservationUseCase,
	NewSagaUseCase,
)

type reservationParams struct {
	fx.In

	Inventory repository.InventoryRepository
	Market    marketplace.Client
	Purchases repository.PurchaseLogRepository
	Config    *config.Config
	Logger    *slog.Logger
}

func newReservationUseCase(p reservationParams) *ReservationUseCase {
	return NewReservationUseCase(p.Inventory, p.Market, p.Purchases, p.Config.ProcureRounds, p.Logger)
}
