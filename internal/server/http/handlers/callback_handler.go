package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/dgaraz/fulfillment/internal/domain/errors"
	"github.com/dgaraz/fulfillment/internal/domain/model"
	"github.com/dgaraz/fulfillment/internal/server/http/dto"
)

// CallbackHandler receives saga callbacks from the kitchen, warehouse and
// marketplace. Senders deliver at-least-once, so every endpoint answers 200
// for callbacks the saga chose to ignore.
type CallbackHandler struct {
	facade CallbackFacade
}

// NewCallbackHandler constructs CallbackHandler.
func NewCallbackHandler(facade CallbackFacade) *CallbackHandler {
	return &CallbackHandler{facade: facade}
}

// KitchenCompleted handles POST /api/callbacks/kitchen-completed.
func (h *CallbackHandler) KitchenCompleted(c *gin.Context) {
	var req dto.KitchenCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid callback payload"))
		return
	}
	h.respond(c, h.facade.KitchenCompleted(c.Request.Context(), req.OrderID, req.Recipes))
}

// WarehouseCompleted handles POST /api/callbacks/warehouse-completed.
func (h *CallbackHandler) WarehouseCompleted(c *gin.Context) {
	var req dto.WarehouseCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid callback payload"))
		return
	}
	h.respond(c, h.facade.WarehouseCompleted(c.Request.Context(), req.OrderID, model.InventoryVerdict(req.Verdict), req.Missing))
}

// MarketplaceCompleted handles POST /api/callbacks/marketplace-completed.
func (h *CallbackHandler) MarketplaceCompleted(c *gin.Context) {
	var req dto.MarketplaceCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Success == nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid callback payload"))
		return
	}
	h.respond(c, h.facade.MarketplaceCompleted(c.Request.Context(), req.OrderID, *req.Success))
}

// OrderReady handles POST /api/callbacks/order-ready.
func (h *CallbackHandler) OrderReady(c *gin.Context) {
	var req dto.OrderReadyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid callback payload"))
		return
	}
	h.respond(c, h.facade.OrderReady(c.Request.Context(), req.OrderID))
}

func (h *CallbackHandler) respond(c *gin.Context, err error) {
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Fail("callback processing failed"))
		return
	}
	c.JSON(http.StatusOK, dto.OK("callback accepted"))
}
