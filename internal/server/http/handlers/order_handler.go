package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/dgaraz/fulfillment/internal/domain/errors"
	"github.com/dgaraz/fulfillment/internal/domain/model"
	"github.com/dgaraz/fulfillment/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders. Fulfillment runs in the background; the
// response carries the accepted order in pending status.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Fail("invalid request body"))
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), req.Quantity, req.CustomerName)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidQuantity) {
			c.JSON(http.StatusUnprocessableEntity, dto.Fail("quantity must be between 1 and 100"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Fail("could not create order"))
		return
	}

	go func() {
		_ = h.facade.ProcessOrder(context.WithoutCancel(c.Request.Context()), order)
	}()

	c.JSON(http.StatusAccepted, dto.ToOrderResponse(*order))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("order not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Fail("could not load order"))
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("could not list orders"))
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// ListByStatus handles GET /api/orders/status/:status.
func (h *OrderHandler) ListByStatus(c *gin.Context) {
	status := model.OrderStatus(c.Param("status"))
	orders, err := h.facade.OrdersByStatus(c.Request.Context(), status)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidStatus) {
			c.JSON(http.StatusUnprocessableEntity, dto.Fail("unknown order status"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Fail("could not list orders"))
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Deliver handles POST /api/orders/:id/deliver.
func (h *OrderHandler) Deliver(c *gin.Context) {
	err := h.facade.DeliverOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Fail("order not found"))
		case errors.Is(err, domainErrors.ErrInvalidTransition):
			c.JSON(http.StatusConflict, dto.Fail("order is not ready for delivery"))
		default:
			c.JSON(http.StatusInternalServerError, dto.Fail("could not deliver order"))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OK("order delivered"))
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, dto.ToOrderResponse(order))
	}
	return out
}
