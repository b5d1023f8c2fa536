package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dgaraz/fulfillment/internal/domain/model"
	"github.com/dgaraz/fulfillment/internal/server/http/dto"
)

const defaultHistoryLimit = 20

// PurchaseHandler serves the marketplace purchase history.
type PurchaseHandler struct {
	facade PurchaseFacade
}

// NewPurchaseHandler constructs PurchaseHandler.
func NewPurchaseHandler(facade PurchaseFacade) *PurchaseHandler {
	return &PurchaseHandler{facade: facade}
}

// Recent handles GET /api/purchase-history.
func (h *PurchaseHandler) Recent(c *gin.Context) {
	purchases, err := h.facade.RecentPurchases(c.Request.Context(), historyLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("could not load purchase history"))
		return
	}
	c.JSON(http.StatusOK, toPurchaseResponses(purchases))
}

// ByOrder handles GET /api/purchase-history/:orderID.
func (h *PurchaseHandler) ByOrder(c *gin.Context) {
	purchases, err := h.facade.OrderPurchases(c.Request.Context(), c.Param("orderID"), historyLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("could not load purchase history"))
		return
	}
	c.JSON(http.StatusOK, toPurchaseResponses(purchases))
}

func historyLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", ""))
	if err != nil || limit <= 0 {
		return defaultHistoryLimit
	}
	return limit
}

func toPurchaseResponses(purchases []model.Purchase) []dto.PurchaseResponse {
	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, purchase := range purchases {
		out = append(out, dto.ToPurchaseResponse(purchase))
	}
	return out
}
