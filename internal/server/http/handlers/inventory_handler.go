package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/dgaraz/fulfillment/internal/domain/errors"
	"github.com/dgaraz/fulfillment/internal/server/http/dto"
)

// InventoryHandler manages warehouse stock endpoints.
type InventoryHandler struct {
	facade InventoryFacade
}

// NewInventoryHandler constructs InventoryHandler.
func NewInventoryHandler(facade InventoryFacade) *InventoryHandler {
	return &InventoryHandler{facade: facade}
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(c *gin.Context) {
	records, err := h.facade.Inventory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("could not list inventory"))
		return
	}
	out := make([]dto.InventoryRecordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, dto.ToInventoryRecordResponse(record))
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/inventory/:ingredient.
func (h *InventoryHandler) Get(c *gin.Context) {
	record, err := h.facade.Ingredient(c.Request.Context(), c.Param("ingredient"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("ingredient not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.Fail("could not load ingredient"))
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryRecordResponse(*record))
}

// AddStock handles POST /api/add-stock.
func (h *InventoryHandler) AddStock(c *gin.Context) {
	req, ok := bindIngredients(c)
	if !ok {
		return
	}
	if err := h.facade.AddStock(c.Request.Context(), req.Ingredients); err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("could not add stock"))
		return
	}
	c.JSON(http.StatusOK, dto.OK("stock added"))
}

// Check handles POST /api/check-inventory.
func (h *InventoryHandler) Check(c *gin.Context) {
	req, ok := bindIngredients(c)
	if !ok {
		return
	}
	analysis, err := h.facade.CheckInventory(c.Request.Context(), req.Ingredients)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("could not check inventory"))
		return
	}
	c.JSON(http.StatusOK, dto.InventoryCheckResponse{
		Sufficient: analysis.Sufficient,
		Missing:    analysis.Missing,
		Available:  analysis.Available,
	})
}

// Reserve handles POST /api/reserve-ingredients.
func (h *InventoryHandler) Reserve(c *gin.Context) {
	req, ok := bindIngredients(c)
	if !ok {
		return
	}
	if err := h.facade.ReserveIngredients(c.Request.Context(), req.Ingredients); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInsufficientStock), errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusConflict, dto.Fail("insufficient stock"))
		default:
			c.JSON(http.StatusInternalServerError, dto.Fail("could not reserve ingredients"))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OK("ingredients reserved"))
}

// Consume handles POST /api/consume-ingredients.
func (h *InventoryHandler) Consume(c *gin.Context) {
	req, ok := bindIngredients(c)
	if !ok {
		return
	}
	if err := h.facade.ConsumeIngredients(c.Request.Context(), req.Ingredients); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrOverConsumption):
			c.JSON(http.StatusConflict, dto.Fail("consumption exceeds reserved stock"))
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Fail("ingredient not found"))
		default:
			c.JSON(http.StatusInternalServerError, dto.Fail("could not consume ingredients"))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OK("ingredients consumed"))
}

// Initialize handles POST /api/inventory/initialize.
func (h *InventoryHandler) Initialize(c *gin.Context) {
	if err := h.facade.InitializeInventory(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, dto.Fail("could not initialize inventory"))
		return
	}
	c.JSON(http.StatusOK, dto.OK("inventory initialized"))
}

func bindIngredients(c *gin.Context) (dto.IngredientsRequest, bool) {
	var req dto.IngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Ingredients) == 0 {
		c.JSON(http.StatusBadRequest, dto.Fail("ingredients map is required"))
		return req, false
	}
	for ingredient, amount := range req.Ingredients {
		if ingredient == "" || amount <= 0 {
			c.JSON(http.StatusUnprocessableEntity, dto.Fail("amounts must be positive"))
			return req, false
		}
	}
	return req, true
}
