package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/shopdesk/backend/internal/application/inventory"
)

// StockMovementHandler exposes the stock movement audit trail
type StockMovementHandler struct {
	BaseHandler
	movements *inventoryapp.Service
}

// NewStockMovementHandler creates a new StockMovementHandler
func NewStockMovementHandler(movements *inventoryapp.Service) *StockMovementHandler {
	return &StockMovementHandler{movements: movements}
}

// RegisterRoutes wires stock movement endpoints onto the API group
func (h *StockMovementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/products/:id/movements", h.ListByProduct)
	rg.GET("/stock-movements/by-reference/:id", h.ListByReference)
}

// ListByProduct handles GET /api/v1/products/:id/movements
func (h *StockMovementHandler) ListByProduct(c *gin.Context) {
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid product ID")
		return
	}

	movements, err := h.movements.ListByProduct(c.Request.Context(), productID, parseFilter(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}

// ListByReference handles GET /api/v1/stock-movements/by-reference/:id
func (h *StockMovementHandler) ListByReference(c *gin.Context) {
	referenceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid reference ID")
		return
	}

	movements, err := h.movements.ListByReference(c.Request.Context(), referenceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, movements)
}
