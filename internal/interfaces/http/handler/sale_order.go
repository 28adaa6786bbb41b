package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tradeapp "github.com/shopdesk/backend/internal/application/trade"
)

// SaleOrderHandler handles sale and devolution API endpoints
type SaleOrderHandler struct {
	BaseHandler
	sales *tradeapp.SaleOrderService
}

// NewSaleOrderHandler creates a new SaleOrderHandler
func NewSaleOrderHandler(sales *tradeapp.SaleOrderService) *SaleOrderHandler {
	return &SaleOrderHandler{sales: sales}
}

// RegisterRoutes wires sale and devolution endpoints onto the API group
func (h *SaleOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.Create)
		sales.GET("", h.List)
		sales.GET("/:id", h.Get)
		sales.PATCH("/:id/status", h.ChangeStatus)
	}
	rg.POST("/devolutions", h.CreateDevolution)
}

// Create handles POST /api/v1/sales
func (h *SaleOrderHandler) Create(c *gin.Context) {
	var req tradeapp.CreateSaleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.sales.CreateSale(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// CreateDevolution handles POST /api/v1/devolutions
func (h *SaleOrderHandler) CreateDevolution(c *gin.Context) {
	var req tradeapp.CreateDevolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.sales.CreateDevolution(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Get handles GET /api/v1/sales/:id
func (h *SaleOrderHandler) Get(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	order, err := h.sales.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// List handles GET /api/v1/sales
func (h *SaleOrderHandler) List(c *gin.Context) {
	filter := parseFilter(c)
	if orderType := c.Query("type"); orderType != "" {
		filter.Filters["type"] = orderType
	}
	if customerID, err := uuid.Parse(c.Query("customer_id")); err == nil {
		filter.Filters["customer_id"] = customerID
	}

	orders, total, err := h.sales.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// ChangeStatus handles PATCH /api/v1/sales/:id/status
func (h *SaleOrderHandler) ChangeStatus(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req tradeapp.ChangeSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.sales.ChangeStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
