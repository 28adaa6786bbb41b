package handler

import (
	"github.com/gin-gonic/gin"

	partnerapp "github.com/shopdesk/backend/internal/application/partner"
)

// PartnerHandler handles supplier and customer API endpoints
type PartnerHandler struct {
	BaseHandler
	partners *partnerapp.Service
}

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(partners *partnerapp.Service) *PartnerHandler {
	return &PartnerHandler{partners: partners}
}

// RegisterRoutes wires supplier and customer endpoints onto the API group
func (h *PartnerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/suppliers", h.CreateSupplier)
	rg.GET("/suppliers/:id", h.GetSupplier)
	rg.POST("/customers", h.CreateCustomer)
	rg.GET("/customers/:id", h.GetCustomer)
}

// CreateSupplier handles POST /api/v1/suppliers
func (h *PartnerHandler) CreateSupplier(c *gin.Context) {
	var req partnerapp.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	supplier, err := h.partners.CreateSupplier(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, supplier)
}

// GetSupplier handles GET /api/v1/suppliers/:id
func (h *PartnerHandler) GetSupplier(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid supplier ID")
		return
	}

	supplier, err := h.partners.GetSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, supplier)
}

// CreateCustomer handles POST /api/v1/customers
func (h *PartnerHandler) CreateCustomer(c *gin.Context) {
	var req partnerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	customer, err := h.partners.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetCustomer handles GET /api/v1/customers/:id
func (h *PartnerHandler) GetCustomer(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid customer ID")
		return
	}

	customer, err := h.partners.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}
