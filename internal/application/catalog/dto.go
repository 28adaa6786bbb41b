package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/backend/internal/domain/catalog"
)

// CreateProductRequest registers a new product
type CreateProductRequest struct {
	Code             string          `json:"code" binding:"required,max=50"`
	Name             string          `json:"name" binding:"required,max=200"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	ResalePrice      decimal.Decimal `json:"resale_price"`
	Unit             string          `json:"unit" binding:"max=20"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	AppliesTax       *bool           `json:"applies_tax,omitempty"` // Omitted means shop default
	Margin           decimal.Decimal `json:"margin"`
}

// UpdateProductRequest applies partial changes to a product
type UpdateProductRequest struct {
	Name             *string          `json:"name,omitempty"`
	PurchasePrice    *decimal.Decimal `json:"purchase_price,omitempty"`
	ResalePrice      *decimal.Decimal `json:"resale_price,omitempty"`
	Unit             *string          `json:"unit,omitempty"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor,omitempty"`
	TaxRate          *decimal.Decimal `json:"tax_rate,omitempty"`
	AppliesTax       *bool            `json:"applies_tax,omitempty"`
	Margin           *decimal.Decimal `json:"margin,omitempty"`
	Active           *bool            `json:"active,omitempty"`
}

// CreateServiceRequest registers a new sellable service
type CreateServiceRequest struct {
	Code  string          `json:"code" binding:"required,max=50"`
	Name  string          `json:"name" binding:"required,max=200"`
	Price decimal.Decimal `json:"price"`
}

// ProductResponse is the API shape of a product
type ProductResponse struct {
	ID               uuid.UUID       `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Stock            decimal.Decimal `json:"stock"`
	PurchasePrice    decimal.Decimal `json:"purchase_price"`
	ResalePrice      decimal.Decimal `json:"resale_price"`
	Unit             string          `json:"unit"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	AppliesTax       bool            `json:"applies_tax"`
	Margin           decimal.Decimal `json:"margin"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ServiceResponse is the API shape of a sellable service
type ServiceResponse struct {
	ID        uuid.UUID       `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToProductResponse maps a product aggregate to its API shape
func ToProductResponse(p *catalog.Product) *ProductResponse {
	return &ProductResponse{
		ID:               p.ID,
		Code:             p.Code,
		Name:             p.Name,
		Stock:            p.Stock,
		PurchasePrice:    p.PurchasePrice,
		ResalePrice:      p.ResalePrice,
		Unit:             p.Unit,
		ConversionFactor: p.ConversionFactor,
		TaxRate:          p.TaxRate,
		AppliesTax:       p.AppliesTax,
		Margin:           p.Margin,
		Active:           p.Active,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToServiceResponse maps a service aggregate to its API shape
func ToServiceResponse(s *catalog.Service) *ServiceResponse {
	return &ServiceResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Price:     s.Price,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
	}
}
