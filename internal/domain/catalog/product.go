package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/shared/valueobject"
)

// Product represents a stocked product in the catalog.
// Stock is mutated exclusively through the inventory ledger; the resale
// price may additionally be overwritten by purchase order lines that opt in.
type Product struct {
	shared.BaseAggregateRoot
	Code             string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name             string          `gorm:"type:varchar(200);not null"`
	Stock            decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PurchasePrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Cost per purchase unit
	ResalePrice      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Selling price per base unit
	Unit             string          `gorm:"type:varchar(20);not null;default:'unit'"`
	ConversionFactor decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1"` // Base units per purchase unit
	TaxRate          decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`  // Percent
	AppliesTax       bool            `gorm:"not null;default:false"`
	Margin           decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"` // Percent over purchase cost
	Active           bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name string, purchasePrice, resalePrice valueobject.Money) (*Product, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	if resalePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Resale price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Stock:             decimal.Zero,
		PurchasePrice:     purchasePrice.Amount(),
		ResalePrice:       resalePrice.Amount(),
		Unit:              "unit",
		ConversionFactor:  decimal.NewFromInt(1),
		TaxRate:           decimal.Zero,
		AppliesTax:        false,
		Margin:            decimal.Zero,
		Active:            true,
	}, nil
}

// SetUnit sets the purchase unit and conversion factor to the base unit
func (p *Product) SetUnit(unit string, conversionFactor decimal.Decimal) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if conversionFactor.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_CONVERSION_FACTOR", "Conversion factor must be positive")
	}

	p.Unit = unit
	p.ConversionFactor = conversionFactor
	p.Touch()
	p.IncrementVersion()

	return nil
}

// SetTax sets the tax rate and whether the product is taxed at all
func (p *Product) SetTax(rate decimal.Decimal, applies bool) error {
	if rate.IsNegative() {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}

	p.TaxRate = rate
	p.AppliesTax = applies
	p.Touch()
	p.IncrementVersion()

	return nil
}

// SetMargin sets the resale margin percent over the purchase cost
func (p *Product) SetMargin(margin decimal.Decimal) error {
	if margin.IsNegative() {
		return shared.NewDomainError("INVALID_MARGIN", "Margin cannot be negative")
	}

	p.Margin = margin
	p.Touch()
	p.IncrementVersion()

	return nil
}

// SetResalePrice overwrites the selling price
func (p *Product) SetResalePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Resale price cannot be negative")
	}

	p.ResalePrice = price.Amount()
	p.Touch()
	p.IncrementVersion()

	return nil
}

// SetPurchasePrice updates the purchase cost
func (p *Product) SetPurchasePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}

	p.PurchasePrice = price.Amount()
	p.Touch()
	p.IncrementVersion()

	return nil
}

// Deactivate marks the product as no longer sellable
func (p *Product) Deactivate() {
	p.Active = false
	p.Touch()
	p.IncrementVersion()
}

// Activate marks the product as sellable again
func (p *Product) Activate() {
	p.Active = true
	p.Touch()
	p.IncrementVersion()
}

// HasStock returns true if any stock is available
func (p *Product) HasStock() bool {
	return p.Stock.GreaterThan(decimal.Zero)
}

// CanFulfill returns true if current stock covers the requested quantity.
// This is an advisory check only; the ledger enforces the floor at commit time.
func (p *Product) CanFulfill(quantity decimal.Decimal) bool {
	return p.Stock.GreaterThanOrEqual(quantity)
}

// GetResalePriceMoney returns the resale price as Money
func (p *Product) GetResalePriceMoney() valueobject.Money {
	return valueobject.NewMoney(p.ResalePrice)
}

// GetPurchasePriceMoney returns the purchase cost as Money
func (p *Product) GetPurchasePriceMoney() valueobject.Money {
	return valueobject.NewMoney(p.PurchasePrice)
}
