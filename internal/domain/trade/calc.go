package trade

import (
	"github.com/shopspring/decimal"

	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/shared/valueobject"
)

// CalcDefaults is the single default policy applied when product tax/unit
// metadata is missing. Purchase and sale paths share the same instance.
type CalcDefaults struct {
	Unit             string
	ConversionFactor decimal.Decimal
	TaxRate          decimal.Decimal // Percent
	AppliesTax       bool
	Margin           decimal.Decimal // Percent
}

// StandardCalcDefaults returns the shop-wide default metadata:
// base unit, conversion factor 1, 19% tax, 30% resale margin.
func StandardCalcDefaults() CalcDefaults {
	return CalcDefaults{
		Unit:             "unit",
		ConversionFactor: decimal.NewFromInt(1),
		TaxRate:          decimal.NewFromInt(19),
		AppliesTax:       true,
		Margin:           decimal.NewFromInt(30),
	}
}

// UnitOrDefault returns unit, or the default unit name when empty
func (d CalcDefaults) UnitOrDefault(unit string) string {
	if unit != "" {
		return unit
	}
	return d.Unit
}

// TaxOrDefault returns the given tax configuration, falling back to the
// default tax policy when none is declared at all
func (d CalcDefaults) TaxOrDefault(rate decimal.Decimal, applies *bool) (decimal.Decimal, bool) {
	if applies != nil {
		return rate, *applies
	}
	if rate.GreaterThan(decimal.Zero) {
		return rate, true
	}
	return d.TaxRate, d.AppliesTax
}

// ProductTaxInfo carries the product metadata the calculator needs.
// Zero values mean "not set" and fall back to the calculator defaults.
type ProductTaxInfo struct {
	ConversionFactor decimal.Decimal
	TaxRate          decimal.Decimal // Percent
	AppliesTax       bool
	Margin           decimal.Decimal // Percent
}

// LineFigures holds the derived financial values of a single product line.
// All amounts are rounded to 2 decimal places with standard rounding.
type LineFigures struct {
	ConvertedQuantity    decimal.Decimal // Quantity in base stock units
	Subtotal             decimal.Decimal // Quantity * UnitPrice
	UnitTax              decimal.Decimal // Tax per unit
	LineTax              decimal.Decimal // UnitTax * Quantity
	SubtotalWithTax      decimal.Decimal // Subtotal + LineTax
	SuggestedResalePrice decimal.Decimal // UnitPrice * (1 + Margin/100)
}

// LineCalculator derives per-line financial values from product metadata.
// It is a pure function set; the same calculator serves purchase lines,
// sale lines and devolution lines.
type LineCalculator struct {
	defaults CalcDefaults
}

// NewLineCalculator creates a LineCalculator with the given default policy
func NewLineCalculator(defaults CalcDefaults) *LineCalculator {
	if defaults.ConversionFactor.LessThanOrEqual(decimal.Zero) {
		defaults.ConversionFactor = decimal.NewFromInt(1)
	}
	return &LineCalculator{defaults: defaults}
}

// Defaults returns the default policy in effect
func (c *LineCalculator) Defaults() CalcDefaults {
	return c.defaults
}

// Compute derives all line figures for a product line.
// The unit price is the caller's override or the product's own price;
// the calculator does not decide which.
func (c *LineCalculator) Compute(info ProductTaxInfo, quantity decimal.Decimal, unitPrice valueobject.Money) (LineFigures, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return LineFigures{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return LineFigures{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	conversion := info.ConversionFactor
	if conversion.LessThanOrEqual(decimal.Zero) {
		conversion = c.defaults.ConversionFactor
	}

	margin := info.Margin
	if margin.LessThanOrEqual(decimal.Zero) {
		margin = c.defaults.Margin
	}

	price := unitPrice.Amount()
	subtotal := quantity.Mul(price).Round(2)

	unitTax := decimal.Zero
	if info.AppliesTax {
		rate := info.TaxRate
		if rate.LessThanOrEqual(decimal.Zero) {
			rate = c.defaults.TaxRate
		}
		unitTax = price.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	}
	lineTax := unitTax.Mul(quantity).Round(2)

	return LineFigures{
		ConvertedQuantity:    quantity.Mul(conversion).Round(2),
		Subtotal:             subtotal,
		UnitTax:              unitTax,
		LineTax:              lineTax,
		SubtotalWithTax:      subtotal.Add(lineTax),
		SuggestedResalePrice: price.Mul(decimal.NewFromInt(100).Add(margin)).Div(decimal.NewFromInt(100)).Round(2),
	}, nil
}

// ServiceSubtotal computes the subtotal of a service line.
// Service lines never carry tax and have no stock effect.
func (c *LineCalculator) ServiceSubtotal(quantity decimal.Decimal, unitPrice valueobject.Money) (decimal.Decimal, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return quantity.Mul(unitPrice.Amount()).Round(2), nil
}
