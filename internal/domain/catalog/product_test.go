package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/backend/internal/domain/shared/valueobject"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("PROD-001", "Dog Food 20kg", valueobject.NewMoneyFromFloat(100), valueobject.NewMoneyFromFloat(130))
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("creates product with defaults", func(t *testing.T) {
		p := newTestProduct(t)

		assert.Equal(t, "PROD-001", p.Code)
		assert.True(t, p.Stock.IsZero())
		assert.Equal(t, "unit", p.Unit)
		assert.True(t, p.ConversionFactor.Equal(decimal.NewFromInt(1)))
		assert.False(t, p.AppliesTax)
		assert.True(t, p.Active)
		assert.Equal(t, 1, p.Version)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewProduct("", "Name", valueobject.Zero(), valueobject.Zero())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "code cannot be empty")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct("P", "Name", valueobject.NewMoneyFromFloat(-1), valueobject.Zero())
		assert.Error(t, err)
	})
}

func TestProduct_SetUnit(t *testing.T) {
	t.Run("sets unit and conversion factor", func(t *testing.T) {
		p := newTestProduct(t)

		require.NoError(t, p.SetUnit("box", decimal.NewFromInt(12)))
		assert.Equal(t, "box", p.Unit)
		assert.True(t, p.ConversionFactor.Equal(decimal.NewFromInt(12)))
		assert.Equal(t, 2, p.Version)
	})

	t.Run("rejects non-positive conversion factor", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Error(t, p.SetUnit("box", decimal.Zero))
	})
}

func TestProduct_SetTax(t *testing.T) {
	p := newTestProduct(t)

	require.NoError(t, p.SetTax(decimal.NewFromInt(19), true))
	assert.True(t, p.AppliesTax)
	assert.True(t, p.TaxRate.Equal(decimal.NewFromInt(19)))

	assert.Error(t, p.SetTax(decimal.NewFromInt(-1), true))
}

func TestProduct_SetResalePrice(t *testing.T) {
	p := newTestProduct(t)

	require.NoError(t, p.SetResalePrice(valueobject.NewMoneyFromFloat(150)))
	assert.Equal(t, "150.00", p.GetResalePriceMoney().String())

	assert.Error(t, p.SetResalePrice(valueobject.NewMoneyFromFloat(-5)))
}

func TestProduct_CanFulfill(t *testing.T) {
	p := newTestProduct(t)
	p.Stock = decimal.NewFromInt(10)

	assert.True(t, p.CanFulfill(decimal.NewFromInt(10)))
	assert.False(t, p.CanFulfill(decimal.NewFromInt(11)))
	assert.True(t, p.HasStock())
}

func TestNewService(t *testing.T) {
	t.Run("creates service", func(t *testing.T) {
		s, err := NewService("SRV-001", "Grooming", valueobject.NewMoneyFromFloat(25))
		require.NoError(t, err)
		assert.Equal(t, "25.00", s.GetPriceMoney().String())
		assert.True(t, s.Active)
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewService("SRV-002", "Repair", valueobject.NewMoneyFromFloat(-1))
		assert.Error(t, err)
	})
}
