package trade

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/backend/internal/domain/shared/valueobject"
)

func TestLineCalculator_Compute(t *testing.T) {
	calc := NewLineCalculator(StandardCalcDefaults())

	t.Run("taxed line with explicit rate", func(t *testing.T) {
		info := ProductTaxInfo{
			ConversionFactor: decimal.NewFromInt(1),
			TaxRate:          decimal.NewFromInt(19),
			AppliesTax:       true,
			Margin:           decimal.NewFromInt(30),
		}

		figures, err := calc.Compute(info, decimal.NewFromInt(2), valueobject.NewMoneyFromFloat(100))
		require.NoError(t, err)

		assert.Equal(t, "200", figures.Subtotal.String())
		assert.Equal(t, "19", figures.UnitTax.String())
		assert.Equal(t, "38", figures.LineTax.String())
		assert.Equal(t, "238", figures.SubtotalWithTax.String())
		assert.Equal(t, "2", figures.ConvertedQuantity.String())
		assert.Equal(t, "130", figures.SuggestedResalePrice.String())
	})

	t.Run("untaxed line carries zero tax", func(t *testing.T) {
		info := ProductTaxInfo{AppliesTax: false}

		figures, err := calc.Compute(info, decimal.NewFromInt(3), valueobject.NewMoneyFromFloat(10))
		require.NoError(t, err)

		assert.True(t, figures.UnitTax.IsZero())
		assert.True(t, figures.LineTax.IsZero())
		assert.True(t, figures.SubtotalWithTax.Equal(figures.Subtotal))
	})

	t.Run("taxed line without rate falls back to default rate", func(t *testing.T) {
		info := ProductTaxInfo{AppliesTax: true}

		figures, err := calc.Compute(info, decimal.NewFromInt(1), valueobject.NewMoneyFromFloat(100))
		require.NoError(t, err)

		assert.Equal(t, "19", figures.UnitTax.String())
	})

	t.Run("conversion factor scales stock quantity", func(t *testing.T) {
		info := ProductTaxInfo{ConversionFactor: decimal.NewFromInt(12)}

		figures, err := calc.Compute(info, decimal.NewFromInt(3), valueobject.NewMoneyFromFloat(60))
		require.NoError(t, err)

		assert.Equal(t, "36", figures.ConvertedQuantity.String())
		assert.Equal(t, "180", figures.Subtotal.String())
	})

	t.Run("missing conversion factor falls back to default", func(t *testing.T) {
		figures, err := calc.Compute(ProductTaxInfo{}, decimal.NewFromInt(5), valueobject.NewMoneyFromFloat(2))
		require.NoError(t, err)

		assert.Equal(t, "5", figures.ConvertedQuantity.String())
	})

	t.Run("missing margin falls back to default margin", func(t *testing.T) {
		figures, err := calc.Compute(ProductTaxInfo{}, decimal.NewFromInt(1), valueobject.NewMoneyFromFloat(50))
		require.NoError(t, err)

		assert.Equal(t, "65", figures.SuggestedResalePrice.String())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := calc.Compute(ProductTaxInfo{}, decimal.Zero, valueobject.NewMoneyFromFloat(10))
		assert.Error(t, err)

		_, err = calc.Compute(ProductTaxInfo{}, decimal.NewFromInt(-1), valueobject.NewMoneyFromFloat(10))
		assert.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := calc.Compute(ProductTaxInfo{}, decimal.NewFromInt(1), valueobject.NewMoneyFromFloat(-0.01))
		assert.Error(t, err)
	})
}

// The tax identity must hold for arbitrary quantities, prices and rates:
// line tax equals the rounded per-unit tax times quantity, and the taxed
// subtotal equals subtotal plus line tax.
func TestLineCalculator_TaxIdentity(t *testing.T) {
	calc := NewLineCalculator(StandardCalcDefaults())
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		quantity := decimal.NewFromInt(int64(rng.Intn(999) + 1))
		price := decimal.NewFromInt(int64(rng.Intn(100000))).Div(decimal.NewFromInt(100))
		rate := decimal.NewFromInt(int64(rng.Intn(40) + 1))

		info := ProductTaxInfo{TaxRate: rate, AppliesTax: true}
		figures, err := calc.Compute(info, quantity, valueobject.NewMoney(price))
		require.NoError(t, err)

		expectedUnitTax := price.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
		assert.True(t, figures.UnitTax.Equal(expectedUnitTax),
			"unit tax mismatch: price=%s rate=%s got=%s", price, rate, figures.UnitTax)
		assert.True(t, figures.LineTax.Equal(figures.UnitTax.Mul(quantity).Round(2)),
			"line tax mismatch: qty=%s unitTax=%s got=%s", quantity, figures.UnitTax, figures.LineTax)
		assert.True(t, figures.SubtotalWithTax.Equal(figures.Subtotal.Add(figures.LineTax)),
			"taxed subtotal mismatch: subtotal=%s lineTax=%s got=%s", figures.Subtotal, figures.LineTax, figures.SubtotalWithTax)
	}
}

func TestLineCalculator_ServiceSubtotal(t *testing.T) {
	calc := NewLineCalculator(StandardCalcDefaults())

	t.Run("computes quantity times price", func(t *testing.T) {
		subtotal, err := calc.ServiceSubtotal(decimal.NewFromInt(3), valueobject.NewMoneyFromFloat(25.50))
		require.NoError(t, err)
		assert.Equal(t, "76.5", subtotal.String())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := calc.ServiceSubtotal(decimal.Zero, valueobject.NewMoneyFromFloat(10))
		assert.Error(t, err)
	})
}

func TestCalcDefaults_Fallbacks(t *testing.T) {
	defaults := StandardCalcDefaults()

	t.Run("empty unit falls back to the default unit", func(t *testing.T) {
		assert.Equal(t, "unit", defaults.UnitOrDefault(""))
		assert.Equal(t, "box", defaults.UnitOrDefault("box"))
	})

	t.Run("undeclared tax falls back to the default policy", func(t *testing.T) {
		rate, applies := defaults.TaxOrDefault(decimal.Zero, nil)
		assert.True(t, applies)
		assert.Equal(t, "19", rate.String())
	})

	t.Run("a declared rate implies the product is taxed", func(t *testing.T) {
		rate, applies := defaults.TaxOrDefault(decimal.NewFromInt(10), nil)
		assert.True(t, applies)
		assert.Equal(t, "10", rate.String())
	})

	t.Run("an explicit declaration always wins", func(t *testing.T) {
		exempt := false
		rate, applies := defaults.TaxOrDefault(decimal.Zero, &exempt)
		assert.False(t, applies)
		assert.True(t, rate.IsZero())
	})
}
