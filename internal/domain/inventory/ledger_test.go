package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopdesk/backend/internal/domain/shared"
)

func TestClampDelta(t *testing.T) {
	t.Run("inbound deltas pass through", func(t *testing.T) {
		applied, clamped, err := ClampDelta(ReversalPolicyStrict, decimal.Zero, decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.False(t, clamped)
		assert.Equal(t, "5", applied.String())
	})

	t.Run("covered outbound delta passes through", func(t *testing.T) {
		applied, clamped, err := ClampDelta(ReversalPolicyStrict, decimal.NewFromInt(10), decimal.NewFromInt(-10))
		require.NoError(t, err)
		assert.False(t, clamped)
		assert.Equal(t, "-10", applied.String())
	})

	t.Run("clamp policy floors stock at zero", func(t *testing.T) {
		applied, clamped, err := ClampDelta(ReversalPolicyClamp, decimal.NewFromInt(3), decimal.NewFromInt(-8))
		require.NoError(t, err)
		assert.True(t, clamped)
		assert.Equal(t, "-3", applied.String())
	})

	t.Run("strict policy rejects shortfall", func(t *testing.T) {
		_, _, err := ClampDelta(ReversalPolicyStrict, decimal.NewFromInt(3), decimal.NewFromInt(-8))
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestParseReversalPolicy(t *testing.T) {
	policy, err := ParseReversalPolicy("clamp")
	require.NoError(t, err)
	assert.Equal(t, ReversalPolicyClamp, policy)

	policy, err = ParseReversalPolicy("strict")
	require.NoError(t, err)
	assert.Equal(t, ReversalPolicyStrict, policy)

	_, err = ParseReversalPolicy("lenient")
	assert.Error(t, err)
}

func TestNewStockMovement(t *testing.T) {
	productID := uuid.New()
	refID := uuid.New()

	t.Run("creates movement", func(t *testing.T) {
		m, err := NewStockMovement(productID, MovementSaleOut,
			decimal.NewFromInt(-2), decimal.NewFromInt(8), false, refID, "SALE_ORDER", "")
		require.NoError(t, err)
		assert.Equal(t, MovementSaleOut, m.Type)
		assert.False(t, m.Type.IsInbound())
	})

	t.Run("allows zero quantity only when clamped", func(t *testing.T) {
		_, err := NewStockMovement(productID, MovementPurchaseReversal,
			decimal.Zero, decimal.Zero, false, refID, "PURCHASE_ORDER", "")
		assert.Error(t, err)

		_, err = NewStockMovement(productID, MovementPurchaseReversal,
			decimal.Zero, decimal.Zero, true, refID, "PURCHASE_ORDER", "")
		require.NoError(t, err)
	})

	t.Run("rejects unknown movement type", func(t *testing.T) {
		_, err := NewStockMovement(productID, MovementType("ADJUSTMENT"),
			decimal.NewFromInt(1), decimal.NewFromInt(1), false, refID, "ORDER", "")
		assert.Error(t, err)
	})

	t.Run("classifies inbound types", func(t *testing.T) {
		assert.True(t, MovementPurchaseIn.IsInbound())
		assert.True(t, MovementDevolutionIn.IsInbound())
		assert.True(t, MovementSaleReversal.IsInbound())
		assert.False(t, MovementPurchaseReversal.IsInbound())
	})
}
