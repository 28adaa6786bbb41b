package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// ReversalPolicy controls what happens when a downward stock mutation
// would push stock below zero.
type ReversalPolicy string

const (
	// ReversalPolicyClamp applies as much of the delta as stock allows and
	// records the movement as clamped.
	ReversalPolicyClamp ReversalPolicy = "clamp"
	// ReversalPolicyStrict rejects the mutation outright.
	ReversalPolicyStrict ReversalPolicy = "strict"
)

// IsValid checks if the policy is a known ReversalPolicy
func (p ReversalPolicy) IsValid() bool {
	return p == ReversalPolicyClamp || p == ReversalPolicyStrict
}

// ParseReversalPolicy parses a policy name from configuration
func ParseReversalPolicy(s string) (ReversalPolicy, error) {
	policy := ReversalPolicy(s)
	if !policy.IsValid() {
		return "", shared.NewDomainError("INVALID_REVERSAL_POLICY", "Reversal policy must be clamp or strict")
	}
	return policy, nil
}

// MovementInfo describes the business cause of a stock mutation
type MovementInfo struct {
	Type          MovementType
	ReferenceID   uuid.UUID
	ReferenceType string
	Remark        string
}

// ApplyResult reports what a ledger mutation actually did
type ApplyResult struct {
	Applied        decimal.Decimal // Delta actually applied; may be smaller than requested when clamped
	ResultingStock decimal.Decimal
	Clamped        bool
}

// Ledger is the single gateway through which product stock changes.
// Implementations must make each Apply atomic with respect to concurrent
// mutations of the same product and must write the audit movement in the
// same transaction as the stock update.
type Ledger interface {
	// Apply mutates the product's stock by delta (positive for inbound,
	// negative for outbound) and records a StockMovement. A negative delta
	// that would drop stock below zero is clamped or rejected according to
	// the ledger's reversal policy.
	Apply(ctx context.Context, productID uuid.UUID, delta decimal.Decimal, info MovementInfo) (ApplyResult, error)
}

// ClampDelta resolves a requested delta against current stock under the
// given policy. It returns the delta to apply and whether it was clamped,
// or ErrInsufficientStock when the policy is strict and stock is short.
func ClampDelta(policy ReversalPolicy, currentStock, delta decimal.Decimal) (decimal.Decimal, bool, error) {
	if delta.GreaterThanOrEqual(decimal.Zero) {
		return delta, false, nil
	}

	projected := currentStock.Add(delta)
	if projected.GreaterThanOrEqual(decimal.Zero) {
		return delta, false, nil
	}

	if policy == ReversalPolicyStrict {
		return decimal.Zero, false, shared.ErrInsufficientStock
	}
	// Clamp: take stock to exactly zero.
	return currentStock.Neg(), true, nil
}
