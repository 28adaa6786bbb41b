package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// MovementType classifies the business cause of a stock movement
type MovementType string

const (
	MovementPurchaseIn       MovementType = "PURCHASE_IN"       // Purchase order became effective
	MovementPurchaseReversal MovementType = "PURCHASE_REVERSAL" // Purchase order cancelled or line removed
	MovementSaleOut          MovementType = "SALE_OUT"          // Sale order became effective
	MovementSaleReversal     MovementType = "SALE_REVERSAL"     // Effective sale cancelled
	MovementDevolutionIn     MovementType = "DEVOLUTION_IN"     // Customer returned goods
)

// IsValid checks if the type is a valid MovementType
func (m MovementType) IsValid() bool {
	switch m {
	case MovementPurchaseIn, MovementPurchaseReversal, MovementSaleOut, MovementSaleReversal, MovementDevolutionIn:
		return true
	}
	return false
}

// IsInbound returns true for movement types that increase stock
func (m MovementType) IsInbound() bool {
	switch m {
	case MovementPurchaseIn, MovementSaleReversal, MovementDevolutionIn:
		return true
	}
	return false
}

// StockMovement is one append-only audit row per stock mutation.
// Movements are never updated or deleted; ResultingStock snapshots the
// product's stock right after the mutation was applied.
type StockMovement struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type           MovementType    `gorm:"type:varchar(30);not null;index"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed delta in base units
	ResultingStock decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Clamped        bool            `gorm:"not null"`                 // Delta was cut short by the zero floor
	ReferenceID    uuid.UUID       `gorm:"type:uuid;not null;index"` // Order that caused the movement
	ReferenceType  string          `gorm:"type:varchar(30);not null"`
	Remark         string          `gorm:"type:varchar(500)"`
	CreatedAt      time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates an audit row for an applied stock mutation
func NewStockMovement(
	productID uuid.UUID,
	movementType MovementType,
	quantity, resultingStock decimal.Decimal,
	clamped bool,
	referenceID uuid.UUID,
	referenceType, remark string,
) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type")
	}
	if quantity.IsZero() && !clamped {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity cannot be zero")
	}
	if referenceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Movement reference cannot be empty")
	}

	return &StockMovement{
		ID:             uuid.New(),
		ProductID:      productID,
		Type:           movementType,
		Quantity:       quantity,
		ResultingStock: resultingStock,
		Clamped:        clamped,
		ReferenceID:    referenceID,
		ReferenceType:  referenceType,
		Remark:         remark,
		CreatedAt:      time.Now(),
	}, nil
}
