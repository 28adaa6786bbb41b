package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines persistence operations for purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*PurchaseOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*PurchaseOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	// SaveWithLock persists the order only if the stored version still
	// matches expectedVersion, returning ErrConcurrencyConflict otherwise.
	SaveWithLock(ctx context.Context, order *PurchaseOrder, expectedVersion int) error
	Delete(ctx context.Context, id uuid.UUID) error
	// NextOrderNumber atomically reserves the next number in the purchase
	// order sequence.
	NextOrderNumber(ctx context.Context) (string, error)
}

// SaleOrderRepository defines persistence operations for sales and devolutions
type SaleOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SaleOrder, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*SaleOrder, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*SaleOrder, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *SaleOrder) error
	SaveWithLock(ctx context.Context, order *SaleOrder, expectedVersion int) error
	// NextOrderNumber atomically reserves the next number in the sequence
	// for the given order type.
	NextOrderNumber(ctx context.Context, orderType SaleOrderType) (string, error)
	// SumReturnedByProduct totals, per product, the quantities on effective
	// devolutions that reference the given original order.
	SumReturnedByProduct(ctx context.Context, originalOrderID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}
