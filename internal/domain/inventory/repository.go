package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// StockMovementRepository defines read and append operations for the
// movement audit trail. Movements are append-only.
type StockMovementRepository interface {
	Append(ctx context.Context, movement *StockMovement) error
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]*StockMovement, error)
	FindByReference(ctx context.Context, referenceID uuid.UUID) ([]*StockMovement, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
