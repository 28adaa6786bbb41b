package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/backend/internal/domain/inventory"
	"github.com/shopdesk/backend/internal/domain/shared"
)

// MovementResponse is the API shape of a stock movement audit row
type MovementResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	ResultingStock decimal.Decimal `json:"resulting_stock"`
	Clamped        bool            `json:"clamped,omitempty"`
	ReferenceID    uuid.UUID       `json:"reference_id"`
	ReferenceType  string          `json:"reference_type"`
	Remark         string          `json:"remark,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Service exposes read access to the stock movement audit trail
type Service struct {
	movements inventory.StockMovementRepository
}

// NewService creates an inventory Service
func NewService(movements inventory.StockMovementRepository) *Service {
	return &Service{movements: movements}
}

// ListByProduct fetches a page of movements for one product
func (s *Service) ListByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]*MovementResponse, error) {
	movements, err := s.movements.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	return toResponses(movements), nil
}

// ListByReference fetches every movement caused by one order
func (s *Service) ListByReference(ctx context.Context, referenceID uuid.UUID) ([]*MovementResponse, error) {
	movements, err := s.movements.FindByReference(ctx, referenceID)
	if err != nil {
		return nil, err
	}
	return toResponses(movements), nil
}

func toResponses(movements []*inventory.StockMovement) []*MovementResponse {
	out := make([]*MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, &MovementResponse{
			ID:             m.ID,
			ProductID:      m.ProductID,
			Type:           string(m.Type),
			Quantity:       m.Quantity,
			ResultingStock: m.ResultingStock,
			Clamped:        m.Clamped,
			ReferenceID:    m.ReferenceID,
			ReferenceType:  m.ReferenceType,
			Remark:         m.Remark,
			CreatedAt:      m.CreatedAt,
		})
	}
	return out
}
