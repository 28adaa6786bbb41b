package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopdesk/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByCode(ctx context.Context, code string) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
}

// ServiceRepository defines persistence operations for services
type ServiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Service, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Service, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Service, error)
	Save(ctx context.Context, service *Service) error
}
