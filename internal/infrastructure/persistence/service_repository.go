package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/shared"
)

var serviceOrderColumns = map[string]bool{
	"code":       true,
	"name":       true,
	"active":     true,
	"created_at": true,
}

// GormServiceRepository implements catalog.ServiceRepository using GORM
type GormServiceRepository struct {
	db *gorm.DB
}

var _ catalog.ServiceRepository = (*GormServiceRepository)(nil)

// NewGormServiceRepository creates a new GormServiceRepository
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// FindByID finds a service by its ID
func (r *GormServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	var service catalog.Service
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &service, nil
}

// FindByIDs finds services by a set of IDs
func (r *GormServiceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Service, error) {
	var services []*catalog.Service
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// FindAll finds services matching the filter
func (r *GormServiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*catalog.Service, error) {
	var services []*catalog.Service
	query := applyFilter(r.db.WithContext(ctx).Model(&catalog.Service{}), filter, serviceOrderColumns)
	if err := query.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// Save persists a service
func (r *GormServiceRepository) Save(ctx context.Context, service *catalog.Service) error {
	return r.db.WithContext(ctx).Save(service).Error
}
