package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/shared/valueobject"
	"github.com/shopdesk/backend/internal/domain/trade"
)

// ProductCache is a read-through cache over product lookups. A nil cache
// is valid and disables caching.
type ProductCache interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Product, bool)
	Set(ctx context.Context, product *catalog.Product)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// Service exposes catalog maintenance: products and shop services.
// New products pick up the shop-wide unit/tax defaults when the request
// leaves that metadata out.
type Service struct {
	products catalog.ProductRepository
	services catalog.ServiceRepository
	cache    ProductCache
	defaults trade.CalcDefaults
	logger   *zap.Logger
}

// NewService creates a catalog Service
func NewService(products catalog.ProductRepository, services catalog.ServiceRepository, cache ProductCache, defaults trade.CalcDefaults, logger *zap.Logger) *Service {
	return &Service{
		products: products,
		services: services,
		cache:    cache,
		defaults: defaults,
		logger:   logger,
	}
}

// CreateProduct registers a new product
func (s *Service) CreateProduct(ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
	if existing, err := s.products.FindByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	product, err := catalog.NewProduct(req.Code, req.Name,
		valueobject.NewMoney(req.PurchasePrice), valueobject.NewMoney(req.ResalePrice))
	if err != nil {
		return nil, err
	}

	factor := req.ConversionFactor
	if factor.IsZero() {
		factor = s.defaults.ConversionFactor
	}
	if err := product.SetUnit(s.defaults.UnitOrDefault(req.Unit), factor); err != nil {
		return nil, err
	}

	rate, applies := s.defaults.TaxOrDefault(req.TaxRate, req.AppliesTax)
	if err := product.SetTax(rate, applies); err != nil {
		return nil, err
	}

	margin := req.Margin
	if margin.IsZero() {
		margin = s.defaults.Margin
	}
	if err := product.SetMargin(margin); err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.String("code", product.Code))
	return ToProductResponse(product), nil
}

// GetProduct fetches a product, serving repeated lookups from cache
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	if s.cache != nil {
		if product, ok := s.cache.Get(ctx, id); ok {
			return ToProductResponse(product), nil
		}
	}

	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, product)
	}
	return ToProductResponse(product), nil
}

// UpdateProduct applies partial changes to a product
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, req *UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
		product.Touch()
		product.IncrementVersion()
	}
	if req.ResalePrice != nil {
		if err := product.SetResalePrice(valueobject.NewMoney(*req.ResalePrice)); err != nil {
			return nil, err
		}
	}
	if req.PurchasePrice != nil {
		if err := product.SetPurchasePrice(valueobject.NewMoney(*req.PurchasePrice)); err != nil {
			return nil, err
		}
	}
	if req.Unit != nil && req.ConversionFactor != nil {
		if err := product.SetUnit(*req.Unit, *req.ConversionFactor); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil || req.AppliesTax != nil {
		rate := product.TaxRate
		if req.TaxRate != nil {
			rate = *req.TaxRate
		}
		applies := product.AppliesTax
		if req.AppliesTax != nil {
			applies = *req.AppliesTax
		}
		if err := product.SetTax(rate, applies); err != nil {
			return nil, err
		}
	}
	if req.Margin != nil {
		if err := product.SetMargin(*req.Margin); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, id)
	}

	return ToProductResponse(product), nil
}

// ListProducts fetches a page of products with the total count
func (s *Service) ListProducts(ctx context.Context, filter shared.Filter) ([]*ProductResponse, int64, error) {
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*ProductResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, ToProductResponse(product))
	}
	return responses, total, nil
}

// CreateShopService registers a new sellable service
func (s *Service) CreateShopService(ctx context.Context, req *CreateServiceRequest) (*ServiceResponse, error) {
	service, err := catalog.NewService(req.Code, req.Name, valueobject.NewMoney(req.Price))
	if err != nil {
		return nil, err
	}
	if err := s.services.Save(ctx, service); err != nil {
		return nil, err
	}

	s.logger.Info("service created", zap.String("code", service.Code))
	return ToServiceResponse(service), nil
}

// ListShopServices fetches all sellable services
func (s *Service) ListShopServices(ctx context.Context, filter shared.Filter) ([]*ServiceResponse, error) {
	services, err := s.services.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]*ServiceResponse, 0, len(services))
	for _, service := range services {
		responses = append(responses, ToServiceResponse(service))
	}
	return responses, nil
}
