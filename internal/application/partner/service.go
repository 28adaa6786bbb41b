package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopdesk/backend/internal/domain/partner"
)

// CreateSupplierRequest registers a new supplier
type CreateSupplierRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Document string `json:"document" binding:"max=50"`
	Phone    string `json:"phone" binding:"max=30"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
}

// CreateCustomerRequest registers a new customer
type CreateCustomerRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Document string `json:"document" binding:"max=50"`
	Phone    string `json:"phone" binding:"max=30"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
}

// Service exposes supplier and customer maintenance
type Service struct {
	suppliers partner.SupplierRepository
	customers partner.CustomerRepository
	logger    *zap.Logger
}

// NewService creates a partner Service
func NewService(suppliers partner.SupplierRepository, customers partner.CustomerRepository, logger *zap.Logger) *Service {
	return &Service{
		suppliers: suppliers,
		customers: customers,
		logger:    logger,
	}
}

// CreateSupplier registers a new supplier
func (s *Service) CreateSupplier(ctx context.Context, req *CreateSupplierRequest) (*partner.Supplier, error) {
	supplier, err := partner.NewSupplier(req.Name, req.Document)
	if err != nil {
		return nil, err
	}
	supplier.Phone = req.Phone
	supplier.Email = req.Email

	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}
	s.logger.Info("supplier created", zap.String("name", supplier.Name))
	return supplier, nil
}

// GetSupplier fetches a supplier
func (s *Service) GetSupplier(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	return s.suppliers.FindByID(ctx, id)
}

// CreateCustomer registers a new customer
func (s *Service) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*partner.Customer, error) {
	customer, err := partner.NewCustomer(req.Name, req.Document)
	if err != nil {
		return nil, err
	}
	customer.Phone = req.Phone
	customer.Email = req.Email

	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.logger.Info("customer created", zap.String("name", customer.Name))
	return customer, nil
}

// GetCustomer fetches a customer
func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	return s.customers.FindByID(ctx, id)
}
