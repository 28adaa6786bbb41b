package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/shared/valueobject"
)

// Service represents a service offered by the shop (grooming, repair, ...).
// Services are sold on sale orders but carry no tax and have no stock effect.
type Service struct {
	shared.BaseAggregateRoot
	Code   string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name   string          `gorm:"type:varchar(200);not null"`
	Price  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Service) TableName() string {
	return "services"
}

// NewService creates a new service
func NewService(code, name string, price valueobject.Money) (*Service, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Service code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Service name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Service price cannot be negative")
	}

	return &Service{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Price:             price.Amount(),
		Active:            true,
	}, nil
}

// SetPrice updates the service price
func (s *Service) SetPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Service price cannot be negative")
	}

	s.Price = price.Amount()
	s.Touch()
	s.IncrementVersion()

	return nil
}

// GetPriceMoney returns the price as Money
func (s *Service) GetPriceMoney() valueobject.Money {
	return valueobject.NewMoney(s.Price)
}
