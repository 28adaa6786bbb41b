package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopdesk/backend/internal/domain/inventory"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/shared/valueobject"
	"github.com/shopdesk/backend/internal/domain/trade"
)

const (
	saleReferenceType       = "SALE_ORDER"
	devolutionReferenceType = "DEVOLUTION"
)

// SaleOrderConfig carries the tunable policies of the sale use cases
type SaleOrderConfig struct {
	// ReverseStockOnCancel restores stock when an effective sale is
	// cancelled. When false the goods are considered lost to the shop and
	// only the order status changes.
	ReverseStockOnCancel bool
}

// SaleOrderService orchestrates sales and devolutions. Every write runs
// inside one transaction: order rows, stock and audit movements commit or
// roll back together.
type SaleOrderService struct {
	scope  TransactionScope
	calc   *trade.LineCalculator
	config SaleOrderConfig
	logger *zap.Logger
}

// NewSaleOrderService creates a new SaleOrderService
func NewSaleOrderService(scope TransactionScope, calc *trade.LineCalculator, config SaleOrderConfig, logger *zap.Logger) *SaleOrderService {
	return &SaleOrderService{
		scope:  scope,
		calc:   calc,
		config: config,
		logger: logger,
	}
}

// CreateSale registers a sale. By default the sale becomes effective
// immediately and stock leaves in the same transaction; with Pending set
// it stays pending and touches no stock until confirmed.
func (s *SaleOrderService) CreateSale(ctx context.Context, req *CreateSaleOrderRequest) (*SaleOrderResponse, error) {
	if len(req.Items) == 0 && len(req.ServiceItems) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Sale must contain at least one line")
	}

	var response *SaleOrderResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		customerName := req.CustomerName
		customerDoc := req.CustomerDoc
		if req.CustomerID != nil {
			customer, err := repos.Customers().FindByID(ctx, *req.CustomerID)
			if err != nil {
				return err
			}
			customerName = customer.Name
			customerDoc = customer.Document
		}

		orderNumber, err := repos.SaleOrders().NextOrderNumber(ctx, trade.SaleOrderTypeSale)
		if err != nil {
			return err
		}

		order, err := trade.NewSaleOrder(orderNumber, req.CustomerID, customerName, customerDoc)
		if err != nil {
			return err
		}
		order.SetRemark(req.Remark)

		for _, line := range req.Items {
			item, err := s.buildSaleItem(ctx, repos, line)
			if err != nil {
				return err
			}
			if err := order.AddItem(item); err != nil {
				return err
			}
		}
		for _, line := range req.ServiceItems {
			item, err := s.buildServiceItem(ctx, repos, line)
			if err != nil {
				return err
			}
			if err := order.AddServiceItem(item); err != nil {
				return err
			}
		}

		if !req.Pending {
			if err := order.MakeEffective(); err != nil {
				return err
			}
		}
		if req.AmountReceived != nil {
			if err := order.SetPayment(valueobject.NewMoney(*req.AmountReceived)); err != nil {
				return err
			}
		}

		if err := repos.SaleOrders().Save(ctx, order); err != nil {
			return err
		}

		if !req.Pending {
			if err := s.deductStock(ctx, repos, order); err != nil {
				return err
			}
		}

		s.logger.Info("sale created",
			zap.String("order_number", order.OrderNumber),
			zap.String("status", order.Status.String()),
			zap.String("grand_total", order.GrandTotal.String()))

		response = ToSaleOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// CreateDevolution returns goods against an effective sale. The refund
// keeps the prices and tax rates the original lines were sold at, stock
// comes back in, and a sale returned in full is marked as such.
func (s *SaleOrderService) CreateDevolution(ctx context.Context, req *CreateDevolutionRequest) (*SaleOrderResponse, error) {
	var response *SaleOrderResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		original, err := repos.SaleOrders().FindByID(ctx, req.OriginalOrderID)
		if err != nil {
			return err
		}
		originalVersion := original.Version

		returned, err := repos.SaleOrders().SumReturnedByProduct(ctx, original.ID)
		if err != nil {
			return err
		}
		outstanding := make(map[uuid.UUID]decimal.Decimal, len(original.Items))
		for _, item := range original.Items {
			outstanding[item.ProductID] = item.Quantity.Sub(returned[item.ProductID])
		}

		lines := make([]trade.DevolutionLine, 0, len(req.Items))
		for _, line := range req.Items {
			origItem := original.GetItemByProduct(line.ProductID)
			if origItem == nil {
				return shared.NewDomainError("PRODUCT_NOT_IN_ORDER", "Product is not on the original order")
			}

			info := trade.ProductTaxInfo{
				ConversionFactor: decimal.NewFromInt(1),
				TaxRate:          origItem.TaxRate,
				AppliesTax:       origItem.TaxRate.GreaterThan(decimal.Zero),
			}
			figures, err := s.calc.Compute(info, line.Quantity, valueobject.NewMoney(origItem.UnitPrice))
			if err != nil {
				return err
			}

			item, err := trade.NewSaleOrderItem(uuid.Nil, origItem.ProductID, origItem.ProductName, origItem.ProductCode,
				line.Quantity, valueobject.NewMoney(origItem.UnitPrice), origItem.TaxRate, figures)
			if err != nil {
				return err
			}
			lines = append(lines, trade.DevolutionLine{Item: item, Quantity: line.Quantity})
		}

		orderNumber, err := repos.SaleOrders().NextOrderNumber(ctx, trade.SaleOrderTypeDevolution)
		if err != nil {
			return err
		}

		devolution, err := trade.NewDevolution(orderNumber, original, outstanding, lines)
		if err != nil {
			return err
		}
		devolution.SetRemark(req.Remark)

		if err := repos.SaleOrders().Save(ctx, devolution); err != nil {
			return err
		}

		for idx := range devolution.Items {
			item := &devolution.Items[idx]
			if _, err := repos.Ledger().Apply(ctx, item.ProductID, item.Quantity, inventory.MovementInfo{
				Type:          inventory.MovementDevolutionIn,
				ReferenceID:   devolution.ID,
				ReferenceType: devolutionReferenceType,
			}); err != nil {
				return err
			}
		}

		if s.fullyReturned(original, outstanding, devolution) && original.Status == trade.SaleOrderStatusEffective {
			if err := original.MarkReturned(); err != nil {
				return err
			}
			if err := repos.SaleOrders().SaveWithLock(ctx, original, originalVersion); err != nil {
				return err
			}
		}

		s.logger.Info("devolution created",
			zap.String("order_number", devolution.OrderNumber),
			zap.String("original_order", original.OrderNumber),
			zap.String("refund", devolution.GrandTotal.String()))

		response = ToSaleOrderResponse(devolution)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ChangeStatus confirms or cancels a sale. Confirming deducts stock;
// cancelling an effective sale restores it when the service is configured
// to reverse on cancel. Devolutions never change status.
func (s *SaleOrderService) ChangeStatus(ctx context.Context, orderID uuid.UUID, req *ChangeSaleStatusRequest) (*SaleOrderResponse, error) {
	target := trade.SaleOrderStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", req.Status))
	}

	var response *SaleOrderResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.SaleOrders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.IsDevolution() {
			return shared.NewDomainError("DEVOLUTION_IMMUTABLE", "Devolutions cannot change status")
		}
		expectedVersion := order.Version

		switch target {
		case trade.SaleOrderStatusEffective:
			if err := order.MakeEffective(); err != nil {
				return err
			}
			if err := repos.SaleOrders().SaveWithLock(ctx, order, expectedVersion); err != nil {
				return err
			}
			if err := s.deductStock(ctx, repos, order); err != nil {
				return err
			}

		case trade.SaleOrderStatusCancelled:
			wasEffective, err := order.Cancel()
			if err != nil {
				return err
			}
			if err := repos.SaleOrders().SaveWithLock(ctx, order, expectedVersion); err != nil {
				return err
			}
			if wasEffective && s.config.ReverseStockOnCancel {
				for idx := range order.Items {
					item := &order.Items[idx]
					if _, err := repos.Ledger().Apply(ctx, item.ProductID, item.Quantity, inventory.MovementInfo{
						Type:          inventory.MovementSaleReversal,
						ReferenceID:   order.ID,
						ReferenceType: saleReferenceType,
						Remark:        "sale cancelled",
					}); err != nil {
						return err
					}
				}
			}

		default:
			return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Cannot move a sale to %s directly", target))
		}

		s.logger.Info("sale status changed",
			zap.String("order_number", order.OrderNumber),
			zap.String("status", order.Status.String()))

		response = ToSaleOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// GetByID fetches a single sale or devolution
func (s *SaleOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*SaleOrderResponse, error) {
	var response *SaleOrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.SaleOrders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		response = ToSaleOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// List fetches a page of sales and devolutions with the total count
func (s *SaleOrderService) List(ctx context.Context, filter shared.Filter) ([]*SaleOrderResponse, int64, error) {
	var responses []*SaleOrderResponse
	var total int64

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, err := repos.SaleOrders().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err = repos.SaleOrders().Count(ctx, filter)
		if err != nil {
			return err
		}
		responses = make([]*SaleOrderResponse, 0, len(orders))
		for _, order := range orders {
			responses = append(responses, ToSaleOrderResponse(order))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// buildSaleItem turns a sale line request into a computed order item.
// Sale quantities are already in base stock units, so no unit conversion
// applies on this path.
func (s *SaleOrderService) buildSaleItem(ctx context.Context, repos TransactionalRepositories, line SaleLineRequest) (*trade.SaleOrderItem, error) {
	product, err := repos.Products().FindByID(ctx, line.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE",
			fmt.Sprintf("Product %s is inactive", product.Code))
	}

	unitPrice := product.GetResalePriceMoney()
	if line.UnitPrice != nil {
		unitPrice = valueobject.NewMoney(*line.UnitPrice)
	}

	rate := decimal.Zero
	if product.AppliesTax {
		rate = product.TaxRate
		if rate.LessThanOrEqual(decimal.Zero) {
			rate = s.calc.Defaults().TaxRate
		}
	}

	info := trade.ProductTaxInfo{
		ConversionFactor: decimal.NewFromInt(1),
		TaxRate:          rate,
		AppliesTax:       product.AppliesTax,
	}
	figures, err := s.calc.Compute(info, line.Quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	return trade.NewSaleOrderItem(uuid.Nil, product.ID, product.Name, product.Code,
		line.Quantity, unitPrice, rate, figures)
}

// buildServiceItem turns a service line request into a computed order item
func (s *SaleOrderService) buildServiceItem(ctx context.Context, repos TransactionalRepositories, line SaleServiceLineRequest) (*trade.SaleServiceItem, error) {
	service, err := repos.Services().FindByID(ctx, line.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.Active {
		return nil, shared.NewDomainError("SERVICE_INACTIVE",
			fmt.Sprintf("Service %s is inactive", service.Code))
	}

	unitPrice := service.GetPriceMoney()
	if line.UnitPrice != nil {
		unitPrice = valueobject.NewMoney(*line.UnitPrice)
	}

	subtotal, err := s.calc.ServiceSubtotal(line.Quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	return trade.NewSaleServiceItem(uuid.Nil, service.ID, service.Name, line.Quantity, unitPrice, subtotal)
}

// deductStock removes sold quantities through the ledger. The ledger
// rejects a sale that would drive stock negative regardless of the
// reversal policy, so a shortfall rolls the whole sale back.
func (s *SaleOrderService) deductStock(ctx context.Context, repos TransactionalRepositories, order *trade.SaleOrder) error {
	for idx := range order.Items {
		item := &order.Items[idx]
		if _, err := repos.Ledger().Apply(ctx, item.ProductID, item.Quantity.Neg(), inventory.MovementInfo{
			Type:          inventory.MovementSaleOut,
			ReferenceID:   order.ID,
			ReferenceType: saleReferenceType,
		}); err != nil {
			return err
		}
	}
	return nil
}

// fullyReturned reports whether this devolution exhausts every outstanding
// product quantity on the original sale.
func (s *SaleOrderService) fullyReturned(original *trade.SaleOrder, outstanding map[uuid.UUID]decimal.Decimal, devolution *trade.SaleOrder) bool {
	for _, item := range original.Items {
		remaining := outstanding[item.ProductID]
		if dev := devolution.GetItemByProduct(item.ProductID); dev != nil {
			remaining = remaining.Sub(dev.Quantity)
		}
		if remaining.GreaterThan(decimal.Zero) {
			return false
		}
	}
	return true
}
