package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/inventory"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/shared/valueobject"
	"github.com/shopdesk/backend/internal/domain/trade"
)

const purchaseReferenceType = "PURCHASE_ORDER"

// PurchaseOrderService orchestrates the purchase order use cases. Every
// write runs inside one transaction: order rows, product prices, stock and
// audit movements commit or roll back together.
type PurchaseOrderService struct {
	scope  TransactionScope
	calc   *trade.LineCalculator
	logger *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(scope TransactionScope, calc *trade.LineCalculator, logger *zap.Logger) *PurchaseOrderService {
	return &PurchaseOrderService{
		scope:  scope,
		calc:   calc,
		logger: logger,
	}
}

// Create registers a purchase order, increases stock for every line and
// optionally rewrites product prices from the order's figures.
func (s *PurchaseOrderService) Create(ctx context.Context, req *CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	var response *PurchaseOrderResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		supplier, err := repos.Suppliers().FindByID(ctx, req.SupplierID)
		if err != nil {
			return err
		}
		if !supplier.Active {
			return shared.NewDomainError("SUPPLIER_INACTIVE", "Supplier is inactive")
		}

		orderNumber, err := repos.PurchaseOrders().NextOrderNumber(ctx)
		if err != nil {
			return err
		}

		order, err := trade.NewPurchaseOrder(orderNumber, supplier.ID, supplier.Name)
		if err != nil {
			return err
		}
		order.SetRemark(req.Remark)

		items, err := s.buildItems(ctx, repos, order.ID, req.Items)
		if err != nil {
			return err
		}
		for idx := range items {
			if err := order.AddItem(&items[idx]); err != nil {
				return err
			}
		}

		if err := repos.PurchaseOrders().Save(ctx, order); err != nil {
			return err
		}

		if err := s.applyProductUpdates(ctx, repos, order); err != nil {
			return err
		}
		for idx := range order.Items {
			item := &order.Items[idx]
			if _, err := repos.Ledger().Apply(ctx, item.ProductID, item.ConvertedQuantity, inventory.MovementInfo{
				Type:          inventory.MovementPurchaseIn,
				ReferenceID:   order.ID,
				ReferenceType: purchaseReferenceType,
			}); err != nil {
				return err
			}
		}

		s.logger.Info("purchase order created",
			zap.String("order_number", order.OrderNumber),
			zap.String("supplier", order.SupplierName),
			zap.Int("lines", order.ItemCount()),
			zap.String("grand_total", order.GrandTotal.String()))

		response = ToPurchaseOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Update replaces the line set of an effective order. Stock moves only by
// the per-product difference between the stored lines and the new ones, so
// an unchanged line causes no movement at all.
func (s *PurchaseOrderService) Update(ctx context.Context, orderID uuid.UUID, req *UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	var response *PurchaseOrderResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.PurchaseOrders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.IsEffective() {
			return shared.NewDomainError("ORDER_NOT_EFFECTIVE", "Only effective orders can be updated")
		}
		expectedVersion := order.Version

		if req.SupplierID != nil {
			supplier, err := repos.Suppliers().FindByID(ctx, *req.SupplierID)
			if err != nil {
				return err
			}
			if err := order.SetSupplier(supplier.ID, supplier.Name); err != nil {
				return err
			}
		}
		if req.Remark != nil {
			order.SetRemark(*req.Remark)
		}

		oldConverted := make(map[uuid.UUID]decimal.Decimal, len(order.Items))
		for _, item := range order.Items {
			oldConverted[item.ProductID] = item.ConvertedQuantity
		}

		items, err := s.buildItems(ctx, repos, order.ID, req.Items)
		if err != nil {
			return err
		}
		if err := order.ReplaceItems(items); err != nil {
			return err
		}

		if err := repos.PurchaseOrders().SaveWithLock(ctx, order, expectedVersion); err != nil {
			return err
		}

		if err := s.applyProductUpdates(ctx, repos, order); err != nil {
			return err
		}
		if err := s.applyLineDiff(ctx, repos, order, oldConverted); err != nil {
			return err
		}

		s.logger.Info("purchase order updated",
			zap.String("order_number", order.OrderNumber),
			zap.Int("lines", order.ItemCount()))

		response = ToPurchaseOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// ChangeStatus cancels or reactivates an order. Cancelling reverses the
// order's stock effect; reactivating applies it again.
func (s *PurchaseOrderService) ChangeStatus(ctx context.Context, orderID uuid.UUID, req *ChangePurchaseStatusRequest) (*PurchaseOrderResponse, error) {
	target := trade.PurchaseOrderStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown status %q", req.Status))
	}

	var response *PurchaseOrderResponse

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.PurchaseOrders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		expectedVersion := order.Version

		var movementType inventory.MovementType
		sign := decimal.NewFromInt(1)
		switch target {
		case trade.PurchaseOrderStatusCancelled:
			if err := order.Cancel(); err != nil {
				return err
			}
			movementType = inventory.MovementPurchaseReversal
			sign = decimal.NewFromInt(-1)
		case trade.PurchaseOrderStatusEffective:
			if err := order.Reactivate(); err != nil {
				return err
			}
			movementType = inventory.MovementPurchaseIn
		}

		if err := repos.PurchaseOrders().SaveWithLock(ctx, order, expectedVersion); err != nil {
			return err
		}

		for idx := range order.Items {
			item := &order.Items[idx]
			result, err := repos.Ledger().Apply(ctx, item.ProductID, item.ConvertedQuantity.Mul(sign), inventory.MovementInfo{
				Type:          movementType,
				ReferenceID:   order.ID,
				ReferenceType: purchaseReferenceType,
			})
			if err != nil {
				return err
			}
			if result.Clamped {
				s.logger.Warn("purchase reversal clamped at zero stock",
					zap.String("order_number", order.OrderNumber),
					zap.String("product_id", item.ProductID.String()),
					zap.String("requested", item.ConvertedQuantity.Neg().String()),
					zap.String("applied", result.Applied.String()))
			}
		}

		s.logger.Info("purchase order status changed",
			zap.String("order_number", order.OrderNumber),
			zap.String("status", order.Status.String()))

		response = ToPurchaseOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// Delete removes an order. An effective order first has its stock effect
// reversed; the movements survive as the audit trail of the deletion.
func (s *PurchaseOrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.PurchaseOrders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if order.IsEffective() {
			for idx := range order.Items {
				item := &order.Items[idx]
				if _, err := repos.Ledger().Apply(ctx, item.ProductID, item.ConvertedQuantity.Neg(), inventory.MovementInfo{
					Type:          inventory.MovementPurchaseReversal,
					ReferenceID:   order.ID,
					ReferenceType: purchaseReferenceType,
					Remark:        "order deleted",
				}); err != nil {
					return err
				}
			}
		}

		if err := repos.PurchaseOrders().Delete(ctx, order.ID); err != nil {
			return err
		}

		s.logger.Info("purchase order deleted",
			zap.String("order_number", order.OrderNumber))
		return nil
	})
}

// GetByID fetches a single order
func (s *PurchaseOrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	var response *PurchaseOrderResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.PurchaseOrders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		response = ToPurchaseOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// List fetches a page of orders with the total count
func (s *PurchaseOrderService) List(ctx context.Context, filter shared.Filter) ([]*PurchaseOrderResponse, int64, error) {
	var responses []*PurchaseOrderResponse
	var total int64

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		orders, err := repos.PurchaseOrders().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		total, err = repos.PurchaseOrders().Count(ctx, filter)
		if err != nil {
			return err
		}
		responses = make([]*PurchaseOrderResponse, 0, len(orders))
		for _, order := range orders {
			responses = append(responses, ToPurchaseOrderResponse(order))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// buildItems turns line requests into computed order items
func (s *PurchaseOrderService) buildItems(ctx context.Context, repos TransactionalRepositories, orderID uuid.UUID, lines []PurchaseLineRequest) ([]trade.PurchaseOrderItem, error) {
	items := make([]trade.PurchaseOrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := repos.Products().FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Active {
			return nil, shared.NewDomainError("PRODUCT_INACTIVE",
				fmt.Sprintf("Product %s is inactive", product.Code))
		}

		unitPrice := product.GetPurchasePriceMoney()
		if line.UnitPrice != nil {
			unitPrice = valueobject.NewMoney(*line.UnitPrice)
		}

		figures, err := s.calc.Compute(productTaxInfo(product), line.Quantity, unitPrice)
		if err != nil {
			return nil, err
		}

		item, err := trade.NewPurchaseOrderItem(orderID, product.ID, product.Name, product.Code,
			line.Quantity, unitPrice, figures, line.UpdateResalePrice)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// applyProductUpdates rewrites product prices from the order lines. The
// purchase cost always follows the latest order; the resale price moves to
// the suggested price only for lines that opted in. Price updates run
// before the ledger mutations so the full-row save cannot clobber a stock
// value the ledger just changed.
func (s *PurchaseOrderService) applyProductUpdates(ctx context.Context, repos TransactionalRepositories, order *trade.PurchaseOrder) error {
	for idx := range order.Items {
		item := &order.Items[idx]
		product, err := repos.Products().FindByID(ctx, item.ProductID)
		if err != nil {
			return err
		}

		if err := product.SetPurchasePrice(item.GetUnitPriceMoney()); err != nil {
			return err
		}
		if item.UpdateResalePrice {
			if err := product.SetResalePrice(valueobject.NewMoney(item.SuggestedResalePrice)); err != nil {
				return err
			}
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// applyLineDiff reconciles stock between the stored line set and the new
// one, moving each product only by its quantity difference.
func (s *PurchaseOrderService) applyLineDiff(ctx context.Context, repos TransactionalRepositories, order *trade.PurchaseOrder, oldConverted map[uuid.UUID]decimal.Decimal) error {
	newConverted := make(map[uuid.UUID]decimal.Decimal, len(order.Items))
	for _, item := range order.Items {
		newConverted[item.ProductID] = item.ConvertedQuantity
	}

	apply := func(productID uuid.UUID, delta decimal.Decimal) error {
		if delta.IsZero() {
			return nil
		}
		movementType := inventory.MovementPurchaseIn
		if delta.IsNegative() {
			movementType = inventory.MovementPurchaseReversal
		}
		result, err := repos.Ledger().Apply(ctx, productID, delta, inventory.MovementInfo{
			Type:          movementType,
			ReferenceID:   order.ID,
			ReferenceType: purchaseReferenceType,
			Remark:        "line diff",
		})
		if err != nil {
			return err
		}
		if result.Clamped {
			s.logger.Warn("purchase line diff clamped at zero stock",
				zap.String("order_number", order.OrderNumber),
				zap.String("product_id", productID.String()),
				zap.String("requested", delta.String()),
				zap.String("applied", result.Applied.String()))
		}
		return nil
	}

	for productID, newQty := range newConverted {
		if err := apply(productID, newQty.Sub(oldConverted[productID])); err != nil {
			return err
		}
	}
	for productID, oldQty := range oldConverted {
		if _, still := newConverted[productID]; !still {
			if err := apply(productID, oldQty.Neg()); err != nil {
				return err
			}
		}
	}
	return nil
}

// productTaxInfo maps product metadata into calculator input
func productTaxInfo(product *catalog.Product) trade.ProductTaxInfo {
	return trade.ProductTaxInfo{
		ConversionFactor: product.ConversionFactor,
		TaxRate:          product.TaxRate,
		AppliesTax:       product.AppliesTax,
		Margin:           product.Margin,
	}
}
