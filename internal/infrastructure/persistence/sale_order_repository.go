package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/trade"
)

var saleOrderColumns = map[string]bool{
	"order_number": true,
	"type":         true,
	"status":       true,
	"customer_id":  true,
	"created_at":   true,
	"updated_at":   true,
}

// GormSaleOrderRepository implements trade.SaleOrderRepository using GORM
type GormSaleOrderRepository struct {
	db *gorm.DB
}

// NewGormSaleOrderRepository creates a new GormSaleOrderRepository
func NewGormSaleOrderRepository(db *gorm.DB) *GormSaleOrderRepository {
	return &GormSaleOrderRepository{db: db}
}

// FindByID finds a sale order with its lines
func (r *GormSaleOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SaleOrder, error) {
	var order trade.SaleOrder
	if err := r.db.WithContext(ctx).Preload("Items").Preload("ServiceItems").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a sale order by its order number
func (r *GormSaleOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.SaleOrder, error) {
	var order trade.SaleOrder
	if err := r.db.WithContext(ctx).Preload("Items").Preload("ServiceItems").
		First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds sale orders matching the filter
func (r *GormSaleOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*trade.SaleOrder, error) {
	var orders []*trade.SaleOrder
	query := applyFilter(r.db.WithContext(ctx).Model(&trade.SaleOrder{}), filter, saleOrderColumns)
	if err := query.Preload("Items").Preload("ServiceItems").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts sale orders matching the filter
func (r *GormSaleOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&trade.SaleOrder{})
	for key, value := range filter.Filters {
		if saleOrderColumns[key] {
			query = query.Where(key+" = ?", value)
		}
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists a sale order and its lines
func (r *GormSaleOrderRepository) Save(ctx context.Context, order *trade.SaleOrder) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

// SaveWithLock persists the order only if the stored version still matches
// expectedVersion
func (r *GormSaleOrderRepository) SaveWithLock(ctx context.Context, order *trade.SaleOrder, expectedVersion int) error {
	result := r.db.WithContext(ctx).Model(&trade.SaleOrder{}).
		Where("id = ? AND version = ?", order.ID, expectedVersion).
		Select("*").Omit("Items", "ServiceItems", "created_at").Updates(order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// NextOrderNumber atomically reserves the next number in the sequence for
// the given order type
func (r *GormSaleOrderRepository) NextOrderNumber(ctx context.Context, orderType trade.SaleOrderType) (string, error) {
	counter, prefix := "sale_order", "SALE"
	if orderType == trade.SaleOrderTypeDevolution {
		counter, prefix = "devolution", "DEV"
	}
	value, err := nextCounterValue(ctx, r.db, counter)
	if err != nil {
		return "", err
	}
	return formatOrderNumber(prefix, value), nil
}

// SumReturnedByProduct totals, per product, the quantities on effective
// devolutions referencing the given original order
func (r *GormSaleOrderRepository) SumReturnedByProduct(ctx context.Context, originalOrderID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []struct {
		ProductID uuid.UUID
		Total     decimal.Decimal
	}

	err := r.db.WithContext(ctx).
		Table("sale_order_items").
		Select("sale_order_items.product_id AS product_id, SUM(sale_order_items.quantity) AS total").
		Joins("JOIN sale_orders ON sale_orders.id = sale_order_items.order_id").
		Where("sale_orders.type = ? AND sale_orders.status = ? AND sale_orders.original_order_id = ?",
			trade.SaleOrderTypeDevolution, trade.SaleOrderStatusEffective, originalOrderID).
		Group("sale_order_items.product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.ProductID] = row.Total
	}
	return sums, nil
}
