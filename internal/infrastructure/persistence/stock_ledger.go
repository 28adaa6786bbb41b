package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/inventory"
	"github.com/shopdesk/backend/internal/domain/shared"
)

// GormStockLedger implements inventory.Ledger. Each Apply locks the product
// row, resolves the delta against the configured reversal policy and writes
// the stock change plus its audit movement in the caller's transaction. The
// stock column itself moves through a relative UPDATE, never through a
// value read earlier, so two transactions can not overwrite each other's
// mutation.
type GormStockLedger struct {
	db     *gorm.DB
	policy inventory.ReversalPolicy
	logger *zap.Logger
}

// NewGormStockLedger creates a ledger bound to a transaction handle
func NewGormStockLedger(db *gorm.DB, policy inventory.ReversalPolicy, logger *zap.Logger) *GormStockLedger {
	return &GormStockLedger{db: db, policy: policy, logger: logger}
}

// Apply mutates the product's stock by delta and records a StockMovement
func (l *GormStockLedger) Apply(ctx context.Context, productID uuid.UUID, delta decimal.Decimal, info inventory.MovementInfo) (inventory.ApplyResult, error) {
	policy := l.policy
	if info.Type == inventory.MovementSaleOut {
		// Selling below zero is never acceptable; clamping only applies to
		// reversals of past orders.
		policy = inventory.ReversalPolicyStrict
	}

	query := l.db.WithContext(ctx)
	if l.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product catalog.Product
	if err := query.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return inventory.ApplyResult{}, shared.ErrNotFound
		}
		return inventory.ApplyResult{}, err
	}

	applied, clamped, err := inventory.ClampDelta(policy, product.Stock, delta)
	if err != nil {
		return inventory.ApplyResult{}, err
	}
	resulting := product.Stock.Add(applied)

	if !applied.IsZero() {
		result := l.db.WithContext(ctx).Model(&catalog.Product{}).
			Where("id = ?", productID).
			Update("stock", gorm.Expr("stock + ?", applied))
		if result.Error != nil {
			return inventory.ApplyResult{}, result.Error
		}
		if result.RowsAffected == 0 {
			return inventory.ApplyResult{}, shared.ErrNotFound
		}
	}

	movement, err := inventory.NewStockMovement(productID, info.Type, applied, resulting,
		clamped, info.ReferenceID, info.ReferenceType, info.Remark)
	if err != nil {
		return inventory.ApplyResult{}, err
	}
	if err := l.db.WithContext(ctx).Create(movement).Error; err != nil {
		return inventory.ApplyResult{}, err
	}

	if clamped {
		l.logger.Warn("stock mutation clamped at zero",
			zap.String("product_id", productID.String()),
			zap.String("movement_type", string(info.Type)),
			zap.String("requested", delta.String()),
			zap.String("applied", applied.String()))
	}

	return inventory.ApplyResult{Applied: applied, ResultingStock: resulting, Clamped: clamped}, nil
}
