package persistence

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apptrade "github.com/shopdesk/backend/internal/application/trade"
	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/inventory"
	"github.com/shopdesk/backend/internal/domain/partner"
	"github.com/shopdesk/backend/internal/domain/trade"
)

// GormTransactionScope implements the application TransactionScope on a
// gorm database. Execute opens one transaction and hands fn a repository
// set bound to it; an error from fn rolls everything back.
type GormTransactionScope struct {
	db     *gorm.DB
	policy inventory.ReversalPolicy
	logger *zap.Logger
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB, policy inventory.ReversalPolicy, logger *zap.Logger) *GormTransactionScope {
	return &GormTransactionScope{db: db, policy: policy, logger: logger}
}

// Execute implements apptrade.TransactionScope
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{tx: tx, policy: s.policy, logger: s.logger})
	})
}

// gormRepositories binds every repository to one transaction handle
type gormRepositories struct {
	tx     *gorm.DB
	policy inventory.ReversalPolicy
	logger *zap.Logger
}

func (r *gormRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormRepositories) Services() catalog.ServiceRepository {
	return NewGormServiceRepository(r.tx)
}

func (r *gormRepositories) Suppliers() partner.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

func (r *gormRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormRepositories) PurchaseOrders() trade.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

func (r *gormRepositories) SaleOrders() trade.SaleOrderRepository {
	return NewGormSaleOrderRepository(r.tx)
}

func (r *gormRepositories) Movements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormRepositories) Ledger() inventory.Ledger {
	return NewGormStockLedger(r.tx, r.policy, r.logger)
}
