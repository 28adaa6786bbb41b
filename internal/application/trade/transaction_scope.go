package trade

import (
	"context"

	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/inventory"
	"github.com/shopdesk/backend/internal/domain/partner"
	"github.com/shopdesk/backend/internal/domain/trade"
)

// TransactionalRepositories exposes every repository a trade use case may
// touch, all bound to the same database transaction.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Services() catalog.ServiceRepository
	Suppliers() partner.SupplierRepository
	Customers() partner.CustomerRepository
	PurchaseOrders() trade.PurchaseOrderRepository
	SaleOrders() trade.SaleOrderRepository
	Movements() inventory.StockMovementRepository
	Ledger() inventory.Ledger
}

// TransactionScope runs a function inside a single database transaction.
// If fn returns an error the transaction rolls back and no order, stock or
// movement change survives.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
