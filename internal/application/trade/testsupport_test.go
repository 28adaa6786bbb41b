package trade

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/inventory"
	"github.com/shopdesk/backend/internal/domain/partner"
	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/trade"
)

// memStore is an in-memory transactional store. Execute serializes
// callers and restores a snapshot when fn fails, so a failed use case
// leaves no trace, matching the database-backed scope.
type memStore struct {
	mu       sync.Mutex
	policy   inventory.ReversalPolicy
	products map[uuid.UUID]*catalog.Product
	services map[uuid.UUID]*catalog.Service
	supplier map[uuid.UUID]*partner.Supplier
	customer map[uuid.UUID]*partner.Customer
	purchase map[uuid.UUID]*trade.PurchaseOrder
	sales    map[uuid.UUID]*trade.SaleOrder
	moves    []*inventory.StockMovement
	counters map[string]int64
}

func newMemStore(policy inventory.ReversalPolicy) *memStore {
	return &memStore{
		policy:   policy,
		products: make(map[uuid.UUID]*catalog.Product),
		services: make(map[uuid.UUID]*catalog.Service),
		supplier: make(map[uuid.UUID]*partner.Supplier),
		customer: make(map[uuid.UUID]*partner.Customer),
		purchase: make(map[uuid.UUID]*trade.PurchaseOrder),
		sales:    make(map[uuid.UUID]*trade.SaleOrder),
		counters: make(map[string]int64),
	}
}

type storeSnapshot struct {
	products map[uuid.UUID]*catalog.Product
	services map[uuid.UUID]*catalog.Service
	supplier map[uuid.UUID]*partner.Supplier
	customer map[uuid.UUID]*partner.Customer
	purchase map[uuid.UUID]*trade.PurchaseOrder
	sales    map[uuid.UUID]*trade.SaleOrder
	moves    []*inventory.StockMovement
	counters map[string]int64
}

func copyProduct(p *catalog.Product) *catalog.Product { c := *p; return &c }

func copyService(s *catalog.Service) *catalog.Service { c := *s; return &c }

func copySupplier(s *partner.Supplier) *partner.Supplier { c := *s; return &c }

func copyCustomer(cu *partner.Customer) *partner.Customer { c := *cu; return &c }

func copyPurchase(o *trade.PurchaseOrder) *trade.PurchaseOrder {
	c := *o
	c.Items = append([]trade.PurchaseOrderItem(nil), o.Items...)
	return &c
}

func copySale(o *trade.SaleOrder) *trade.SaleOrder {
	c := *o
	c.Items = append([]trade.SaleOrderItem(nil), o.Items...)
	c.ServiceItems = append([]trade.SaleServiceItem(nil), o.ServiceItems...)
	return &c
}

func (s *memStore) snapshot() *storeSnapshot {
	snap := &storeSnapshot{
		products: make(map[uuid.UUID]*catalog.Product, len(s.products)),
		services: make(map[uuid.UUID]*catalog.Service, len(s.services)),
		supplier: make(map[uuid.UUID]*partner.Supplier, len(s.supplier)),
		customer: make(map[uuid.UUID]*partner.Customer, len(s.customer)),
		purchase: make(map[uuid.UUID]*trade.PurchaseOrder, len(s.purchase)),
		sales:    make(map[uuid.UUID]*trade.SaleOrder, len(s.sales)),
		moves:    append([]*inventory.StockMovement(nil), s.moves...),
		counters: make(map[string]int64, len(s.counters)),
	}
	for k, v := range s.products {
		snap.products[k] = copyProduct(v)
	}
	for k, v := range s.services {
		snap.services[k] = copyService(v)
	}
	for k, v := range s.supplier {
		snap.supplier[k] = copySupplier(v)
	}
	for k, v := range s.customer {
		snap.customer[k] = copyCustomer(v)
	}
	for k, v := range s.purchase {
		snap.purchase[k] = copyPurchase(v)
	}
	for k, v := range s.sales {
		snap.sales[k] = copySale(v)
	}
	for k, v := range s.counters {
		snap.counters[k] = v
	}
	return snap
}

func (s *memStore) restore(snap *storeSnapshot) {
	s.products = snap.products
	s.services = snap.services
	s.supplier = snap.supplier
	s.customer = snap.customer
	s.purchase = snap.purchase
	s.sales = snap.sales
	s.moves = snap.moves
	s.counters = snap.counters
}

// Execute implements TransactionScope
func (s *memStore) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(&memRepos{store: s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Fixture helpers

func (s *memStore) addProduct(p *catalog.Product) { s.products[p.ID] = p }

func (s *memStore) addService(v *catalog.Service) { s.services[v.ID] = v }

func (s *memStore) addSupplier(p *partner.Supplier) { s.supplier[p.ID] = p }

func (s *memStore) addCustomer(c *partner.Customer) { s.customer[c.ID] = c }

func (s *memStore) stockOf(productID uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[productID].Stock
}

func (s *memStore) movementsOf(productID uuid.UUID) []*inventory.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*inventory.StockMovement
	for _, m := range s.moves {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

func (s *memStore) saleByID(id uuid.UUID) *trade.SaleOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sales[id]
}

// memRepos binds every repository to the store

type memRepos struct {
	store *memStore
}

func (r *memRepos) Products() catalog.ProductRepository { return (*memProductRepo)(r) }

func (r *memRepos) Services() catalog.ServiceRepository { return (*memServiceRepo)(r) }

func (r *memRepos) Suppliers() partner.SupplierRepository { return (*memSupplierRepo)(r) }

func (r *memRepos) Customers() partner.CustomerRepository { return (*memCustomerRepo)(r) }

func (r *memRepos) PurchaseOrders() trade.PurchaseOrderRepository { return (*memPurchaseRepo)(r) }

func (r *memRepos) SaleOrders() trade.SaleOrderRepository { return (*memSaleRepo)(r) }

func (r *memRepos) Movements() inventory.StockMovementRepository { return (*memMovementRepo)(r) }

func (r *memRepos) Ledger() inventory.Ledger { return (*memLedger)(r) }

type memProductRepo memRepos

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyProduct(p), nil
}

func (r *memProductRepo) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	for _, p := range r.store.products {
		if p.Code == code {
			return copyProduct(p), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*catalog.Product, error) {
	out := make([]*catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.store.products[id]; ok {
			out = append(out, copyProduct(p))
		}
	}
	return out, nil
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]*catalog.Product, error) {
	out := make([]*catalog.Product, 0, len(r.store.products))
	for _, p := range r.store.products {
		out = append(out, copyProduct(p))
	}
	return out, nil
}

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.products)), nil
}

// Save writes every column except stock, which belongs to the ledger.
func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	if existing, ok := r.store.products[product.ID]; ok {
		stock := existing.Stock
		c := copyProduct(product)
		c.Stock = stock
		r.store.products[product.ID] = c
		return nil
	}
	r.store.products[product.ID] = copyProduct(product)
	return nil
}

type memServiceRepo memRepos

func (r *memServiceRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	v, ok := r.store.services[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyService(v), nil
}

func (r *memServiceRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*catalog.Service, error) {
	out := make([]*catalog.Service, 0, len(ids))
	for _, id := range ids {
		if v, ok := r.store.services[id]; ok {
			out = append(out, copyService(v))
		}
	}
	return out, nil
}

func (r *memServiceRepo) FindAll(_ context.Context, _ shared.Filter) ([]*catalog.Service, error) {
	out := make([]*catalog.Service, 0, len(r.store.services))
	for _, v := range r.store.services {
		out = append(out, copyService(v))
	}
	return out, nil
}

func (r *memServiceRepo) Save(_ context.Context, service *catalog.Service) error {
	r.store.services[service.ID] = copyService(service)
	return nil
}

type memSupplierRepo memRepos

func (r *memSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Supplier, error) {
	p, ok := r.store.supplier[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copySupplier(p), nil
}

func (r *memSupplierRepo) Save(_ context.Context, supplier *partner.Supplier) error {
	r.store.supplier[supplier.ID] = copySupplier(supplier)
	return nil
}

type memCustomerRepo memRepos

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	c, ok := r.store.customer[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyCustomer(c), nil
}

func (r *memCustomerRepo) Save(_ context.Context, customer *partner.Customer) error {
	r.store.customer[customer.ID] = copyCustomer(customer)
	return nil
}

type memPurchaseRepo memRepos

func (r *memPurchaseRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	o, ok := r.store.purchase[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyPurchase(o), nil
}

func (r *memPurchaseRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*trade.PurchaseOrder, error) {
	for _, o := range r.store.purchase {
		if o.OrderNumber == orderNumber {
			return copyPurchase(o), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memPurchaseRepo) FindAll(_ context.Context, _ shared.Filter) ([]*trade.PurchaseOrder, error) {
	out := make([]*trade.PurchaseOrder, 0, len(r.store.purchase))
	for _, o := range r.store.purchase {
		out = append(out, copyPurchase(o))
	}
	return out, nil
}

func (r *memPurchaseRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.purchase)), nil
}

func (r *memPurchaseRepo) Save(_ context.Context, order *trade.PurchaseOrder) error {
	r.store.purchase[order.ID] = copyPurchase(order)
	return nil
}

func (r *memPurchaseRepo) SaveWithLock(_ context.Context, order *trade.PurchaseOrder, expectedVersion int) error {
	existing, ok := r.store.purchase[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	r.store.purchase[order.ID] = copyPurchase(order)
	return nil
}

func (r *memPurchaseRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.purchase[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.store.purchase, id)
	return nil
}

func (r *memPurchaseRepo) NextOrderNumber(_ context.Context) (string, error) {
	r.store.counters["PO"]++
	return fmt.Sprintf("PO-%06d", r.store.counters["PO"]), nil
}

type memSaleRepo memRepos

func (r *memSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.SaleOrder, error) {
	o, ok := r.store.sales[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copySale(o), nil
}

func (r *memSaleRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*trade.SaleOrder, error) {
	for _, o := range r.store.sales {
		if o.OrderNumber == orderNumber {
			return copySale(o), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSaleRepo) FindAll(_ context.Context, _ shared.Filter) ([]*trade.SaleOrder, error) {
	out := make([]*trade.SaleOrder, 0, len(r.store.sales))
	for _, o := range r.store.sales {
		out = append(out, copySale(o))
	}
	return out, nil
}

func (r *memSaleRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.sales)), nil
}

func (r *memSaleRepo) Save(_ context.Context, order *trade.SaleOrder) error {
	r.store.sales[order.ID] = copySale(order)
	return nil
}

func (r *memSaleRepo) SaveWithLock(_ context.Context, order *trade.SaleOrder, expectedVersion int) error {
	existing, ok := r.store.sales[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if existing.Version != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	r.store.sales[order.ID] = copySale(order)
	return nil
}

func (r *memSaleRepo) NextOrderNumber(_ context.Context, orderType trade.SaleOrderType) (string, error) {
	prefix := "SALE"
	if orderType == trade.SaleOrderTypeDevolution {
		prefix = "DEV"
	}
	r.store.counters[prefix]++
	return fmt.Sprintf("%s-%06d", strings.ToUpper(prefix), r.store.counters[prefix]), nil
}

func (r *memSaleRepo) SumReturnedByProduct(_ context.Context, originalOrderID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	sums := make(map[uuid.UUID]decimal.Decimal)
	for _, o := range r.store.sales {
		if !o.IsDevolution() || o.OriginalOrderID == nil || *o.OriginalOrderID != originalOrderID {
			continue
		}
		if o.Status != trade.SaleOrderStatusEffective {
			continue
		}
		for _, item := range o.Items {
			sums[item.ProductID] = sums[item.ProductID].Add(item.Quantity)
		}
	}
	return sums, nil
}

type memMovementRepo memRepos

func (r *memMovementRepo) Append(_ context.Context, movement *inventory.StockMovement) error {
	r.store.moves = append(r.store.moves, movement)
	return nil
}

func (r *memMovementRepo) FindByProduct(_ context.Context, productID uuid.UUID, _ shared.Filter) ([]*inventory.StockMovement, error) {
	var out []*inventory.StockMovement
	for _, m := range r.store.moves {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindByReference(_ context.Context, referenceID uuid.UUID) ([]*inventory.StockMovement, error) {
	var out []*inventory.StockMovement
	for _, m := range r.store.moves {
		if m.ReferenceID == referenceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.store.moves)), nil
}

// memLedger mirrors the database ledger: the mutation and its audit row
// land together, sales are always strict, and downward reversals follow
// the configured policy.
type memLedger memRepos

func (l *memLedger) Apply(_ context.Context, productID uuid.UUID, delta decimal.Decimal, info inventory.MovementInfo) (inventory.ApplyResult, error) {
	product, ok := l.store.products[productID]
	if !ok {
		return inventory.ApplyResult{}, shared.ErrNotFound
	}

	policy := l.store.policy
	if info.Type == inventory.MovementSaleOut {
		policy = inventory.ReversalPolicyStrict
	}

	applied, clamped, err := inventory.ClampDelta(policy, product.Stock, delta)
	if err != nil {
		return inventory.ApplyResult{}, err
	}

	product.Stock = product.Stock.Add(applied)

	movement, err := inventory.NewStockMovement(productID, info.Type, applied, product.Stock,
		clamped, info.ReferenceID, info.ReferenceType, info.Remark)
	if err != nil {
		return inventory.ApplyResult{}, err
	}
	l.store.moves = append(l.store.moves, movement)

	return inventory.ApplyResult{Applied: applied, ResultingStock: product.Stock, Clamped: clamped}, nil
}
