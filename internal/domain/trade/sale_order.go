package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/shared/valueobject"
)

// SaleOrderType distinguishes regular sales from devolutions
type SaleOrderType string

const (
	SaleOrderTypeSale       SaleOrderType = "SALE"
	SaleOrderTypeDevolution SaleOrderType = "DEVOLUTION"
)

// IsValid checks if the type is a valid SaleOrderType
func (t SaleOrderType) IsValid() bool {
	return t == SaleOrderTypeSale || t == SaleOrderTypeDevolution
}

// SaleOrderStatus represents the status of a sale order
type SaleOrderStatus string

const (
	SaleOrderStatusPending   SaleOrderStatus = "PENDING"
	SaleOrderStatusEffective SaleOrderStatus = "EFFECTIVE"
	SaleOrderStatusCancelled SaleOrderStatus = "CANCELLED"
	SaleOrderStatusReturned  SaleOrderStatus = "RETURNED"
)

// IsValid checks if the status is a valid SaleOrderStatus
func (s SaleOrderStatus) IsValid() bool {
	switch s {
	case SaleOrderStatusPending, SaleOrderStatusEffective, SaleOrderStatusCancelled, SaleOrderStatusReturned:
		return true
	}
	return false
}

// String returns the string representation of SaleOrderStatus
func (s SaleOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Pending orders reserve nothing; stock leaves when the order turns
// effective. Returned is a terminal marker set when devolutions cover
// every product line in full.
func (s SaleOrderStatus) CanTransitionTo(target SaleOrderStatus) bool {
	switch s {
	case SaleOrderStatusPending:
		return target == SaleOrderStatusEffective || target == SaleOrderStatusCancelled
	case SaleOrderStatusEffective:
		return target == SaleOrderStatusCancelled || target == SaleOrderStatusReturned
	}
	return false
}

// SaleOrderItem represents a product line in a sale or devolution.
// Tax figures are persisted so devolutions can reuse the rates the
// original sale was priced with.
type SaleOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	ProductCode     string          `gorm:"type:varchar(50);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"` // Percent at sale time
	UnitTax         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LineTax         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SubtotalWithTax decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleOrderItem) TableName() string {
	return "sale_order_items"
}

// NewSaleOrderItem creates a new product line from computed figures
func NewSaleOrderItem(
	orderID, productID uuid.UUID,
	productName, productCode string,
	quantity decimal.Decimal,
	unitPrice valueobject.Money,
	taxRate decimal.Decimal,
	figures LineFigures,
) (*SaleOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	return &SaleOrderItem{
		ID:              uuid.New(),
		OrderID:         orderID,
		ProductID:       productID,
		ProductName:     productName,
		ProductCode:     productCode,
		Quantity:        quantity,
		UnitPrice:       unitPrice.Amount(),
		TaxRate:         taxRate,
		UnitTax:         figures.UnitTax,
		LineTax:         figures.LineTax,
		Subtotal:        figures.Subtotal,
		SubtotalWithTax: figures.SubtotalWithTax,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// SaleServiceItem represents a service line in a sale.
// Service lines carry no tax and never touch stock.
type SaleServiceItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ServiceID   uuid.UUID       `gorm:"type:uuid;not null"`
	ServiceName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleServiceItem) TableName() string {
	return "sale_service_items"
}

// NewSaleServiceItem creates a new service line
func NewSaleServiceItem(
	orderID, serviceID uuid.UUID,
	serviceName string,
	quantity decimal.Decimal,
	unitPrice valueobject.Money,
	subtotal decimal.Decimal,
) (*SaleServiceItem, error) {
	if serviceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SERVICE", "Service ID cannot be empty")
	}
	if serviceName == "" {
		return nil, shared.NewDomainError("INVALID_SERVICE_NAME", "Service name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	return &SaleServiceItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		ServiceID:   serviceID,
		ServiceName: serviceName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Subtotal:    subtotal,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SaleOrder represents a sale or devolution aggregate root.
// A devolution points back at the sale it reverses through OriginalOrderID
// and its totals are the refund owed to the customer.
type SaleOrder struct {
	shared.BaseAggregateRoot
	OrderNumber     string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type            SaleOrderType     `gorm:"type:varchar(20);not null;default:'SALE'"`
	Status          SaleOrderStatus   `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CustomerID      *uuid.UUID        `gorm:"type:uuid;index"` // Nil for walk-in customers
	CustomerName    string            `gorm:"type:varchar(200)"`
	CustomerDoc     string            `gorm:"type:varchar(50)"`
	OriginalOrderID *uuid.UUID        `gorm:"type:uuid;index"` // Set on devolutions only
	Items           []SaleOrderItem   `gorm:"foreignKey:OrderID;references:ID"`
	ServiceItems    []SaleServiceItem `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal        decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Tax             decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	GrandTotal      decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	AmountReceived  decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	ChangeDue       decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Remark          string            `gorm:"type:varchar(500)"`
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (SaleOrder) TableName() string {
	return "sale_orders"
}

// NewSaleOrder creates a new pending sale order
func NewSaleOrder(orderNumber string, customerID *uuid.UUID, customerName, customerDoc string) (*SaleOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == nil && customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Walk-in sales require a customer name")
	}

	return &SaleOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Type:              SaleOrderTypeSale,
		Status:            SaleOrderStatusPending,
		CustomerID:        customerID,
		CustomerName:      customerName,
		CustomerDoc:       customerDoc,
		Items:             make([]SaleOrderItem, 0),
		ServiceItems:      make([]SaleServiceItem, 0),
		Subtotal:          decimal.Zero,
		Tax:               decimal.Zero,
		GrandTotal:        decimal.Zero,
		AmountReceived:    decimal.Zero,
		ChangeDue:         decimal.Zero,
	}, nil
}

// DevolutionLine is one product line requested for return
type DevolutionLine struct {
	Item     *SaleOrderItem  // Constructed line for the devolution order
	Quantity decimal.Decimal // Quantity being returned
}

// NewDevolution creates a devolution against an effective sale.
// outstanding maps product ID to the quantity still returnable on the
// original order (original quantity minus prior devolutions); every
// requested line must reference a product on the original order and must
// not exceed what remains returnable.
func NewDevolution(
	orderNumber string,
	original *SaleOrder,
	outstanding map[uuid.UUID]decimal.Decimal,
	lines []DevolutionLine,
) (*SaleOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if original == nil {
		return nil, shared.NewDomainError("INVALID_ORIGINAL_ORDER", "Original order is required")
	}
	if original.Type != SaleOrderTypeSale {
		return nil, shared.NewDomainError("INVALID_ORIGINAL_ORDER", "Devolutions can only reference sales")
	}
	if original.Status != SaleOrderStatusEffective && original.Status != SaleOrderStatusReturned {
		return nil, shared.NewDomainError("INVALID_ORIGINAL_ORDER",
			fmt.Sprintf("Cannot return against order in %s status", original.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DEVOLUTION", "Devolution must contain at least one line")
	}

	devolution := &SaleOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Type:              SaleOrderTypeDevolution,
		Status:            SaleOrderStatusEffective,
		CustomerID:        original.CustomerID,
		CustomerName:      original.CustomerName,
		CustomerDoc:       original.CustomerDoc,
		OriginalOrderID:   &original.ID,
		Items:             make([]SaleOrderItem, 0, len(lines)),
		ServiceItems:      make([]SaleServiceItem, 0),
		Subtotal:          decimal.Zero,
		Tax:               decimal.Zero,
		GrandTotal:        decimal.Zero,
		AmountReceived:    decimal.Zero,
		ChangeDue:         decimal.Zero,
	}

	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if line.Item == nil {
			return nil, shared.NewDomainError("INVALID_LINE", "Devolution line is missing its item")
		}
		productID := line.Item.ProductID
		if seen[productID] {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product appears more than once in devolution")
		}
		seen[productID] = true

		remaining, sold := outstanding[productID]
		if !sold {
			return nil, shared.NewDomainError("PRODUCT_NOT_IN_ORDER",
				fmt.Sprintf("Product %s is not on the original order", line.Item.ProductCode))
		}
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
		}
		if line.Quantity.GreaterThan(remaining) {
			return nil, shared.NewDomainError("RETURN_EXCEEDS_SOLD",
				fmt.Sprintf("Return quantity %s exceeds returnable quantity %s for product %s",
					line.Quantity, remaining, line.Item.ProductCode))
		}

		line.Item.OrderID = devolution.ID
		devolution.Items = append(devolution.Items, *line.Item)
	}

	devolution.recalculateTotals()
	return devolution, nil
}

// AddItem adds a product line and recomputes the header totals
func (o *SaleOrder) AddItem(item *SaleOrderItem) error {
	for _, existing := range o.Items {
		if existing.ProductID == item.ProductID {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in order")
		}
	}

	item.OrderID = o.ID
	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.Touch()
	o.IncrementVersion()

	return nil
}

// AddServiceItem adds a service line and recomputes the header totals
func (o *SaleOrder) AddServiceItem(item *SaleServiceItem) error {
	if o.Type == SaleOrderTypeDevolution {
		return shared.NewDomainError("INVALID_LINE", "Devolutions cannot contain service lines")
	}

	item.OrderID = o.ID
	o.ServiceItems = append(o.ServiceItems, *item)
	o.recalculateTotals()
	o.Touch()
	o.IncrementVersion()

	return nil
}

// SetPayment records the amount received and derives the change due.
// ChangeDue is signed: a partial payment leaves a negative change due
// (the outstanding balance) rather than rejecting the sale.
func (o *SaleOrder) SetPayment(amountReceived valueobject.Money) error {
	if amountReceived.IsNegative() {
		return shared.NewDomainError("INVALID_PAYMENT", "Amount received cannot be negative")
	}

	o.AmountReceived = amountReceived.Amount()
	o.ChangeDue = amountReceived.Amount().Sub(o.GrandTotal).Round(2)
	o.Touch()
	o.IncrementVersion()

	return nil
}

// SetRemark sets the order remark
func (o *SaleOrder) SetRemark(remark string) {
	o.Remark = remark
	o.Touch()
	o.IncrementVersion()
}

// MakeEffective confirms a pending sale.
// The caller must deduct stock for every product line in the same transaction.
func (o *SaleOrder) MakeEffective() error {
	if !o.Status.CanTransitionTo(SaleOrderStatusEffective) {
		return shared.NewDomainError("ILLEGAL_TRANSITION", fmt.Sprintf("Cannot confirm order in %s status", o.Status))
	}
	if len(o.Items) == 0 && len(o.ServiceItems) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot confirm an order without lines")
	}

	o.Status = SaleOrderStatusEffective
	o.Touch()
	o.IncrementVersion()

	return nil
}

// Cancel transitions the order to cancelled. wasEffective tells the caller
// whether the order had already deducted stock and may need a reversal.
func (o *SaleOrder) Cancel() (wasEffective bool, err error) {
	if !o.Status.CanTransitionTo(SaleOrderStatusCancelled) {
		return false, shared.NewDomainError("ILLEGAL_TRANSITION", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	wasEffective = o.Status == SaleOrderStatusEffective
	now := time.Now()
	o.Status = SaleOrderStatusCancelled
	o.CancelledAt = &now
	o.Touch()
	o.IncrementVersion()

	return wasEffective, nil
}

// MarkReturned flags a sale whose product lines have been fully returned
func (o *SaleOrder) MarkReturned() error {
	if !o.Status.CanTransitionTo(SaleOrderStatusReturned) {
		return shared.NewDomainError("ILLEGAL_TRANSITION", fmt.Sprintf("Cannot mark order in %s status as returned", o.Status))
	}

	o.Status = SaleOrderStatusReturned
	o.Touch()
	o.IncrementVersion()

	return nil
}

// recalculateTotals recomputes the header totals from the current line sets
func (o *SaleOrder) recalculateTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Subtotal)
		tax = tax.Add(item.LineTax)
	}
	for _, item := range o.ServiceItems {
		subtotal = subtotal.Add(item.Subtotal)
	}
	o.Subtotal = subtotal
	o.Tax = tax
	o.GrandTotal = subtotal.Add(tax)
}

// IsDevolution returns true if the order is a devolution
func (o *SaleOrder) IsDevolution() bool {
	return o.Type == SaleOrderTypeDevolution
}

// IsEffective returns true if the order is effective
func (o *SaleOrder) IsEffective() bool {
	return o.Status == SaleOrderStatusEffective
}

// GetItemByProduct returns the product line for a product, or nil
func (o *SaleOrder) GetItemByProduct(productID uuid.UUID) *SaleOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}
