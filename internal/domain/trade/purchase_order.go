package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/backend/internal/domain/shared"
	"github.com/shopdesk/backend/internal/domain/shared/valueobject"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusEffective PurchaseOrderStatus = "EFFECTIVE"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusEffective, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Purchase orders flip between effective and cancelled; cancelling reverses
// the order's stock effect and reactivating re-applies it.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusEffective:
		return target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusCancelled:
		return target == PurchaseOrderStatusEffective
	}
	return false
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID            uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName          string          `gorm:"type:varchar(200);not null"`
	ProductCode          string          `gorm:"type:varchar(50);not null"`
	Quantity             decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Quantity in purchase units
	UnitPrice            decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Cost per purchase unit
	ConvertedQuantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Quantity in base stock units
	UnitTax              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Tax per purchase unit
	LineTax              decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // UnitTax * Quantity
	Subtotal             decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Quantity * UnitPrice
	SubtotalWithTax      decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Subtotal + LineTax
	SuggestedResalePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UpdateResalePrice    bool            `gorm:"not null;default:false"` // Caller opted in to overwrite the product's resale price
	CreatedAt            time.Time       `gorm:"not null"`
	UpdatedAt            time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order item from computed figures
func NewPurchaseOrderItem(
	orderID, productID uuid.UUID,
	productName, productCode string,
	quantity decimal.Decimal,
	unitPrice valueobject.Money,
	figures LineFigures,
	updateResalePrice bool,
) (*PurchaseOrderItem, error) {
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
	return &PurchaseOrderItem{
		ID:                   uuid.New(),
		OrderID:              orderID,
		ProductID:            productID,
		ProductName:          productName,
		ProductCode:          productCode,
		Quantity:             quantity,
		UnitPrice:            unitPrice.Amount(),
		ConvertedQuantity:    figures.ConvertedQuantity,
		UnitTax:              figures.UnitTax,
		LineTax:              figures.LineTax,
		Subtotal:             figures.Subtotal,
		SubtotalWithTax:      figures.SubtotalWithTax,
		SuggestedResalePrice: figures.SuggestedResalePrice,
		UpdateResalePrice:    updateResalePrice,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

// GetUnitPriceMoney returns the unit cost as Money
func (i *PurchaseOrderItem) GetUnitPriceMoney() valueobject.Money {
	return valueobject.NewMoney(i.UnitPrice)
}

// PurchaseOrder represents a purchase order aggregate root.
// An effective purchase order has already increased product stock by the
// converted quantity of each of its lines.
type PurchaseOrder struct {
	shared.BaseAggregateRoot
	OrderNumber  string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	SupplierName string              `gorm:"type:varchar(200);not null"`
	Items        []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // Sum of line subtotals
	Tax          decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // Sum of line taxes
	GrandTotal   decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"` // Subtotal + Tax
	Status       PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'EFFECTIVE'"`
	Remark       string              `gorm:"type:varchar(500)"`
	CancelledAt  *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in effective status
func NewPurchaseOrder(orderNumber string, supplierID uuid.UUID, supplierName string) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	return &PurchaseOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		SupplierID:        supplierID,
		SupplierName:      supplierName,
		Items:             make([]PurchaseOrderItem, 0),
		Subtotal:          decimal.Zero,
		Tax:               decimal.Zero,
		GrandTotal:        decimal.Zero,
		Status:            PurchaseOrderStatusEffective,
	}, nil
}

// AddItem adds a line to the order and recomputes the header totals
func (o *PurchaseOrder) AddItem(item *PurchaseOrderItem) error {
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

// ReplaceItems swaps the full line set and recomputes the header totals.
// The caller is responsible for reconciling the stock deltas between the
// old and the new line sets.
func (o *PurchaseOrder) ReplaceItems(items []PurchaseOrderItem) error {
	seen := make(map[uuid.UUID]bool, len(items))
	for idx := range items {
		if seen[items[idx].ProductID] {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product appears more than once in order")
		}
		seen[items[idx].ProductID] = true
		items[idx].OrderID = o.ID
	}

	o.Items = items
	o.recalculateTotals()
	o.Touch()
	o.IncrementVersion()

	return nil
}

// SetSupplier updates the supplier reference
func (o *PurchaseOrder) SetSupplier(supplierID uuid.UUID, supplierName string) error {
	if supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return shared.NewDomainError("INVALID_SUPPLIER_NAME", "Supplier name cannot be empty")
	}

	o.SupplierID = supplierID
	o.SupplierName = supplierName
	o.Touch()
	o.IncrementVersion()

	return nil
}

// SetRemark sets the order remark
func (o *PurchaseOrder) SetRemark(remark string) {
	o.Remark = remark
	o.Touch()
	o.IncrementVersion()
}

// Cancel transitions the order to cancelled.
// The caller must reverse the order's stock effect in the same transaction.
func (o *PurchaseOrder) Cancel() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusCancelled) {
		return shared.NewDomainError("ILLEGAL_TRANSITION", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = PurchaseOrderStatusCancelled
	o.CancelledAt = &now
	o.Touch()
	o.IncrementVersion()

	return nil
}

// Reactivate transitions a cancelled order back to effective.
// The caller must re-apply the order's stock effect in the same transaction.
func (o *PurchaseOrder) Reactivate() error {
	if !o.Status.CanTransitionTo(PurchaseOrderStatusEffective) {
		return shared.NewDomainError("ILLEGAL_TRANSITION", fmt.Sprintf("Cannot reactivate order in %s status", o.Status))
	}

	o.Status = PurchaseOrderStatusEffective
	o.CancelledAt = nil
	o.Touch()
	o.IncrementVersion()

	return nil
}

// recalculateTotals recomputes the header totals from the current line set
func (o *PurchaseOrder) recalculateTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Subtotal)
		tax = tax.Add(item.LineTax)
	}
	o.Subtotal = subtotal
	o.Tax = tax
	o.GrandTotal = subtotal.Add(tax)
}

// IsEffective returns true if the order is effective
func (o *PurchaseOrder) IsEffective() bool {
	return o.Status == PurchaseOrderStatusEffective
}

// IsCancelled returns true if the order is cancelled
func (o *PurchaseOrder) IsCancelled() bool {
	return o.Status == PurchaseOrderStatusCancelled
}

// GetItemByProduct returns the line for a product, or nil
func (o *PurchaseOrder) GetItemByProduct(productID uuid.UUID) *PurchaseOrderItem {
	for idx := range o.Items {
		if o.Items[idx].ProductID == productID {
			return &o.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of lines in the order
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}
