package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopdesk/backend/internal/domain/trade"
)

// PurchaseLineRequest is one product line of a purchase order request
type PurchaseLineRequest struct {
	ProductID         uuid.UUID        `json:"product_id" binding:"required"`
	Quantity          decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice         *decimal.Decimal `json:"unit_price,omitempty"` // Defaults to the product's purchase price
	UpdateResalePrice bool             `json:"update_resale_price"`
}

// CreatePurchaseOrderRequest creates an effective purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID uuid.UUID             `json:"supplier_id" binding:"required"`
	Items      []PurchaseLineRequest `json:"items" binding:"required,min=1,dive"`
	Remark     string                `json:"remark" binding:"max=500"`
}

// UpdatePurchaseOrderRequest replaces the line set of an effective order.
// Lines are matched to the stored order by product ID; stock moves only by
// the per-product quantity difference.
type UpdatePurchaseOrderRequest struct {
	SupplierID *uuid.UUID            `json:"supplier_id,omitempty"`
	Items      []PurchaseLineRequest `json:"items" binding:"required,min=1,dive"`
	Remark     *string               `json:"remark,omitempty"`
}

// ChangePurchaseStatusRequest flips an order between effective and cancelled
type ChangePurchaseStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=EFFECTIVE CANCELLED"`
}

// SaleLineRequest is one product line of a sale request
type SaleLineRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"` // Defaults to the product's resale price
}

// SaleServiceLineRequest is one service line of a sale request
type SaleServiceLineRequest struct {
	ServiceID uuid.UUID        `json:"service_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"` // Defaults to the service's price
}

// CreateSaleOrderRequest creates a sale. Sales become effective on creation,
// deducting stock immediately; set Pending to hold the order without stock
// effect until it is confirmed.
type CreateSaleOrderRequest struct {
	CustomerID     *uuid.UUID               `json:"customer_id,omitempty"`
	CustomerName   string                   `json:"customer_name" binding:"max=200"`
	CustomerDoc    string                   `json:"customer_doc" binding:"max=50"`
	Items          []SaleLineRequest        `json:"items" binding:"dive"`
	ServiceItems   []SaleServiceLineRequest `json:"service_items" binding:"dive"`
	AmountReceived *decimal.Decimal         `json:"amount_received,omitempty"`
	Pending        bool                     `json:"pending"`
	Remark         string                   `json:"remark" binding:"max=500"`
}

// DevolutionLineRequest is one returned product line
type DevolutionLineRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateDevolutionRequest returns goods against an effective sale
type CreateDevolutionRequest struct {
	OriginalOrderID uuid.UUID               `json:"original_order_id" binding:"required"`
	Items           []DevolutionLineRequest `json:"items" binding:"required,min=1,dive"`
	Remark          string                  `json:"remark" binding:"max=500"`
}

// ChangeSaleStatusRequest moves a sale along its lifecycle
type ChangeSaleStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=EFFECTIVE CANCELLED"`
}

// OrderLineResponse is one product line in an order response
type OrderLineResponse struct {
	ProductID       uuid.UUID       `json:"product_id"`
	ProductCode     string          `json:"product_code"`
	ProductName     string          `json:"product_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	UnitTax         decimal.Decimal `json:"unit_tax"`
	LineTax         decimal.Decimal `json:"line_tax"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	SubtotalWithTax decimal.Decimal `json:"subtotal_with_tax"`
}

// ServiceLineResponse is one service line in a sale response
type ServiceLineResponse struct {
	ServiceID   uuid.UUID       `json:"service_id"`
	ServiceName string          `json:"service_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PurchaseOrderResponse is the API shape of a purchase order
type PurchaseOrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	SupplierID   uuid.UUID           `json:"supplier_id"`
	SupplierName string              `json:"supplier_name"`
	Status       string              `json:"status"`
	Items        []OrderLineResponse `json:"items"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Tax          decimal.Decimal     `json:"tax"`
	GrandTotal   decimal.Decimal     `json:"grand_total"`
	Remark       string              `json:"remark,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// SaleOrderResponse is the API shape of a sale or devolution
type SaleOrderResponse struct {
	ID              uuid.UUID             `json:"id"`
	OrderNumber     string                `json:"order_number"`
	Type            string                `json:"type"`
	Status          string                `json:"status"`
	CustomerID      *uuid.UUID            `json:"customer_id,omitempty"`
	CustomerName    string                `json:"customer_name,omitempty"`
	OriginalOrderID *uuid.UUID            `json:"original_order_id,omitempty"`
	Items           []OrderLineResponse   `json:"items"`
	ServiceItems    []ServiceLineResponse `json:"service_items,omitempty"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	Tax             decimal.Decimal       `json:"tax"`
	GrandTotal      decimal.Decimal       `json:"grand_total"`
	AmountReceived  decimal.Decimal       `json:"amount_received"`
	ChangeDue       decimal.Decimal       `json:"change_due"`
	Remark          string                `json:"remark,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ToPurchaseOrderResponse maps a purchase order aggregate to its API shape
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) *PurchaseOrderResponse {
	items := make([]OrderLineResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderLineResponse{
			ProductID:       item.ProductID,
			ProductCode:     item.ProductCode,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			UnitTax:         item.UnitTax,
			LineTax:         item.LineTax,
			Subtotal:        item.Subtotal,
			SubtotalWithTax: item.SubtotalWithTax,
		})
	}

	return &PurchaseOrderResponse{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		SupplierID:   order.SupplierID,
		SupplierName: order.SupplierName,
		Status:       order.Status.String(),
		Items:        items,
		Subtotal:     order.Subtotal,
		Tax:          order.Tax,
		GrandTotal:   order.GrandTotal,
		Remark:       order.Remark,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

// ToSaleOrderResponse maps a sale order aggregate to its API shape
func ToSaleOrderResponse(order *trade.SaleOrder) *SaleOrderResponse {
	items := make([]OrderLineResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderLineResponse{
			ProductID:       item.ProductID,
			ProductCode:     item.ProductCode,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			UnitTax:         item.UnitTax,
			LineTax:         item.LineTax,
			Subtotal:        item.Subtotal,
			SubtotalWithTax: item.SubtotalWithTax,
		})
	}

	serviceItems := make([]ServiceLineResponse, 0, len(order.ServiceItems))
	for _, item := range order.ServiceItems {
		serviceItems = append(serviceItems, ServiceLineResponse{
			ServiceID:   item.ServiceID,
			ServiceName: item.ServiceName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}

	return &SaleOrderResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		Type:            string(order.Type),
		Status:          order.Status.String(),
		CustomerID:      order.CustomerID,
		CustomerName:    order.CustomerName,
		OriginalOrderID: order.OriginalOrderID,
		Items:           items,
		ServiceItems:    serviceItems,
		Subtotal:        order.Subtotal,
		Tax:             order.Tax,
		GrandTotal:      order.GrandTotal,
		AmountReceived:  order.AmountReceived,
		ChangeDue:       order.ChangeDue,
		Remark:          order.Remark,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
