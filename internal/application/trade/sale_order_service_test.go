package trade

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopdesk/backend/internal/domain/catalog"
	"github.com/shopdesk/backend/internal/domain/inventory"
	"github.com/shopdesk/backend/internal/domain/partner"
	"github.com/shopdesk/backend/internal/domain/shared/valueobject"
	"github.com/shopdesk/backend/internal/domain/trade"
)

type saleFixture struct {
	store    *memStore
	service  *SaleOrderService
	customer *partner.Customer
	product  *catalog.Product
	svc      *catalog.Service
}

func newSaleFixture(t *testing.T, config SaleOrderConfig) *saleFixture {
	t.Helper()

	store := newMemStore(inventory.ReversalPolicyClamp)

	customer, err := partner.NewCustomer("Jordan Reyes", "12345678")
	require.NoError(t, err)
	store.addCustomer(customer)

	product, err := catalog.NewProduct("PROD-001", "Bird Seed 1kg",
		valueobject.NewMoneyFromFloat(70), valueobject.NewMoneyFromFloat(100))
	require.NoError(t, err)
	require.NoError(t, product.SetTax(decimal.NewFromInt(19), true))
	product.Stock = decimal.NewFromInt(10)
	store.addProduct(product)

	svc, err := catalog.NewService("SRV-001", "Grooming", valueobject.NewMoneyFromFloat(30))
	require.NoError(t, err)
	store.addService(svc)

	calc := trade.NewLineCalculator(trade.StandardCalcDefaults())
	return &saleFixture{
		store:    store,
		service:  NewSaleOrderService(store, calc, config, zap.NewNop()),
		customer: customer,
		product:  product,
		svc:      svc,
	}
}

func (f *saleFixture) confirmedSale(t *testing.T, qty int64) *SaleOrderResponse {
	t.Helper()
	resp, err := f.service.CreateSale(context.Background(), &CreateSaleOrderRequest{
		CustomerID: &f.customer.ID,
		Items:      []SaleLineRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(qty)}},
	})
	require.NoError(t, err)
	return resp
}

func TestSaleOrderService_CreateSale(t *testing.T) {
	t.Run("sale is effective by default and deducts stock", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})

		resp := f.confirmedSale(t, 3)

		assert.Equal(t, "EFFECTIVE", resp.Status)
		assert.Equal(t, "300", resp.Subtotal.String())
		assert.Equal(t, "57", resp.Tax.String())
		assert.Equal(t, "357", resp.GrandTotal.String())
		assert.Equal(t, "7", f.store.stockOf(f.product.ID).String())

		moves := f.store.movementsOf(f.product.ID)
		require.Len(t, moves, 1)
		assert.Equal(t, inventory.MovementSaleOut, moves[0].Type)
		assert.Equal(t, "-3", moves[0].Quantity.String())
	})

	t.Run("pending sale touches no stock", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})

		resp, err := f.service.CreateSale(context.Background(), &CreateSaleOrderRequest{
			CustomerName: "Walk-in",
			Items:        []SaleLineRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(3)}},
			Pending:      true,
		})
		require.NoError(t, err)

		assert.Equal(t, "PENDING", resp.Status)
		assert.Equal(t, "10", f.store.stockOf(f.product.ID).String())
		assert.Empty(t, f.store.movementsOf(f.product.ID))
	})

	t.Run("service lines add untaxed revenue and move no stock", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})

		resp, err := f.service.CreateSale(context.Background(), &CreateSaleOrderRequest{
			CustomerName: "Walk-in",
			Items:        []SaleLineRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(1)}},
			ServiceItems: []SaleServiceLineRequest{{ServiceID: f.svc.ID, Quantity: decimal.NewFromInt(2)}},
		})
		require.NoError(t, err)

		assert.Equal(t, "160", resp.Subtotal.String()) // 100 + 2*30
		assert.Equal(t, "19", resp.Tax.String())
		assert.Equal(t, "179", resp.GrandTotal.String())
		assert.Equal(t, "9", f.store.stockOf(f.product.ID).String())
	})

	t.Run("payment records change due", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})

		resp, err := f.service.CreateSale(context.Background(), &CreateSaleOrderRequest{
			CustomerName:   "Walk-in",
			Items:          []SaleLineRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(1)}},
			AmountReceived: decimalPtr(decimal.NewFromInt(150)),
		})
		require.NoError(t, err)

		assert.Equal(t, "150", resp.AmountReceived.String())
		assert.Equal(t, "31", resp.ChangeDue.String()) // 150 - 119
	})

	t.Run("insufficient stock rejects the sale and persists nothing", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})

		_, err := f.service.CreateSale(context.Background(), &CreateSaleOrderRequest{
			CustomerName: "Walk-in",
			Items:        []SaleLineRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(20)}},
		})
		require.Error(t, err)

		assert.Equal(t, "10", f.store.stockOf(f.product.ID).String())
		assert.Empty(t, f.store.sales)
		assert.Empty(t, f.store.movementsOf(f.product.ID))
	})

	t.Run("sale without lines is rejected", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})

		_, err := f.service.CreateSale(context.Background(), &CreateSaleOrderRequest{CustomerName: "Walk-in"})
		assert.Error(t, err)
	})
}

func TestSaleOrderService_ChangeStatus(t *testing.T) {
	t.Run("confirming a pending sale deducts stock", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})

		resp, err := f.service.CreateSale(context.Background(), &CreateSaleOrderRequest{
			CustomerName: "Walk-in",
			Items:        []SaleLineRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(4)}},
			Pending:      true,
		})
		require.NoError(t, err)

		_, err = f.service.ChangeStatus(context.Background(), resp.ID,
			&ChangeSaleStatusRequest{Status: "EFFECTIVE"})
		require.NoError(t, err)

		assert.Equal(t, "6", f.store.stockOf(f.product.ID).String())
	})

	t.Run("cancelling an effective sale restores stock when configured", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})
		resp := f.confirmedSale(t, 3)

		_, err := f.service.ChangeStatus(context.Background(), resp.ID,
			&ChangeSaleStatusRequest{Status: "CANCELLED"})
		require.NoError(t, err)

		assert.Equal(t, "10", f.store.stockOf(f.product.ID).String())

		moves := f.store.movementsOf(f.product.ID)
		require.Len(t, moves, 2)
		assert.Equal(t, inventory.MovementSaleReversal, moves[1].Type)
	})

	t.Run("cancelling keeps stock down when reversal is disabled", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: false})
		resp := f.confirmedSale(t, 3)

		_, err := f.service.ChangeStatus(context.Background(), resp.ID,
			&ChangeSaleStatusRequest{Status: "CANCELLED"})
		require.NoError(t, err)

		assert.Equal(t, "7", f.store.stockOf(f.product.ID).String())
		assert.Len(t, f.store.movementsOf(f.product.ID), 1)
	})

	t.Run("cancelling a pending sale never touches stock", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})

		resp, err := f.service.CreateSale(context.Background(), &CreateSaleOrderRequest{
			CustomerName: "Walk-in",
			Items:        []SaleLineRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(4)}},
			Pending:      true,
		})
		require.NoError(t, err)

		_, err = f.service.ChangeStatus(context.Background(), resp.ID,
			&ChangeSaleStatusRequest{Status: "CANCELLED"})
		require.NoError(t, err)

		assert.Equal(t, "10", f.store.stockOf(f.product.ID).String())
		assert.Empty(t, f.store.movementsOf(f.product.ID))
	})
}

func TestSaleOrderService_CreateDevolution(t *testing.T) {
	returnReq := func(orderID uuid.UUID, productID uuid.UUID, qty int64) *CreateDevolutionRequest {
		return &CreateDevolutionRequest{
			OriginalOrderID: orderID,
			Items:           []DevolutionLineRequest{{ProductID: productID, Quantity: decimal.NewFromInt(qty)}},
		}
	}

	t.Run("partial return restores stock and refunds at sale prices", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})
		sale := f.confirmedSale(t, 5)

		resp, err := f.service.CreateDevolution(context.Background(), returnReq(sale.ID, f.product.ID, 2))
		require.NoError(t, err)

		assert.Equal(t, "DEVOLUTION", resp.Type)
		assert.Equal(t, "EFFECTIVE", resp.Status)
		require.NotNil(t, resp.OriginalOrderID)
		assert.Equal(t, sale.ID, *resp.OriginalOrderID)
		assert.Equal(t, "200", resp.Subtotal.String())
		assert.Equal(t, "238", resp.GrandTotal.String())
		assert.Equal(t, "7", f.store.stockOf(f.product.ID).String())

		moves := f.store.movementsOf(f.product.ID)
		last := moves[len(moves)-1]
		assert.Equal(t, inventory.MovementDevolutionIn, last.Type)
		assert.Equal(t, "2", last.Quantity.String())
	})

	t.Run("cumulative returns cannot exceed the sold quantity", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})
		sale := f.confirmedSale(t, 5)

		_, err := f.service.CreateDevolution(context.Background(), returnReq(sale.ID, f.product.ID, 2))
		require.NoError(t, err)
		_, err = f.service.CreateDevolution(context.Background(), returnReq(sale.ID, f.product.ID, 3))
		require.NoError(t, err)

		_, err = f.service.CreateDevolution(context.Background(), returnReq(sale.ID, f.product.ID, 1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RETURN_EXCEEDS_SOLD")

		assert.Equal(t, "10", f.store.stockOf(f.product.ID).String())
	})

	t.Run("single over-return is rejected and persists nothing", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})
		sale := f.confirmedSale(t, 5)
		before := len(f.store.movementsOf(f.product.ID))

		_, err := f.service.CreateDevolution(context.Background(), returnReq(sale.ID, f.product.ID, 6))
		require.Error(t, err)

		assert.Equal(t, "5", f.store.stockOf(f.product.ID).String())
		assert.Len(t, f.store.movementsOf(f.product.ID), before)
	})

	t.Run("full return marks the sale as returned", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})
		sale := f.confirmedSale(t, 5)

		_, err := f.service.CreateDevolution(context.Background(), returnReq(sale.ID, f.product.ID, 2))
		require.NoError(t, err)
		assert.Equal(t, trade.SaleOrderStatusEffective, f.store.saleByID(sale.ID).Status)

		_, err = f.service.CreateDevolution(context.Background(), returnReq(sale.ID, f.product.ID, 3))
		require.NoError(t, err)
		assert.Equal(t, trade.SaleOrderStatusReturned, f.store.saleByID(sale.ID).Status)
	})

	t.Run("returns against a pending sale are rejected", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})

		resp, err := f.service.CreateSale(context.Background(), &CreateSaleOrderRequest{
			CustomerName: "Walk-in",
			Items:        []SaleLineRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(5)}},
		})
		require.NoError(t, err)

		_, err = f.service.CreateDevolution(context.Background(), returnReq(resp.ID, f.product.ID, 1))
		assert.Error(t, err)
	})

	t.Run("product not on the original order is rejected", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})
		sale := f.confirmedSale(t, 5)

		_, err := f.service.CreateDevolution(context.Background(), returnReq(sale.ID, uuid.New(), 1))
		assert.Error(t, err)
	})

	t.Run("devolutions cannot change status", func(t *testing.T) {
		f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})
		sale := f.confirmedSale(t, 5)

		dev, err := f.service.CreateDevolution(context.Background(), returnReq(sale.ID, f.product.ID, 1))
		require.NoError(t, err)

		_, err = f.service.ChangeStatus(context.Background(), dev.ID,
			&ChangeSaleStatusRequest{Status: "CANCELLED"})
		assert.Error(t, err)
	})
}

// Concurrent confirmed sales against one product must never drive its
// stock negative; exactly as many sales succeed as stock covers.
func TestSaleOrderService_ConcurrentSales(t *testing.T) {
	f := newSaleFixture(t, SaleOrderConfig{ReverseStockOnCancel: true})

	const attempts = 25
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.CreateSale(context.Background(), &CreateSaleOrderRequest{
				CustomerName: "Walk-in",
				Items:        []SaleLineRequest{{ProductID: f.product.ID, Quantity: decimal.NewFromInt(1)}},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}

	assert.Equal(t, 10, succeeded)
	assert.True(t, f.store.stockOf(f.product.ID).IsZero())

	for _, m := range f.store.movementsOf(f.product.ID) {
		assert.False(t, m.ResultingStock.IsNegative())
	}
}
