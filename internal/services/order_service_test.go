package services

import (
	"context"
	"testing"
	"time"

	"barpos/internal/common"
	"barpos/internal/models"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc      OrderServiceInterface
	tables   *fakeTableRepo
	orders   *fakeOrderRepo
	items    *fakeOrderItemRepo
	products *fakeProductRepo
	sales    *fakeSaleRepo
	txm      *fakeTxManager
	clock    *clockwork.FakeClock
	beer     *models.Product
	burger   *models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		tables:   newFakeTableRepo(),
		orders:   newFakeOrderRepo(),
		items:    newFakeOrderItemRepo(),
		products: newFakeProductRepo(),
		sales:    newFakeSaleRepo(),
		txm:      &fakeTxManager{},
		clock:    clockwork.NewFakeClockAt(time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC)),
	}
	f.tables.seed(1, 2, 3)

	f.beer = &models.Product{ID: uuid.New(), Name: "Beer", Price: 5.0}
	f.burger = &models.Product{ID: uuid.New(), Name: "Burger", Price: 12.5, SendToKitchen: true}
	f.products.seed(f.beer, f.burger)

	recorder := NewSaleService(f.sales, f.products, f.clock)
	f.svc = NewOrderService(f.txm, f.tables, f.orders, f.items, f.products, recorder,
		common.NewKeyedMutex(), f.clock)
	return f
}

func (f *orderFixture) openOrder(t *testing.T, tableID int) *models.Order {
	t.Helper()
	order, err := f.svc.OpenOrder(context.Background(), tableID)
	require.NoError(t, err)
	return order
}

func TestOpenOrderOccupiesTable(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.openOrder(t, 1)

	assert.Equal(t, models.OrderStatusOpen, order.Status)
	assert.Equal(t, 1, order.TableID)
	assert.Zero(t, order.TotalAmount)
	assert.Empty(t, order.Items)
	assert.Equal(t, f.clock.Now(), order.StartTime)

	table, err := f.tables.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, table.Status)
	require.NotNil(t, table.ActiveOrderID)
	assert.Equal(t, order.ID, *table.ActiveOrderID)
	require.NotNil(t, table.OccupiedSince)
	assert.Equal(t, f.clock.Now(), *table.OccupiedSince)
}

func TestOpenOrderOnOccupiedTableIsRejected(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	first := f.openOrder(t, 1)

	_, err := f.svc.OpenOrder(ctx, 1)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
	assert.Contains(t, err.Error(), "OCCUPIED")

	// The failed attempt must leave the first order untouched.
	table, err := f.tables.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, table.ActiveOrderID)
	assert.Equal(t, first.ID, *table.ActiveOrderID)
}

func TestOpenOrderUnknownTable(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.OpenOrder(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, common.IsNotFound(err))
}

func TestAddItemCapturesPriceAndMergesLines(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.openOrder(t, 1)

	order, err := f.svc.AddItem(ctx, order.ID, f.beer.ID, 2)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 5.0, order.Items[0].PriceAtOrder)
	assert.Equal(t, 10.0, order.TotalAmount)

	// A catalog price change after the first add must not reprice the line.
	repriced := *f.beer
	repriced.Price = 7.0
	require.NoError(t, f.products.Update(ctx, &repriced))

	order, err = f.svc.AddItem(ctx, order.ID, f.beer.ID, 1)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 5.0, order.Items[0].PriceAtOrder)
	assert.Equal(t, 15.0, order.TotalAmount)
}

func TestAddItemUnknownProduct(t *testing.T) {
	f := newOrderFixture(t)
	order := f.openOrder(t, 1)

	_, err := f.svc.AddItem(context.Background(), order.ID, uuid.New(), 1)
	require.Error(t, err)
	assert.True(t, common.IsNotFound(err))
}

func TestAddItemOnTerminalOrderIsRejected(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.openOrder(t, 1)

	_, err := f.svc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, order.ID, f.beer.ID, 1)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
	assert.Contains(t, err.Error(), string(models.OrderStatusCanceled))
}

func TestRemoveItemRecomputesTotal(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.openOrder(t, 1)

	order, err := f.svc.AddItem(ctx, order.ID, f.beer.ID, 2)
	require.NoError(t, err)
	order, err = f.svc.AddItem(ctx, order.ID, f.burger.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 22.5, order.TotalAmount)

	burgerLine := order.ItemForProduct(f.burger.ID)
	require.NotNil(t, burgerLine)

	order, err = f.svc.RemoveItem(ctx, order.ID, burgerLine.ID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 10.0, order.TotalAmount)
}

func TestRemoveItemFromAnotherOrderIsRejected(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	first := f.openOrder(t, 1)
	second := f.openOrder(t, 2)

	first, err := f.svc.AddItem(ctx, first.ID, f.beer.ID, 1)
	require.NoError(t, err)

	_, err = f.svc.RemoveItem(ctx, second.ID, first.Items[0].ID)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
}

func TestUpdateItemQuantityBelowOneRemovesLine(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.openOrder(t, 1)

	order, err := f.svc.AddItem(ctx, order.ID, f.beer.ID, 2)
	require.NoError(t, err)
	itemID := order.Items[0].ID

	order, err = f.svc.UpdateItemQuantity(ctx, order.ID, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, order.Items)
	assert.Zero(t, order.TotalAmount)

	stored, err := f.items.GetByID(ctx, itemID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestUpdateItemQuantity(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.openOrder(t, 1)

	order, err := f.svc.AddItem(ctx, order.ID, f.beer.ID, 2)
	require.NoError(t, err)

	order, err = f.svc.UpdateItemQuantity(ctx, order.ID, order.Items[0].ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, order.Items[0].Quantity)
	assert.Equal(t, 25.0, order.TotalAmount)
}

func TestCloseOrderRecordsSaleAndFreesTable(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.openOrder(t, 1)

	order, err := f.svc.AddItem(ctx, order.ID, f.beer.ID, 3)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, order.ID, f.burger.ID, 1)
	require.NoError(t, err)

	f.clock.Advance(45 * time.Minute)

	sale, err := f.svc.CloseOrder(ctx, order.ID, models.PaymentMethodCash)
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.Equal(t, order.ID, sale.OrderID)
	assert.Equal(t, 1, sale.TableID)
	assert.Equal(t, 27.5, sale.TotalAmount)
	assert.Equal(t, models.PaymentMethodCash, sale.PaymentMethod)
	assert.Equal(t, f.clock.Now(), sale.Timestamp)
	require.Len(t, sale.Items, 2)

	closed, err := f.svc.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, closed.Status)
	require.NotNil(t, closed.EndTime)
	require.NotNil(t, closed.PaymentMethod)
	assert.Equal(t, models.PaymentMethodCash, *closed.PaymentMethod)

	table, err := f.tables.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusFree, table.Status)
	assert.Nil(t, table.ActiveOrderID)
	assert.Nil(t, table.OccupiedSince)
}

func TestCloseEmptyOrderIsRejected(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.openOrder(t, 1)

	_, err := f.svc.CloseOrder(ctx, order.ID, models.PaymentMethodCash)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
	assert.Contains(t, err.Error(), "empty")

	// Table stays occupied after the failed close.
	table, err := f.tables.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, table.Status)
	assert.Zero(t, f.sales.count())
}

func TestCloseCanceledOrderIsRejected(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.openOrder(t, 1)

	_, err := f.svc.AddItem(ctx, order.ID, f.beer.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.svc.CloseOrder(ctx, order.ID, models.PaymentMethodPix)
	require.Error(t, err)
	assert.True(t, common.IsConflict(err))
	assert.Contains(t, err.Error(), string(models.OrderStatusCanceled))
}

func TestCancelOrderFreesTableWithoutSale(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	order := f.openOrder(t, 1)

	_, err := f.svc.AddItem(ctx, order.ID, f.beer.ID, 2)
	require.NoError(t, err)

	canceled, err := f.svc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCanceled, canceled.Status)
	require.NotNil(t, canceled.EndTime)
	assert.Nil(t, canceled.PaymentMethod)

	table, err := f.tables.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusFree, table.Status)
	assert.Zero(t, f.sales.count())
}

func TestGetActiveOrderForTable(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	// Idle table: no order and no error.
	order, err := f.svc.GetActiveOrderForTable(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, order)

	opened := f.openOrder(t, 1)
	order, err = f.svc.GetActiveOrderForTable(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, opened.ID, order.ID)

	_, err = f.svc.GetActiveOrderForTable(ctx, 99)
	require.Error(t, err)
	assert.True(t, common.IsNotFound(err))
}

// Full service flow: open, order two rounds, adjust, pay.
func TestOrderLifecycleScenario(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	order := f.openOrder(t, 2)

	order, err := f.svc.AddItem(ctx, order.ID, f.beer.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 10.0, order.TotalAmount)

	order, err = f.svc.AddItem(ctx, order.ID, f.beer.ID, 1)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 15.0, order.TotalAmount)

	sale, err := f.svc.CloseOrder(ctx, order.ID, models.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, 15.0, sale.TotalAmount)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Beer", sale.Items[0].ProductName)
	assert.Equal(t, 3, sale.Items[0].Quantity)

	table, err := f.tables.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusFree, table.Status)
}
