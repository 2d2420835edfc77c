package services

import (
	"context"
	"sync"
	"time"

	"barpos/internal/common"
	"barpos/internal/models"
	"barpos/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory fakes backing the lifecycle tests. They return copies on reads
// so the code under test cannot mutate stored state through aliased pointers.

type fakeTxManager struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (m *fakeTxManager) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	return fn(nil)
}

type fakeTableRepo struct {
	mu     sync.Mutex
	tables map[int]*models.Table
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: make(map[int]*models.Table)}
}

func (r *fakeTableRepo) seed(ids ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.tables[id] = &models.Table{ID: id, Status: models.TableStatusFree}
	}
}

func (r *fakeTableRepo) CreateBatch(ctx context.Context, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 1; i <= count; i++ {
		if _, ok := r.tables[i]; !ok {
			r.tables[i] = &models.Table{ID: i, Status: models.TableStatusFree}
		}
	}
	return nil
}

func (r *fakeTableRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tables), nil
}

func (r *fakeTableRepo) GetByID(ctx context.Context, id int) (*models.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTableRepo) List(ctx context.Context) ([]*models.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Table, 0, len(r.tables))
	for _, t := range r.tables {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeTableRepo) SetStatus(ctx context.Context, id int, status models.TableStatus, orderID *uuid.UUID, since *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tables[id]
	if !ok {
		return common.NewNotFound("table", id)
	}
	t.Status = status
	t.ActiveOrderID = orderID
	t.OccupiedSince = since
	return nil
}

func (r *fakeTableRepo) WithTx(tx pgx.Tx) repositories.TableRepository { return r }

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *order
	cp.Items = nil
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = nil
	return &cp, nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return common.NewNotFound("order", order.ID)
	}
	cp := *order
	cp.Items = nil
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) UpdateTotal(ctx context.Context, id uuid.UUID, total float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return common.NewNotFound("order", id)
	}
	o.TotalAmount = total
	return nil
}

func (r *fakeOrderRepo) WithTx(tx pgx.Tx) repositories.OrderRepository { return r }

type fakeOrderItemRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*models.OrderItem
}

func newFakeOrderItemRepo() *fakeOrderItemRepo {
	return &fakeOrderItemRepo{items: make(map[uuid.UUID]*models.OrderItem)}
}

func (r *fakeOrderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeOrderItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeOrderItemRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return common.NewNotFound("order item", id)
	}
	it.Quantity = quantity
	return nil
}

func (r *fakeOrderItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeOrderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.OrderItem
	for _, it := range r.items {
		if it.OrderID == orderID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeOrderItemRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, it := range r.items {
		if it.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func (r *fakeOrderItemRepo) WithTx(tx pgx.Tx) repositories.OrderItemRepository { return r }

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (r *fakeProductRepo) seed(products ...*models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range products {
		cp := *p
		r.products[p.ID] = &cp
	}
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return common.NewNotFound("product", product.ID)
	}
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Product
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeProductRepo) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Product
	for _, p := range r.products {
		if p.CategoryID == categoryID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeSaleRepo struct {
	mu    sync.Mutex
	sales map[uuid.UUID]*models.Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[uuid.UUID]*models.Sale)}
}

func (r *fakeSaleRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sales)
}

func (r *fakeSaleRepo) Create(ctx context.Context, sale *models.Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sale
	cp.Items = make([]*models.SaleItem, len(sale.Items))
	for i, it := range sale.Items {
		itemCp := *it
		cp.Items[i] = &itemCp
	}
	r.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.Items = make([]*models.SaleItem, len(s.Items))
	for i, it := range s.Items {
		itemCp := *it
		cp.Items[i] = &itemCp
	}
	return &cp, nil
}

func (r *fakeSaleRepo) List(ctx context.Context, limit, offset int) ([]*models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Sale
	for _, s := range r.sales {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSaleRepo) ListByTimestampRange(ctx context.Context, from, to time.Time) ([]*models.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Sale
	for _, s := range r.sales {
		if !s.Timestamp.Before(from) && s.Timestamp.Before(to) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sales[id]; !ok {
		return common.NewNotFound("sale", id)
	}
	delete(r.sales, id)
	return nil
}

func (r *fakeSaleRepo) WithTx(tx pgx.Tx) repositories.SaleRepository { return r }
