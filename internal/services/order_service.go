package services

import (
	"context"

	"barpos/internal/common"
	"barpos/internal/models"
	"barpos/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
)

// OrderServiceInterface owns the order lifecycle state machine
// (OPEN -> PAID via close, OPEN -> CANCELED via cancel; both terminal) and
// keeps the table registry synchronized with it.
type OrderServiceInterface interface {
	OpenOrder(ctx context.Context, tableID int) (*models.Order, error)
	AddItem(ctx context.Context, orderID, productID uuid.UUID, quantity int) (*models.Order, error)
	RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.Order, error)
	UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, newQuantity int) (*models.Order, error)
	CloseOrder(ctx context.Context, orderID uuid.UUID, paymentMethod models.PaymentMethod) (*models.Sale, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	GetActiveOrderForTable(ctx context.Context, tableID int) (*models.Order, error)
}

type orderService struct {
	txm          repositories.TxManager
	tableRepo    repositories.TableRepository
	orderRepo    repositories.OrderRepository
	itemRepo     repositories.OrderItemRepository
	productRepo  repositories.ProductRepository
	saleRecorder SaleRecorder
	locks        *common.KeyedMutex
	clock        clockwork.Clock
}

// NewOrderService creates a new order service. The locks registry must be the
// same instance the alert monitor uses, so table mutations from both sides
// are serialized per table.
func NewOrderService(txm repositories.TxManager, tableRepo repositories.TableRepository,
	orderRepo repositories.OrderRepository, itemRepo repositories.OrderItemRepository,
	productRepo repositories.ProductRepository, saleRecorder SaleRecorder,
	locks *common.KeyedMutex, clock clockwork.Clock) OrderServiceInterface {
	return &orderService{
		txm:          txm,
		tableRepo:    tableRepo,
		orderRepo:    orderRepo,
		itemRepo:     itemRepo,
		productRepo:  productRepo,
		saleRecorder: saleRecorder,
		locks:        locks,
		clock:        clock,
	}
}

// OpenOrder allocates a new open order on a free table and flips the table
// to OCCUPIED. Order row and table row are written in one transaction.
func (s *orderService) OpenOrder(ctx context.Context, tableID int) (*models.Order, error) {
	unlock := s.locks.Lock(common.TableKey(tableID))
	defer unlock()

	table, err := s.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, common.NewNotFound("table", tableID)
	}
	if table.Status != models.TableStatusFree {
		return nil, common.NewConflict("table %d is not free to open a new order, current status: %s", tableID, table.Status)
	}

	now := s.clock.Now()
	order := &models.Order{
		ID:          uuid.New(),
		TableID:     tableID,
		Items:       []*models.OrderItem{},
		TotalAmount: 0,
		Status:      models.OrderStatusOpen,
		StartTime:   now,
	}

	err = s.txm.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := s.orderRepo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		return s.tableRepo.WithTx(tx).SetStatus(ctx, tableID, models.TableStatusOccupied, &order.ID, &now)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddItem adds a product line to an order, or increments the quantity of the
// existing line for the same product. Price and kitchen flag are copied from
// the catalog only when the line is first created.
func (s *orderService) AddItem(ctx context.Context, orderID, productID uuid.UUID, quantity int) (*models.Order, error) {
	unlock := s.locks.Lock(common.OrderKey(orderID))
	defer unlock()

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOpen(order, "modified"); err != nil {
		return nil, err
	}

	created := false
	existing := order.ItemForProduct(productID)
	if existing != nil {
		existing.Quantity += quantity
	} else {
		created = true
		product, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, common.NewNotFound("product", productID)
		}
		existing = &models.OrderItem{
			ID:            uuid.New(),
			OrderID:       orderID,
			ProductID:     productID,
			Quantity:      quantity,
			PriceAtOrder:  product.Price,
			SendToKitchen: product.SendToKitchen,
		}
		order.Items = append(order.Items, existing)
	}
	order.RecalculateTotal()

	err = s.txm.RunInTx(ctx, func(tx pgx.Tx) error {
		itemRepo := s.itemRepo.WithTx(tx)
		if created {
			if err := itemRepo.Create(ctx, existing); err != nil {
				return err
			}
		} else {
			if err := itemRepo.UpdateQuantity(ctx, existing.ID, existing.Quantity); err != nil {
				return err
			}
		}
		return s.orderRepo.WithTx(tx).UpdateTotal(ctx, orderID, order.TotalAmount)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// RemoveItem deletes a line from an order and recomputes the total. The line
// must belong to the given order.
func (s *orderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*models.Order, error) {
	unlock := s.locks.Lock(common.OrderKey(orderID))
	defer unlock()
	return s.removeItemLocked(ctx, orderID, itemID)
}

func (s *orderService) removeItemLocked(ctx context.Context, orderID, itemID uuid.UUID) (*models.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOpen(order, "modified"); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, common.NewNotFound("order item", itemID)
	}
	if item.OrderID != orderID {
		return nil, common.NewConflict("order item %s does not belong to order %s", itemID, orderID)
	}

	kept := order.Items[:0]
	for _, it := range order.Items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	order.Items = kept
	order.RecalculateTotal()

	err = s.txm.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := s.itemRepo.WithTx(tx).Delete(ctx, itemID); err != nil {
			return err
		}
		return s.orderRepo.WithTx(tx).UpdateTotal(ctx, orderID, order.TotalAmount)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateItemQuantity sets a line's quantity. A quantity below 1 removes the
// line, exactly as RemoveItem would.
func (s *orderService) UpdateItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, newQuantity int) (*models.Order, error) {
	unlock := s.locks.Lock(common.OrderKey(orderID))
	defer unlock()

	if newQuantity < 1 {
		return s.removeItemLocked(ctx, orderID, itemID)
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOpen(order, "modified"); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, common.NewNotFound("order item", itemID)
	}
	if item.OrderID != orderID {
		return nil, common.NewConflict("order item %s does not belong to order %s", itemID, orderID)
	}

	for _, it := range order.Items {
		if it.ID == itemID {
			it.Quantity = newQuantity
		}
	}
	order.RecalculateTotal()

	err = s.txm.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := s.itemRepo.WithTx(tx).UpdateQuantity(ctx, itemID, newQuantity); err != nil {
			return err
		}
		return s.orderRepo.WithTx(tx).UpdateTotal(ctx, orderID, order.TotalAmount)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CloseOrder finalizes an open, non-empty order as PAID, records the sale
// snapshot and frees the table. All three writes commit in one transaction.
func (s *orderService) CloseOrder(ctx context.Context, orderID uuid.UUID, paymentMethod models.PaymentMethod) (*models.Sale, error) {
	unlockOrder := s.locks.Lock(common.OrderKey(orderID))
	defer unlockOrder()

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusOpen {
		return nil, common.NewConflict("order %s cannot be closed, current status: %s", orderID, order.Status)
	}
	if len(order.Items) == 0 {
		return nil, common.NewConflict("order %s has no items, cannot close an empty order", orderID)
	}

	// Order lock is always taken before the table lock; the monitor only ever
	// takes a table lock, so this ordering cannot deadlock.
	unlockTable := s.locks.Lock(common.TableKey(order.TableID))
	defer unlockTable()

	now := s.clock.Now()
	order.EndTime = &now
	order.Status = models.OrderStatusPaid
	order.PaymentMethod = &paymentMethod

	var sale *models.Sale
	err = s.txm.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := s.orderRepo.WithTx(tx).Update(ctx, order); err != nil {
			return err
		}
		recorded, err := s.saleRecorder.RecordSale(ctx, tx, order)
		if err != nil {
			return err
		}
		sale = recorded
		return s.tableRepo.WithTx(tx).SetStatus(ctx, order.TableID, models.TableStatusFree, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// CancelOrder finalizes an open order as CANCELED and frees the table.
// No sale is recorded.
func (s *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	unlockOrder := s.locks.Lock(common.OrderKey(orderID))
	defer unlockOrder()

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusOpen {
		return nil, common.NewConflict("order %s cannot be canceled, current status: %s", orderID, order.Status)
	}

	unlockTable := s.locks.Lock(common.TableKey(order.TableID))
	defer unlockTable()

	now := s.clock.Now()
	order.EndTime = &now
	order.Status = models.OrderStatusCanceled

	err = s.txm.RunInTx(ctx, func(tx pgx.Tx) error {
		if err := s.orderRepo.WithTx(tx).Update(ctx, order); err != nil {
			return err
		}
		return s.tableRepo.WithTx(tx).SetStatus(ctx, order.TableID, models.TableStatusFree, nil, nil)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrderByID returns an order with its items.
func (s *orderService) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.loadOrder(ctx, orderID)
}

// GetActiveOrderForTable returns the table's current order, or nil when the
// table has none. An unknown table id is an error; an idle table is not.
func (s *orderService) GetActiveOrderForTable(ctx context.Context, tableID int) (*models.Order, error) {
	table, err := s.tableRepo.GetByID(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, common.NewNotFound("table", tableID)
	}
	if table.ActiveOrderID == nil {
		return nil, nil
	}
	return s.loadOrder(ctx, *table.ActiveOrderID)
}

func (s *orderService) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, common.NewNotFound("order", orderID)
	}
	items, err := s.itemRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// Item mutations on a terminal order are rejected. The data model does not
// enforce this; the service does, so a paid or canceled tab can never drift
// from the sale that snapshotted it.
func (s *orderService) requireOpen(order *models.Order, verb string) error {
	if order.Status != models.OrderStatusOpen {
		return common.NewConflict("order %s cannot be %s, current status: %s", order.ID, verb, order.Status)
	}
	return nil
}
