package repositories

import (
	"context"
	"errors"

	"barpos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderItemRepository interface {
	Create(ctx context.Context, item *models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int, error)
	WithTx(tx pgx.Tx) OrderItemRepository
}

type orderItemRepo struct {
	db Database
}

func NewOrderItemRepo(db Database) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) WithTx(tx pgx.Tx) OrderItemRepository {
	return &orderItemRepo{db: tx}
}

func (r *orderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price_at_order, send_to_kitchen)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.PriceAtOrder, item.SendToKitchen)
	return err
}

func (r *orderItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	query := `
		SELECT id, order_id, product_id, quantity, price_at_order, send_to_kitchen
		FROM order_items
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtOrder, &item.SendToKitchen)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *orderItemRepo) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `UPDATE order_items SET quantity = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, quantity, id)
	return err
}

func (r *orderItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM order_items WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *orderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, price_at_order, send_to_kitchen
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtOrder, &item.SendToKitchen); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderItemRepo) CountByProduct(ctx context.Context, productID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE product_id = $1`, productID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
