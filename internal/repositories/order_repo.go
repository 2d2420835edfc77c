package repositories

import (
	"context"
	"errors"

	"barpos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	UpdateTotal(ctx context.Context, id uuid.UUID, total float64) error
	WithTx(tx pgx.Tx) OrderRepository
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) WithTx(tx pgx.Tx) OrderRepository {
	return &orderRepo{db: tx}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, table_id, total_amount, status, start_time, end_time, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query, order.ID, order.TableID, order.TotalAmount, order.Status, order.StartTime, order.EndTime, order.PaymentMethod)
	return err
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}
	query := `
		SELECT id, table_id, total_amount, status, start_time, end_time, payment_method
		FROM orders
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.TableID, &order.TotalAmount, &order.Status, &order.StartTime, &order.EndTime, &order.PaymentMethod)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) Update(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET total_amount = $1, status = $2, end_time = $3, payment_method = $4
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, order.TotalAmount, order.Status, order.EndTime, order.PaymentMethod, order.ID)
	return err
}

func (r *orderRepo) UpdateTotal(ctx context.Context, id uuid.UUID, total float64) error {
	query := `UPDATE orders SET total_amount = $1 WHERE id = $2`
	_, err := r.db.Exec(ctx, query, total, id)
	return err
}
