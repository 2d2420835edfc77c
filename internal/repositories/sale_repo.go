package repositories

import (
	"context"
	"errors"
	"time"

	"barpos/internal/common"
	"barpos/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SaleRepository interface {
	Create(ctx context.Context, sale *models.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	List(ctx context.Context, limit, offset int) ([]*models.Sale, error)
	ListByTimestampRange(ctx context.Context, from, to time.Time) ([]*models.Sale, error)
	Delete(ctx context.Context, id uuid.UUID) error
	WithTx(tx pgx.Tx) SaleRepository
}

type saleRepo struct {
	db Database
}

func NewSaleRepo(db Database) SaleRepository {
	return &saleRepo{db: db}
}

func (r *saleRepo) WithTx(tx pgx.Tx) SaleRepository {
	return &saleRepo{db: tx}
}

func (r *saleRepo) Create(ctx context.Context, sale *models.Sale) error {
	query := `
		INSERT INTO sales (id, order_id, table_id, total_amount, payment_method, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query, sale.ID, sale.OrderID, sale.TableID, sale.TotalAmount, sale.PaymentMethod, sale.Timestamp)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO sale_items (id, sale_id, product_id, product_name, price_at_sale, quantity, send_to_kitchen)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, item := range sale.Items {
		if _, err := r.db.Exec(ctx, itemQuery, item.ID, item.SaleID, item.ProductID, item.ProductName, item.PriceAtSale, item.Quantity, item.SendToKitchen); err != nil {
			return err
		}
	}
	return nil
}

func (r *saleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale := &models.Sale{}
	query := `
		SELECT id, order_id, table_id, total_amount, payment_method, timestamp
		FROM sales
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&sale.ID, &sale.OrderID, &sale.TableID, &sale.TotalAmount, &sale.PaymentMethod, &sale.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, id)
	if err != nil {
		return nil, err
	}
	sale.Items = items
	return sale, nil
}

func (r *saleRepo) listItems(ctx context.Context, saleID uuid.UUID) ([]*models.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, product_name, price_at_sale, quantity, send_to_kitchen
		FROM sale_items
		WHERE sale_id = $1
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.SaleItem
	for rows.Next() {
		item := &models.SaleItem{}
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.ProductName, &item.PriceAtSale, &item.Quantity, &item.SendToKitchen); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *saleRepo) List(ctx context.Context, limit, offset int) ([]*models.Sale, error) {
	query := `
		SELECT id, order_id, table_id, total_amount, payment_method, timestamp
		FROM sales
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanSales(rows)
}

func (r *saleRepo) ListByTimestampRange(ctx context.Context, from, to time.Time) ([]*models.Sale, error) {
	query := `
		SELECT id, order_id, table_id, total_amount, payment_method, timestamp
		FROM sales
		WHERE timestamp >= $1 AND timestamp < $2
		ORDER BY timestamp DESC
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanSales(rows)
}

func (r *saleRepo) scanSales(rows pgx.Rows) ([]*models.Sale, error) {
	var sales []*models.Sale
	for rows.Next() {
		sale := &models.Sale{}
		if err := rows.Scan(&sale.ID, &sale.OrderID, &sale.TableID, &sale.TotalAmount, &sale.PaymentMethod, &sale.Timestamp); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

func (r *saleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// sale_items go via ON DELETE CASCADE
	tag, err := r.db.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("sale", id)
	}
	return nil
}
