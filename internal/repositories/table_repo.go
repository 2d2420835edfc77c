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

// TableRepository is the table registry store. It holds no business rules:
// SetStatus trusts its caller, the state-machine checks live in the order
// service.
type TableRepository interface {
	CreateBatch(ctx context.Context, count int) error
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int) (*models.Table, error)
	List(ctx context.Context) ([]*models.Table, error)
	SetStatus(ctx context.Context, id int, status models.TableStatus, orderID *uuid.UUID, since *time.Time) error
	WithTx(tx pgx.Tx) TableRepository
}

type tableRepo struct {
	db Database
}

func NewTableRepo(db Database) TableRepository {
	return &tableRepo{db: db}
}

func (r *tableRepo) WithTx(tx pgx.Tx) TableRepository {
	return &tableRepo{db: tx}
}

func (r *tableRepo) CreateBatch(ctx context.Context, count int) error {
	query := `
		INSERT INTO tables (id, status)
		SELECT n, 'FREE' FROM generate_series(1, $1) AS n
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, count)
	return err
}

func (r *tableRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tables`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *tableRepo) GetByID(ctx context.Context, id int) (*models.Table, error) {
	table := &models.Table{}
	query := `
		SELECT id, status, active_order_id, occupied_since
		FROM tables
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&table.ID, &table.Status, &table.ActiveOrderID, &table.OccupiedSince)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (r *tableRepo) List(ctx context.Context) ([]*models.Table, error) {
	query := `
		SELECT id, status, active_order_id, occupied_since
		FROM tables
		ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []*models.Table
	for rows.Next() {
		table := &models.Table{}
		if err := rows.Scan(&table.ID, &table.Status, &table.ActiveOrderID, &table.OccupiedSince); err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (r *tableRepo) SetStatus(ctx context.Context, id int, status models.TableStatus, orderID *uuid.UUID, since *time.Time) error {
	query := `
		UPDATE tables
		SET status = $1, active_order_id = $2, occupied_since = $3
		WHERE id = $4
	`
	tag, err := r.db.Exec(ctx, query, status, orderID, since, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("table", id)
	}
	return nil
}
