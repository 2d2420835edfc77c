package services

import (
	"context"
	"log"

	"barpos/internal/common"
	"barpos/internal/models"
	"barpos/internal/repositories"
)

// TableServiceInterface exposes the table registry reads and the one-time
// pool initialization.
type TableServiceInterface interface {
	InitializeTables(ctx context.Context, count int) error
	ListTables(ctx context.Context) ([]*models.Table, error)
	GetTableByID(ctx context.Context, id int) (*models.Table, error)
}

type tableService struct {
	tableRepo repositories.TableRepository
}

func NewTableService(tableRepo repositories.TableRepository) TableServiceInterface {
	return &tableService{tableRepo: tableRepo}
}

// InitializeTables seeds the fixed table pool (ids 1..count, all FREE).
// Idempotent: a no-op when any tables already exist.
func (s *tableService) InitializeTables(ctx context.Context, count int) error {
	existing, err := s.tableRepo.Count(ctx)
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}
	if err := s.tableRepo.CreateBatch(ctx, count); err != nil {
		return err
	}
	log.Printf("Initialized %d tables", count)
	return nil
}

func (s *tableService) ListTables(ctx context.Context) ([]*models.Table, error) {
	return s.tableRepo.List(ctx)
}

func (s *tableService) GetTableByID(ctx context.Context, id int) (*models.Table, error) {
	table, err := s.tableRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, common.NewNotFound("table", id)
	}
	return table, nil
}
