package services

import (
	"context"
	"time"

	"barpos/internal/common"
	"barpos/internal/models"
	"barpos/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonboulle/clockwork"
)

// SaleRecorder snapshots a closed order into an immutable sale record. The
// order service calls it inside the close transaction so the sale commits or
// rolls back together with the order and table writes.
type SaleRecorder interface {
	RecordSale(ctx context.Context, tx pgx.Tx, order *models.Order) (*models.Sale, error)
}

// SaleServiceInterface is the sale recorder plus the reporting reads the POS
// screens use.
type SaleServiceInterface interface {
	SaleRecorder
	GetSaleByID(ctx context.Context, id uuid.UUID) (*models.Sale, error)
	ListSales(ctx context.Context, limit, offset int) ([]*models.Sale, error)
	GetSalesByDate(ctx context.Context, day time.Time) ([]*models.Sale, error)
	DeleteSale(ctx context.Context, id uuid.UUID) error
}

type saleService struct {
	saleRepo    repositories.SaleRepository
	productRepo repositories.ProductRepository
	clock       clockwork.Clock
}

func NewSaleService(saleRepo repositories.SaleRepository, productRepo repositories.ProductRepository, clock clockwork.Clock) SaleServiceInterface {
	return &saleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		clock:       clock,
	}
}

// RecordSale deep-copies the order's lines into sale items: product id and
// name, price at order time, quantity and kitchen flag are all captured by
// value, so later catalog or order mutations never reach the sale.
func (s *saleService) RecordSale(ctx context.Context, tx pgx.Tx, order *models.Order) (*models.Sale, error) {
	if order.PaymentMethod == nil {
		return nil, common.NewConflict("order %s has no payment method, cannot record sale", order.ID)
	}

	sale := &models.Sale{
		ID:            uuid.New(),
		OrderID:       order.ID,
		TableID:       order.TableID,
		TotalAmount:   order.TotalAmount,
		PaymentMethod: *order.PaymentMethod,
		Timestamp:     s.clock.Now(),
	}

	for _, item := range order.Items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, common.NewNotFound("product", item.ProductID)
		}
		sale.Items = append(sale.Items, &models.SaleItem{
			ID:            uuid.New(),
			SaleID:        sale.ID,
			ProductID:     item.ProductID,
			ProductName:   product.Name,
			PriceAtSale:   item.PriceAtOrder,
			Quantity:      item.Quantity,
			SendToKitchen: item.SendToKitchen,
		})
	}

	repo := s.saleRepo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	if err := repo.Create(ctx, sale); err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *saleService) GetSaleByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, common.NewNotFound("sale", id)
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, limit, offset int) ([]*models.Sale, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.saleRepo.List(ctx, limit, offset)
}

// GetSalesByDate returns the sales recorded during one calendar day.
func (s *saleService) GetSalesByDate(ctx context.Context, day time.Time) ([]*models.Sale, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)
	return s.saleRepo.ListByTimestampRange(ctx, start, end)
}

// DeleteSale removes a sale unconditionally. Sales are independent
// historical records; nothing references them.
func (s *saleService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	return s.saleRepo.Delete(ctx, id)
}
