package services

import (
	"context"
	"log"
	"time"

	"barpos/internal/caching"
	"barpos/internal/common"
	"barpos/internal/models"
	"barpos/internal/repositories"

	"github.com/google/uuid"
)

const productCacheTTL = 10 * time.Minute

// ProductServiceInterface is the product catalog. The order service reads it
// to resolve price, name and kitchen flag at add-time.
type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, product *models.Product, categoryName string) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Product, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	itemRepo     repositories.OrderItemRepository
	cacheSvc     caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, categoryRepo repositories.CategoryRepository,
	itemRepo repositories.OrderItemRepository, cacheSvc caching.CacheService) ProductServiceInterface {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		cacheSvc:     cacheSvc,
	}
}

// CreateProduct stores a new catalog entry. When the category id is unset the
// category is resolved by name instead.
func (s *productService) CreateProduct(ctx context.Context, product *models.Product, categoryName string) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CategoryID == uuid.Nil {
		category, err := s.categoryRepo.GetByName(ctx, categoryName)
		if err != nil {
			return err
		}
		if category == nil {
			return common.NewNotFound("category", categoryName)
		}
		product.CategoryID = category.ID
	}
	return s.productRepo.Create(ctx, product)
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cacheSvc.GetProduct(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, common.NewNotFound("product", id)
	}

	if err := s.cacheSvc.SetProduct(ctx, product, productCacheTTL); err != nil {
		log.Printf("Failed to cache product %s: %v", id, err)
	}
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, product *models.Product) error {
	existing, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return common.NewNotFound("product", product.ID)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteProduct(ctx, product.ID); err != nil {
		log.Printf("Failed to invalidate product cache %s: %v", product.ID, err)
	}
	return nil
}

// DeleteProduct removes a catalog entry. Refused while order items still
// reference the product, since open tabs and future sale snapshots need it.
func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return common.NewNotFound("product", id)
	}

	refs, err := s.itemRepo.CountByProduct(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return common.NewConflict("product %s is referenced by %d order item(s) and cannot be deleted", id, refs)
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cacheSvc.DeleteProduct(ctx, id); err != nil {
		log.Printf("Failed to invalidate product cache %s: %v", id, err)
	}
	return nil
}

func (s *productService) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.productRepo.List(ctx, limit, offset)
}

func (s *productService) ListProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]*models.Product, error) {
	return s.productRepo.ListByCategory(ctx, categoryID)
}
