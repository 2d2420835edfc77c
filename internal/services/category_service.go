package services

import (
	"context"

	"barpos/internal/common"
	"barpos/internal/models"
	"barpos/internal/repositories"

	"github.com/google/uuid"
)

type CategoryServiceInterface interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository, productRepo repositories.ProductRepository) CategoryServiceInterface {
	return &categoryService{categoryRepo: categoryRepo, productRepo: productRepo}
}

func (s *categoryService) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	existing, err := s.categoryRepo.GetByName(ctx, category.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return common.NewConflict("category %q already exists", category.Name)
	}
	return s.categoryRepo.Create(ctx, category)
}

func (s *categoryService) GetCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, common.NewNotFound("category", id)
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, category *models.Category) error {
	existing, err := s.categoryRepo.GetByID(ctx, category.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return common.NewNotFound("category", category.ID)
	}
	return s.categoryRepo.Update(ctx, category)
}

// DeleteCategory removes a category unless products still use it.
func (s *categoryService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	existing, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return common.NewNotFound("category", id)
	}

	products, err := s.productRepo.ListByCategory(ctx, id)
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return common.NewConflict("category %s still has %d product(s) and cannot be deleted", id, len(products))
	}
	return s.categoryRepo.Delete(ctx, id)
}

func (s *categoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}
