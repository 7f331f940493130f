package services

import (
	"context"
	"fmt"

	"github.com/gotodo/core/internal/domain/entities"
	"github.com/gotodo/core/internal/infrastructure/logger"
	"github.com/gotodo/core/internal/ports"
)

// CategoryService handles category-related operations
type CategoryService struct {
	categoryRepo ports.CategoryRepository
	logger       *logger.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo ports.CategoryRepository, logger *logger.Logger) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, logger: logger}
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, req ports.CreateCategoryRequest) (*entities.Category, error) {
	category := &entities.Category{Name: req.Name}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Infow("Category created", "category_id", category.ID, "name", category.Name)

	return category, nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*entities.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// UpdateCategory applies a full or partial update to a category
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, req ports.UpdateCategoryRequest) (*entities.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.logger.Infow("Category updated", "category_id", id)

	return category, nil
}

// DeleteCategory removes a category. The delete is rejected while any task
// still references it.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.logger.Infow("Category deleted", "category_id", id)

	return nil
}

// ListCategories retrieves categories with filtering and pagination
func (s *CategoryService) ListCategories(ctx context.Context, filter ports.CategoryFilter) ([]*entities.Category, int64, error) {
	categories, total, err := s.categoryRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, total, nil
}
