package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"balcao/internal/caching"
	"balcao/internal/common"
	"balcao/internal/models"
	"balcao/internal/repositories"

	"github.com/google/uuid"
)

type CategoryService interface {
	Create(ctx context.Context, name string) (*models.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Category, error)
}

type categoryService struct {
	categories repositories.CategoryRepository
	registry   *caching.Registry
	list       *caching.View[[]*models.Category]
}

func NewCategoryService(categories repositories.CategoryRepository, registry *caching.Registry, cache caching.CacheService, cacheTTL time.Duration) CategoryService {
	return &categoryService{
		categories: categories,
		registry:   registry,
		list:       caching.NewView[[]*models.Category](registry, cache, "categories", cacheTTL, caching.KeyCategories),
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return "", err
	}
	if len(name) > 100 {
		return "", common.NewValidationError("name", "cannot exceed 100 characters")
	}
	return name, nil
}

func (s *categoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{ID: uuid.New(), Name: name}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.registry.Invalidate(ctx, caching.KeyCategories)
	return category, nil
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, name string) (*models.Category, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{ID: id, Name: name}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	// product listings embed the category name
	s.registry.Invalidate(ctx, caching.KeyCategories)
	return s.GetByID(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.registry.Invalidate(ctx, caching.KeyCategories)
	return nil
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.list.Get(ctx, "all", s.categories.List)
}
