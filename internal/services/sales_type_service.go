package services

import (
	"context"
	"fmt"
	"time"

	"balcao/internal/caching"
	"balcao/internal/models"
	"balcao/internal/repositories"

	"github.com/google/uuid"
)

type SalesTypeService interface {
	Create(ctx context.Context, name string) (*models.SalesType, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.SalesType, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.SalesType, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.SalesType, error)
}

type salesTypeService struct {
	salesTypes repositories.SalesTypeRepository
	registry   *caching.Registry
	list       *caching.View[[]*models.SalesType]
}

func NewSalesTypeService(salesTypes repositories.SalesTypeRepository, registry *caching.Registry, cache caching.CacheService, cacheTTL time.Duration) SalesTypeService {
	return &salesTypeService{
		salesTypes: salesTypes,
		registry:   registry,
		list:       caching.NewView[[]*models.SalesType](registry, cache, "sales_types", cacheTTL, caching.KeySalesTypes),
	}
}

func (s *salesTypeService) Create(ctx context.Context, name string) (*models.SalesType, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	salesType := &models.SalesType{ID: uuid.New(), Name: name}
	if err := s.salesTypes.Create(ctx, salesType); err != nil {
		return nil, fmt.Errorf("failed to create sales type: %w", err)
	}
	s.registry.Invalidate(ctx, caching.KeySalesTypes)
	return salesType, nil
}

func (s *salesTypeService) GetByID(ctx context.Context, id uuid.UUID) (*models.SalesType, error) {
	salesType, err := s.salesTypes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales type: %w", err)
	}
	return salesType, nil
}

func (s *salesTypeService) Update(ctx context.Context, id uuid.UUID, name string) (*models.SalesType, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	salesType := &models.SalesType{ID: id, Name: name}
	if err := s.salesTypes.Update(ctx, salesType); err != nil {
		return nil, fmt.Errorf("failed to update sales type: %w", err)
	}
	// order listings and reports show the sales type name
	s.registry.Invalidate(ctx, caching.KeySalesTypes, caching.KeyOrders, caching.KeyReports)
	return s.GetByID(ctx, id)
}

// Delete removes a sales type. Its price overrides go with it and existing
// orders fall back to no sales type.
func (s *salesTypeService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.salesTypes.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete sales type: %w", err)
	}
	s.registry.Invalidate(ctx, caching.KeySalesTypes, caching.KeyProductPrices, caching.KeyOrders, caching.KeyReports)
	return nil
}

func (s *salesTypeService) List(ctx context.Context) ([]*models.SalesType, error) {
	return s.list.Get(ctx, "all", s.salesTypes.List)
}
