package services

import (
	"context"
	"errors"
	"fmt"

	"balcao/internal/caching"
	"balcao/internal/common"
	"balcao/internal/models"
	"balcao/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductPriceService manages per-sales-type price overrides.
type ProductPriceService interface {
	Upsert(ctx context.Context, productID, salesTypeID uuid.UUID, price decimal.Decimal) (*models.ProductPrice, error)
	Delete(ctx context.Context, productID, salesTypeID uuid.UUID) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.ProductPrice, error)
}

type productPriceService struct {
	prices     repositories.ProductPriceRepository
	products   repositories.ProductRepository
	salesTypes repositories.SalesTypeRepository
	registry   *caching.Registry
}

func NewProductPriceService(
	prices repositories.ProductPriceRepository,
	products repositories.ProductRepository,
	salesTypes repositories.SalesTypeRepository,
	registry *caching.Registry,
) ProductPriceService {
	return &productPriceService{
		prices:     prices,
		products:   products,
		salesTypes: salesTypes,
		registry:   registry,
	}
}

func (s *productPriceService) Upsert(ctx context.Context, productID, salesTypeID uuid.UUID, price decimal.Decimal) (*models.ProductPrice, error) {
	if err := common.ValidateMoney(price, "price"); err != nil {
		return nil, err
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if _, err := s.salesTypes.GetByID(ctx, salesTypeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, common.NewValidationError("sales_type_id", "does not exist")
		}
		return nil, fmt.Errorf("failed to get sales type: %w", err)
	}

	pp := &models.ProductPrice{
		ID:          uuid.New(),
		ProductID:   productID,
		SalesTypeID: salesTypeID,
		Price:       price,
	}
	if err := s.prices.Upsert(ctx, pp); err != nil {
		return nil, fmt.Errorf("failed to save product price: %w", err)
	}

	s.registry.Invalidate(ctx, caching.KeyProductPrices)
	return pp, nil
}

func (s *productPriceService) Delete(ctx context.Context, productID, salesTypeID uuid.UUID) error {
	if err := s.prices.Delete(ctx, productID, salesTypeID); err != nil {
		return fmt.Errorf("failed to delete product price: %w", err)
	}
	s.registry.Invalidate(ctx, caching.KeyProductPrices)
	return nil
}

func (s *productPriceService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.ProductPrice, error) {
	prices, err := s.prices.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list product prices: %w", err)
	}
	return prices, nil
}
