package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"balcao/internal/caching"
	"balcao/internal/common"
	"balcao/internal/models"
	"balcao/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*models.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Product, error)
	// SetStock is a manual stock correction, not an order effect.
	SetStock(ctx context.Context, id uuid.UUID, stock int) (*models.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error)
}

type ProductInput struct {
	Name       string
	CategoryID *uuid.UUID
	Price      decimal.Decimal
	Stock      int
}

const maxStock = 1000000

type productService struct {
	products   repositories.ProductRepository
	categories repositories.CategoryRepository
	registry   *caching.Registry
	list       *caching.View[[]*models.Product]
	logger     zerolog.Logger
}

func NewProductService(
	products repositories.ProductRepository,
	categories repositories.CategoryRepository,
	registry *caching.Registry,
	cache caching.CacheService,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		products:   products,
		categories: categories,
		registry:   registry,
		list: caching.NewView[[]*models.Product](registry, cache, "products", cacheTTL,
			caching.KeyProducts, caching.KeyCategories, caching.KeyProductPrices),
		logger: logger.With().Str("component", "products").Logger(),
	}
}

func (s *productService) validate(ctx context.Context, in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := common.ValidateRequiredString(in.Name, "name"); err != nil {
		return err
	}
	if len(in.Name) > 200 {
		return common.NewValidationError("name", "cannot exceed 200 characters")
	}
	if err := common.ValidateMoney(in.Price, "price"); err != nil {
		return err
	}
	if in.Stock < 0 || in.Stock > maxStock {
		return common.NewValidationError("stock", fmt.Sprintf("must be between 0 and %d", maxStock))
	}
	if in.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return common.NewValidationError("category_id", "does not exist")
			}
			return fmt.Errorf("failed to get category: %w", err)
		}
	}
	return nil
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:         uuid.New(),
		Name:       in.Name,
		CategoryID: in.CategoryID,
		Price:      in.Price,
		Stock:      in.Stock,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.registry.Invalidate(ctx, caching.KeyProducts)
	s.logger.Info().Str("product_id", product.ID.String()).Str("name", product.Name).Msg("product created")
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:         id,
		Name:       in.Name,
		CategoryID: in.CategoryID,
		Price:      in.Price,
		Stock:      in.Stock,
	}
	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.registry.Invalidate(ctx, caching.KeyProducts)
	return s.GetByID(ctx, id)
}

// Delete removes a product. Order items keep their name and price snapshot.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.registry.Invalidate(ctx, caching.KeyProducts, caching.KeyProductPrices)
	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

func (s *productService) List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	if filter == nil {
		filter = &models.ProductSearchFilter{}
	}
	filter.Query = common.SanitizeSearchQuery(filter.Query)

	return s.list.Get(ctx, productFilterKey(filter), func(ctx context.Context) ([]*models.Product, error) {
		return s.products.List(ctx, filter)
	})
}

func (s *productService) Search(ctx context.Context, query string, limit int) ([]*models.Product, error) {
	query = common.SanitizeSearchQuery(query)
	if query == "" {
		return []*models.Product{}, nil
	}
	return s.List(ctx, &models.ProductSearchFilter{Query: query, Limit: limit})
}

func productFilterKey(f *models.ProductSearchFilter) string {
	key := fmt.Sprintf("l%d:o%d:s%t", f.Limit, f.Offset, f.InStock)
	if f.CategoryID != nil {
		key += ":c" + f.CategoryID.String()
	}
	if f.Query != "" {
		key += ":q" + strings.ToLower(f.Query)
	}
	return key
}

func (s *productService) SetStock(ctx context.Context, id uuid.UUID, stock int) (*models.Product, error) {
	if stock < 0 || stock > maxStock {
		return nil, common.NewValidationError("stock", fmt.Sprintf("must be between 0 and %d", maxStock))
	}
	if err := s.products.SetStock(ctx, id, stock); err != nil {
		return nil, fmt.Errorf("failed to set stock: %w", err)
	}

	s.registry.Invalidate(ctx, caching.KeyProducts)
	s.logger.Info().Str("product_id", id.String()).Int("stock", stock).Msg("stock corrected")
	return s.GetByID(ctx, id)
}

func (s *productService) ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	products, err := s.products.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return products, nil
}
