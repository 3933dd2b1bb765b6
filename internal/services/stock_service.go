package services

import (
	"context"
	"errors"
	"fmt"

	"balcao/internal/models"
	"balcao/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StockService applies order stock effects through whichever product
// repository it is handed, so callers can run it inside their transaction.
type StockService struct {
	logger zerolog.Logger
}

func NewStockService(logger zerolog.Logger) *StockService {
	return &StockService{logger: logger.With().Str("component", "stock").Logger()}
}

// Decrement takes quantity units of a product, clamping at zero, and returns
// the units actually taken.
func (s *StockService) Decrement(ctx context.Context, products repositories.ProductRepository, productID uuid.UUID, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, nil
	}

	taken, err := products.DecrementStock(ctx, productID, quantity)
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock of %s: %w", productID, err)
	}
	if taken < quantity {
		s.logger.Warn().
			Str("product_id", productID.String()).
			Int("requested", quantity).
			Int("taken", taken).
			Msg("stock clamped at zero")
	}
	return taken, nil
}

// Restore gives quantity units back. A product that no longer exists is
// skipped.
func (s *StockService) Restore(ctx context.Context, products repositories.ProductRepository, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return nil
	}

	err := products.RestoreStock(ctx, productID, quantity)
	if errors.Is(err, repositories.ErrNotFound) {
		s.logger.Debug().Str("product_id", productID.String()).Msg("restore skipped, product deleted")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore stock of %s: %w", productID, err)
	}
	return nil
}

// RestoreItems gives back what each item reserved when its order was created.
func (s *StockService) RestoreItems(ctx context.Context, products repositories.ProductRepository, items []models.OrderItem) error {
	for _, item := range items {
		if item.ProductID == nil {
			continue
		}
		if err := s.Restore(ctx, products, *item.ProductID, item.ReservedQuantity); err != nil {
			return err
		}
	}
	return nil
}
