package jobs

import (
	"context"
	"fmt"

	"balcao/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultLowStockThreshold applies when no positive threshold is configured.
const DefaultLowStockThreshold = 5

// LowStockLister is the part of the product service the alert job reads.
type LowStockLister interface {
	ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error)
}

type InventoryAlertService struct {
	products LowStockLister
	logger   zerolog.Logger
}

type InventoryAlert struct {
	ProductID    uuid.UUID
	ProductName  string
	CurrentStock int
	Threshold    int
}

func NewInventoryAlertService(products LowStockLister, logger zerolog.Logger) *InventoryAlertService {
	return &InventoryAlertService{
		products: products,
		logger:   logger.With().Str("component", "inventory_alerts").Logger(),
	}
}

// CheckLowStock returns one alert per product whose stock is at or below
// threshold.
func (a *InventoryAlertService) CheckLowStock(ctx context.Context, threshold int) ([]InventoryAlert, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}

	products, err := a.products.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to check low stock: %w", err)
	}

	alerts := make([]InventoryAlert, 0, len(products))
	for _, p := range products {
		if p.Stock > threshold {
			continue
		}
		alerts = append(alerts, InventoryAlert{
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: p.Stock,
			Threshold:    threshold,
		})
	}
	return alerts, nil
}

func (a *InventoryAlertService) LogLowStockAlerts(alerts []InventoryAlert) {
	if len(alerts) == 0 {
		a.logger.Debug().Msg("no low stock alerts")
		return
	}

	a.logger.Warn().Int("count", len(alerts)).Msg("products running low on stock")
	for _, alert := range alerts {
		event := a.logger.Warn()
		if alert.CurrentStock == 0 {
			event = a.logger.Error()
		}
		event.
			Str("product_id", alert.ProductID.String()).
			Str("product", alert.ProductName).
			Int("stock", alert.CurrentStock).
			Int("threshold", alert.Threshold).
			Msg("low stock")
	}
}

// Run checks stock and logs the result. It is the scheduled task body.
func (a *InventoryAlertService) Run(ctx context.Context, threshold int) error {
	alerts, err := a.CheckLowStock(ctx, threshold)
	if err != nil {
		a.logger.Error().Err(err).Msg("low stock check failed")
		return err
	}
	a.LogLowStockAlerts(alerts)
	return nil
}
