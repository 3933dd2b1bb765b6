package testhelpers

import (
	"context"
	"testing"
	"time"

	"balcao/internal/analytics"
	"balcao/internal/caching"
	"balcao/internal/models"
	"balcao/internal/pos"
	"balcao/internal/repositories"
	"balcao/internal/services"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderFlow(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup()

	ctx := context.Background()
	logger := zerolog.Nop()
	registry := caching.NewRegistry(logger)

	productRepo := repositories.NewProductRepo(testDB.Pool)
	orderRepo := repositories.NewOrderRepo(testDB.Pool)
	orders := services.NewOrderService(repositories.NewTransactor(testDB.Pool), orderRepo, productRepo,
		services.NewStockService(logger), registry, nil, time.Minute, logger)
	reports := services.NewReportService(orderRepo, nil, "", time.UTC, registry, nil, time.Minute, logger)

	drinks := SetupTestCategory(t, testDB, "Bebidas")
	counter := SetupTestSalesType(t, testDB, "Balcão")
	delivery := SetupTestSalesType(t, testDB, "Entrega")
	coffee := SetupTestProduct(t, testDB, &drinks, "Café", "5.00", 10)
	SetupTestPrice(t, testDB, coffee.ID, delivery, "6.50")

	t.Run("override price and stock reservation", func(t *testing.T) {
		order, err := orders.PlaceOrder(ctx, services.PlaceOrderInput{
			OrderDetails: services.OrderDetails{SalesTypeID: &delivery, CustomerName: StringPtr("Ana")},
			Items:        []services.OrderLineInput{{ProductID: coffee.ID, Quantity: 2}},
		})
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, order.Status)
		assert.True(t, decimal.RequireFromString("13.00").Equal(order.Total), order.Total.String())
		assert.Equal(t, 8, StockOf(t, testDB, coffee.ID))

		_, err = orders.UpdateStatus(ctx, order.ID, models.StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, 10, StockOf(t, testDB, coffee.ID))

		require.NoError(t, orders.DeleteOrder(ctx, order.ID))
		assert.Equal(t, 10, StockOf(t, testDB, coffee.ID))
	})

	t.Run("completed order keeps stock on delete", func(t *testing.T) {
		order, err := orders.PlaceOrder(ctx, services.PlaceOrderInput{
			OrderDetails: services.OrderDetails{SalesTypeID: &counter},
			Items:        []services.OrderLineInput{{ProductID: coffee.ID, Quantity: 3}},
		})
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("15.00").Equal(order.Total))

		_, err = orders.UpdateStatus(ctx, order.ID, models.StatusCompleted)
		require.NoError(t, err)

		_, err = orders.UpdateStatus(ctx, order.ID, models.StatusPending)
		assert.ErrorIs(t, err, pos.ErrInvalidTransition)

		report, err := reports.Build(ctx, analytics.RangeToday, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 1, report.TotalOrders)
		assert.True(t, decimal.RequireFromString("15.00").Equal(report.TotalRevenue))

		require.NoError(t, orders.DeleteOrder(ctx, order.ID))
		assert.Equal(t, 7, StockOf(t, testDB, coffee.ID))
	})

	t.Run("insufficient stock rolls back", func(t *testing.T) {
		_, err := orders.PlaceOrder(ctx, services.PlaceOrderInput{
			OrderDetails: services.OrderDetails{SalesTypeID: &counter},
			Items:        []services.OrderLineInput{{ProductID: coffee.ID, Quantity: 50}},
		})
		assert.ErrorIs(t, err, pos.ErrInsufficientStock)
		assert.Equal(t, 7, StockOf(t, testDB, coffee.ID))

		list, err := orders.ListOrders(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
