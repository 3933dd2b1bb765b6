package services

import (
	"context"
	"fmt"
	"time"

	"balcao/internal/caching"
	"balcao/internal/common"
	"balcao/internal/models"
	"balcao/internal/pos"
	"balcao/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type OrderService interface {
	// CreateOrder persists priced lines as a pending order and reserves
	// their stock, all in one transaction.
	CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error)
	// PlaceOrder prices product quantities for the sales type and creates
	// the order.
	PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, to models.OrderStatus) (*models.Order, error)
	SetPaymentMethod(ctx context.Context, id uuid.UUID, method *string) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

// OrderDetails is the metadata shared by every way of creating an order.
type OrderDetails struct {
	SalesTypeID     *uuid.UUID
	Discount        *decimal.Decimal
	ManualTotal     *decimal.Decimal
	ExternalOrderID *string
	CustomerName    *string
	Notes           *string
	PaymentMethod   *string
}

type CreateOrderInput struct {
	OrderDetails
	Lines []pos.CartLine
}

type OrderLineInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type PlaceOrderInput struct {
	OrderDetails
	Items []OrderLineInput
}

const maxLineQuantity = 10000

func (d *OrderDetails) validate() error {
	if d.SalesTypeID == nil || *d.SalesTypeID == uuid.Nil {
		return common.NewValidationError("sales_type_id", "is required")
	}
	if d.Discount != nil && d.Discount.IsNegative() {
		return fmt.Errorf("%w: discount must not be negative", pos.ErrInvalidAmount)
	}
	if d.ManualTotal != nil && d.ManualTotal.IsNegative() {
		return fmt.Errorf("%w: total must not be negative", pos.ErrInvalidAmount)
	}
	if err := common.ValidateOptionalString(&d.ExternalOrderID, "external_order_id", 100); err != nil {
		return err
	}
	if err := common.ValidateOptionalString(&d.CustomerName, "customer_name", 200); err != nil {
		return err
	}
	if err := common.ValidateOptionalString(&d.Notes, "notes", 1000); err != nil {
		return err
	}
	return common.ValidateOptionalString(&d.PaymentMethod, "payment_method", 100)
}

type orderService struct {
	tx       repositories.Transactor
	orders   repositories.OrderRepository
	products repositories.ProductRepository
	stock    *StockService
	registry *caching.Registry
	list     *caching.View[[]*models.Order]
	logger   zerolog.Logger
}

func NewOrderService(
	tx repositories.Transactor,
	orders repositories.OrderRepository,
	products repositories.ProductRepository,
	stock *StockService,
	registry *caching.Registry,
	cache caching.CacheService,
	cacheTTL time.Duration,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		tx:       tx,
		orders:   orders,
		products: products,
		stock:    stock,
		registry: registry,
		list:     caching.NewView[[]*models.Order](registry, cache, "orders", cacheTTL, caching.KeyOrders),
		logger:   logger.With().Str("component", "orders").Logger(),
	}
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if len(in.Lines) == 0 {
		return nil, pos.ErrEmptyCart
	}
	for _, line := range in.Lines {
		if line.Quantity <= 0 || line.Quantity > maxLineQuantity {
			return nil, fmt.Errorf("%w: quantity of %s must be between 1 and %d", pos.ErrInvalidAmount, line.ProductName, maxLineQuantity)
		}
		if line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit price of %s must not be negative", pos.ErrInvalidAmount, line.ProductName)
		}
	}

	totals := pos.ComputeTotals(in.Lines, in.Discount, in.ManualTotal)
	order := &models.Order{
		ID:              uuid.New(),
		SalesTypeID:     in.SalesTypeID,
		Status:          models.StatusPending,
		Total:           totals.Total,
		Discount:        totals.Discount,
		ExternalOrderID: in.ExternalOrderID,
		CustomerName:    in.CustomerName,
		Notes:           in.Notes,
		PaymentMethod:   in.PaymentMethod,
	}

	err := s.tx.WithinTx(ctx, func(r repositories.Repos) error {
		if err := r.Orders.Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := make([]models.OrderItem, 0, len(in.Lines))
		for _, line := range in.Lines {
			reserved, err := s.stock.Decrement(ctx, r.Products, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}

			productID := line.ProductID
			item := &models.OrderItem{
				ID:               uuid.New(),
				OrderID:          order.ID,
				ProductID:        &productID,
				ProductName:      line.ProductName,
				Quantity:         line.Quantity,
				UnitPrice:        line.UnitPrice,
				ReservedQuantity: reserved,
			}
			if err := r.OrderItems.Create(ctx, item); err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
			items = append(items, *item)
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.registry.Invalidate(ctx, caching.KeyOrders, caching.KeyProducts, caching.KeyReports)
	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("total", order.Total.StringFixed(2)).
		Int("items", len(order.Items)).
		Msg("order created")

	return order, nil
}

func (s *orderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, pos.ErrEmptyCart
	}

	// Same rules as an interactive cart: one line per product, priced once,
	// bounded by current stock.
	quantities := make(map[uuid.UUID]int, len(in.Items))
	var ids []uuid.UUID
	for _, item := range in.Items {
		if item.Quantity <= 0 || item.Quantity > maxLineQuantity {
			return nil, fmt.Errorf("%w: quantity must be between 1 and %d", pos.ErrInvalidAmount, maxLineQuantity)
		}
		total, seen := quantities[item.ProductID]
		if !seen {
			ids = append(ids, item.ProductID)
		}
		// Both terms are bounded, so the sum cannot overflow.
		if total+item.Quantity > maxLineQuantity {
			return nil, fmt.Errorf("%w: quantity of product %s must not exceed %d", pos.ErrInvalidAmount, item.ProductID, maxLineQuantity)
		}
		quantities[item.ProductID] = total + item.Quantity
	}

	cart := &pos.Cart{}
	for _, productID := range ids {
		product, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return nil, fmt.Errorf("failed to get product: %w", err)
		}
		if err := cart.Add(product, in.SalesTypeID); err != nil {
			return nil, err
		}
		if qty := quantities[productID]; qty > 1 {
			if err := cart.AdjustQuantity(productID, qty-1); err != nil {
				return nil, err
			}
		}
	}

	return s.CreateOrder(ctx, CreateOrderInput{OrderDetails: in.OrderDetails, Lines: cart.Lines})
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	if filter == nil {
		filter = &models.OrderSearchFilter{}
	}
	return s.list.Get(ctx, orderFilterKey(filter), func(ctx context.Context) ([]*models.Order, error) {
		return s.orders.List(ctx, filter)
	})
}

func orderFilterKey(f *models.OrderSearchFilter) string {
	key := fmt.Sprintf("l%d:o%d", f.Limit, f.Offset)
	if f.Status != nil {
		key += ":s" + string(*f.Status)
	}
	if f.From != nil {
		key += ":f" + f.From.UTC().Format(time.RFC3339)
	}
	if f.To != nil {
		key += ":t" + f.To.UTC().Format(time.RFC3339)
	}
	return key
}

// UpdateStatus moves an order through the lifecycle. Leaving for cancelled
// gives every item's reserved stock back in the same transaction.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, to models.OrderStatus) (*models.Order, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %q", pos.ErrUnknownStatus, to)
	}

	var updated *models.Order
	var effect pos.StockEffect
	err := s.tx.WithinTx(ctx, func(r repositories.Repos) error {
		order, err := r.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		effect, err = pos.Transition(order.Status, to)
		if err != nil {
			return err
		}
		if effect == pos.StockRestore {
			if err := s.stock.RestoreItems(ctx, r.Products, order.Items); err != nil {
				return err
			}
		}

		if err := r.Orders.UpdateStatus(ctx, id, to); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		order.Status = to
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	keys := []string{caching.KeyOrders, caching.KeyReports}
	if effect == pos.StockRestore {
		keys = append(keys, caching.KeyProducts)
	}
	s.registry.Invalidate(ctx, keys...)
	s.logger.Info().
		Str("order_id", id.String()).
		Str("status", string(to)).
		Stringer("stock_effect", effect).
		Msg("order status changed")

	return updated, nil
}

func (s *orderService) SetPaymentMethod(ctx context.Context, id uuid.UUID, method *string) (*models.Order, error) {
	if err := common.ValidateOptionalString(&method, "payment_method", 100); err != nil {
		return nil, err
	}
	if err := s.orders.SetPaymentMethod(ctx, id, method); err != nil {
		return nil, fmt.Errorf("failed to set payment method: %w", err)
	}

	s.registry.Invalidate(ctx, caching.KeyOrders)
	return s.GetOrder(ctx, id)
}

// DeleteOrder removes an order and its items. Orders still holding stock
// (pending or picked up) give it back first.
func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	restored := false
	err := s.tx.WithinTx(ctx, func(r repositories.Repos) error {
		order, err := r.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		if pos.RestoresStockOnDelete(order.Status) {
			if err := s.stock.RestoreItems(ctx, r.Products, order.Items); err != nil {
				return err
			}
			restored = true
		}

		if err := r.Orders.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	keys := []string{caching.KeyOrders, caching.KeyReports}
	if restored {
		keys = append(keys, caching.KeyProducts)
	}
	s.registry.Invalidate(ctx, keys...)
	s.logger.Info().Str("order_id", id.String()).Bool("stock_restored", restored).Msg("order deleted")
	return nil
}
