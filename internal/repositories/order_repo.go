package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"balcao/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// GetForUpdate locks the order row for the rest of the transaction.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	SetPaymentMethod(ctx context.Context, id uuid.UUID, method *string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error)
	ListInRange(ctx context.Context, from, to *time.Time) ([]*models.Order, error)
}

type orderRepo struct {
	db    DBTX
	items OrderItemRepository
}

func NewOrderRepo(db DBTX) OrderRepository {
	return &orderRepo{db: db, items: NewOrderItemRepo(db)}
}

const orderSelect = `
		SELECT o.id, o.sales_type_id, o.status, o.total, o.discount, o.external_order_id, o.customer_name, o.notes, o.payment_method, o.created_at, o.updated_at, st.name, st.created_at
		FROM orders o
		LEFT JOIN sales_types st ON st.id = o.sales_type_id
`

func scanOrder(row pgx.Row) (*models.Order, error) {
	order := &models.Order{}
	var (
		salesTypeName      *string
		salesTypeCreatedAt *time.Time
	)
	if err := row.Scan(&order.ID, &order.SalesTypeID, &order.Status, &order.Total, &order.Discount, &order.ExternalOrderID, &order.CustomerName, &order.Notes, &order.PaymentMethod, &order.CreatedAt, &order.UpdatedAt, &salesTypeName, &salesTypeCreatedAt); err != nil {
		return nil, err
	}
	if order.SalesTypeID != nil && salesTypeName != nil {
		order.SalesType = &models.SalesType{ID: *order.SalesTypeID, Name: *salesTypeName}
		if salesTypeCreatedAt != nil {
			order.SalesType.CreatedAt = *salesTypeCreatedAt
		}
	}
	return order, nil
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, sales_type_id, status, total, discount, external_order_id, customer_name, notes, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, order.ID, order.SalesTypeID, order.Status, order.Total, order.Discount, order.ExternalOrderID, order.CustomerName, order.Notes, order.PaymentMethod).
		Scan(&order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.getOne(ctx, orderSelect+`		WHERE o.id = $1`, id)
}

func (r *orderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.getOne(ctx, orderSelect+`		WHERE o.id = $1
		FOR UPDATE OF o`, id)
}

func (r *orderRepo) getOne(ctx context.Context, query string, id uuid.UUID) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "order")
	}
	if err := r.attachItems(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	query := `UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, status, id)
	return affected(tag, err, "order")
}

func (r *orderRepo) SetPaymentMethod(ctx context.Context, id uuid.UUID, method *string) error {
	query := `UPDATE orders SET payment_method = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, method, id)
	return affected(tag, err, "order")
}

// Delete removes the order; its items go with it through the cascade.
func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM orders WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	return affected(tag, err, "order")
}

func (r *orderRepo) List(ctx context.Context, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	if filter == nil {
		filter = &models.OrderSearchFilter{}
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("o.created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("o.created_at <= $%d", len(args)))
	}

	query := orderSelect
	if len(conditions) > 0 {
		query += "		WHERE " + strings.Join(conditions, " AND ") + "\n"
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf("		ORDER BY o.created_at DESC\n		LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.queryOrders(ctx, query, args...)
}

// ListInRange returns every order created within [from, to], newest first.
// Nil bounds are open.
func (r *orderRepo) ListInRange(ctx context.Context, from, to *time.Time) ([]*models.Order, error) {
	query := orderSelect + `		WHERE ($1::timestamptz IS NULL OR o.created_at >= $1)
		AND ($2::timestamptz IS NULL OR o.created_at <= $2)
		ORDER BY o.created_at DESC`
	return r.queryOrders(ctx, query, from, to)
}

func (r *orderRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*models.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]*models.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	items, err := r.items.ListByOrderIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	for _, item := range items {
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, *item)
		}
	}
	return nil
}
