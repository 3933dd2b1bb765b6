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

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error)

	// Stock mutations are single statements so concurrent orders never lose
	// an update.
	SetStock(ctx context.Context, id uuid.UUID, stock int) error
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int, error)
	RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error
}

type productRepo struct {
	db DBTX
}

func NewProductRepo(db DBTX) ProductRepository {
	return &productRepo{db: db}
}

const productSelect = `
		SELECT p.id, p.name, p.category_id, p.price, p.stock, p.created_at, p.updated_at, c.id, c.name, c.created_at
		FROM products p
		LEFT JOIN categories c ON c.id = p.category_id
`

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	var (
		categoryID        *uuid.UUID
		categoryName      *string
		categoryCreatedAt *time.Time
	)
	if err := row.Scan(&product.ID, &product.Name, &product.CategoryID, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt, &categoryID, &categoryName, &categoryCreatedAt); err != nil {
		return nil, err
	}
	if categoryID != nil {
		product.Category = &models.Category{ID: *categoryID}
		if categoryName != nil {
			product.Category.Name = *categoryName
		}
		if categoryCreatedAt != nil {
			product.Category.CreatedAt = *categoryCreatedAt
		}
	}
	return product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, category_id, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, product.ID, product.Name, product.CategoryID, product.Price, product.Stock).
		Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := productSelect + `		WHERE p.id = $1`
	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "product")
	}

	if err := r.attachPrices(ctx, []*models.Product{product}); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, category_id = $2, price = $3, stock = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, product.Name, product.CategoryID, product.Price, product.Stock, product.ID)
	return affected(tag, err, "product")
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	return affected(tag, err, "product")
}

func (r *productRepo) List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	if filter == nil {
		filter = &models.ProductSearchFilter{}
	}
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	var conditions []string
	var args []interface{}

	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		conditions = append(conditions, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if filter.InStock {
		conditions = append(conditions, "p.stock > 0")
	}

	query := productSelect
	if len(conditions) > 0 {
		query += "		WHERE " + strings.Join(conditions, " AND ") + "\n"
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf("		ORDER BY p.name ASC\n		LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if err := r.attachPrices(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	query := productSelect + `		WHERE p.stock <= $1
		ORDER BY p.stock ASC, p.name ASC`
	return r.queryProducts(ctx, query, threshold)
}

func (r *productRepo) SetStock(ctx context.Context, id uuid.UUID, stock int) error {
	query := `UPDATE products SET stock = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, stock, id)
	return affected(tag, err, "product")
}

// DecrementStock takes up to quantity units, never driving stock below zero,
// and returns how many units were actually taken.
func (r *productRepo) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) (int, error) {
	query := `
		WITH prev AS (
			SELECT id, stock FROM products WHERE id = $1 FOR UPDATE
		)
		UPDATE products p
		SET stock = GREATEST(prev.stock - $2, 0), updated_at = NOW()
		FROM prev
		WHERE p.id = prev.id
		RETURNING LEAST(prev.stock, $2)
	`
	var taken int
	if err := r.db.QueryRow(ctx, query, id, quantity).Scan(&taken); err != nil {
		return 0, notFound(err, "product")
	}
	return taken, nil
}

func (r *productRepo) RestoreStock(ctx context.Context, id uuid.UUID, quantity int) error {
	query := `UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, quantity, id)
	return affected(tag, err, "product")
}

func (r *productRepo) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) attachPrices(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(products))
	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	prices, err := NewProductPriceRepo(r.db).ListByProducts(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load price overrides: %w", err)
	}
	for _, pp := range prices {
		if p, ok := byID[pp.ProductID]; ok {
			p.Prices = append(p.Prices, *pp)
		}
	}
	return nil
}
