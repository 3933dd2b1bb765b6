package repositories

import (
	"context"

	"balcao/internal/models"

	"github.com/google/uuid"
)

type ProductPriceRepository interface {
	// Upsert writes the override for (product, sales type), replacing any
	// existing one.
	Upsert(ctx context.Context, price *models.ProductPrice) error
	Delete(ctx context.Context, productID, salesTypeID uuid.UUID) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.ProductPrice, error)
	ListByProducts(ctx context.Context, productIDs []uuid.UUID) ([]*models.ProductPrice, error)
}

type productPriceRepo struct {
	db DBTX
}

func NewProductPriceRepo(db DBTX) ProductPriceRepository {
	return &productPriceRepo{db: db}
}

func (r *productPriceRepo) Upsert(ctx context.Context, price *models.ProductPrice) error {
	query := `
		INSERT INTO product_prices (id, product_id, sales_type_id, price, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (product_id, sales_type_id) DO UPDATE SET price = EXCLUDED.price
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, price.ID, price.ProductID, price.SalesTypeID, price.Price).
		Scan(&price.ID, &price.CreatedAt)
}

func (r *productPriceRepo) Delete(ctx context.Context, productID, salesTypeID uuid.UUID) error {
	query := `DELETE FROM product_prices WHERE product_id = $1 AND sales_type_id = $2`
	tag, err := r.db.Exec(ctx, query, productID, salesTypeID)
	return affected(tag, err, "product price")
}

func (r *productPriceRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*models.ProductPrice, error) {
	return r.ListByProducts(ctx, []uuid.UUID{productID})
}

func (r *productPriceRepo) ListByProducts(ctx context.Context, productIDs []uuid.UUID) ([]*models.ProductPrice, error) {
	query := `
		SELECT id, product_id, sales_type_id, price, created_at
		FROM product_prices
		WHERE product_id = ANY($1)
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query, productIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []*models.ProductPrice
	for rows.Next() {
		pp := &models.ProductPrice{}
		if err := rows.Scan(&pp.ID, &pp.ProductID, &pp.SalesTypeID, &pp.Price, &pp.CreatedAt); err != nil {
			return nil, err
		}
		prices = append(prices, pp)
	}
	return prices, rows.Err()
}
