package repositories

import (
	"context"

	"balcao/internal/models"

	"github.com/google/uuid"
)

type SalesTypeRepository interface {
	Create(ctx context.Context, salesType *models.SalesType) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SalesType, error)
	Update(ctx context.Context, salesType *models.SalesType) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.SalesType, error)
}

type salesTypeRepo struct {
	db DBTX
}

func NewSalesTypeRepo(db DBTX) SalesTypeRepository {
	return &salesTypeRepo{db: db}
}

func (r *salesTypeRepo) Create(ctx context.Context, salesType *models.SalesType) error {
	query := `
		INSERT INTO sales_types (id, name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, salesType.ID, salesType.Name).Scan(&salesType.CreatedAt)
}

func (r *salesTypeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SalesType, error) {
	salesType := &models.SalesType{}
	query := `SELECT id, name, created_at FROM sales_types WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&salesType.ID, &salesType.Name, &salesType.CreatedAt)
	if err != nil {
		return nil, notFound(err, "sales type")
	}
	return salesType, nil
}

func (r *salesTypeRepo) Update(ctx context.Context, salesType *models.SalesType) error {
	query := `UPDATE sales_types SET name = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, salesType.Name, salesType.ID)
	return affected(tag, err, "sales type")
}

func (r *salesTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM sales_types WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	return affected(tag, err, "sales type")
}

func (r *salesTypeRepo) List(ctx context.Context) ([]*models.SalesType, error) {
	query := `SELECT id, name, created_at FROM sales_types ORDER BY name ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var salesTypes []*models.SalesType
	for rows.Next() {
		salesType := &models.SalesType{}
		if err := rows.Scan(&salesType.ID, &salesType.Name, &salesType.CreatedAt); err != nil {
			return nil, err
		}
		salesTypes = append(salesTypes, salesType)
	}
	return salesTypes, rows.Err()
}
