package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductPrice overrides a product's base price for one sales type.
// At most one row exists per (product_id, sales_type_id).
type ProductPrice struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	SalesTypeID uuid.UUID       `json:"sales_type_id" db:"sales_type_id"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
