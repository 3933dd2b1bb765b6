package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSearchFilter holds search and filter criteria for product queries
type ProductSearchFilter struct {
	Query      string     `json:"query,omitempty"`       // Name search (ILIKE)
	CategoryID *uuid.UUID `json:"category_id,omitempty"` // Filter by category
	InStock    bool       `json:"in_stock,omitempty"`    // Only products with stock > 0
	Limit      int        `json:"limit,omitempty"`       // Page size (default: 50)
	Offset     int        `json:"offset,omitempty"`      // Page offset
}

type Product struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	Name       string          `json:"name" db:"name"`
	CategoryID *uuid.UUID      `json:"category_id" db:"category_id"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Stock      int             `json:"stock" db:"stock"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`

	Category *Category      `json:"category,omitempty" db:"-"`
	Prices   []ProductPrice `json:"product_prices,omitempty" db:"-"`
}
