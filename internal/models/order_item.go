package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is immutable once written. ProductName and UnitPrice are snapshots
// taken at order creation; ProductID becomes nil if the product is deleted.
type OrderItem struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	OrderID          uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID        *uuid.UUID      `json:"product_id" db:"product_id"`
	ProductName      string          `json:"product_name" db:"product_name"`
	Quantity         int             `json:"quantity" db:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price" db:"unit_price"`
	ReservedQuantity int             `json:"reserved_quantity" db:"reserved_quantity"` // stock actually taken on creation
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// LineTotal returns unit price times quantity.
func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
