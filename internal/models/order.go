package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the closed set of order states.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []OrderStatus{StatusPending, StatusPickedUp, StatusCompleted, StatusCancelled}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPickedUp, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Label returns the display label shown to staff.
func (s OrderStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pendente"
	case StatusPickedUp:
		return "Retirado"
	case StatusCompleted:
		return "Concluído"
	case StatusCancelled:
		return "Cancelado"
	}
	return string(s)
}

// OrderSearchFilter holds filter criteria for order listings
type OrderSearchFilter struct {
	Status *OrderStatus `json:"status,omitempty"`
	From   *time.Time   `json:"from,omitempty"` // created_at >= From
	To     *time.Time   `json:"to,omitempty"`   // created_at <= To
	Limit  int          `json:"limit,omitempty"`
	Offset int          `json:"offset,omitempty"`
}

type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	SalesTypeID     *uuid.UUID      `json:"sales_type_id" db:"sales_type_id"`
	Status          OrderStatus     `json:"status" db:"status"`
	Total           decimal.Decimal `json:"total" db:"total"`
	Discount        decimal.Decimal `json:"discount" db:"discount"`
	ExternalOrderID *string         `json:"external_order_id" db:"external_order_id"`
	CustomerName    *string         `json:"customer_name" db:"customer_name"`
	Notes           *string         `json:"notes" db:"notes"`
	PaymentMethod   *string         `json:"payment_method" db:"payment_method"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`

	SalesType *SalesType  `json:"sales_type,omitempty" db:"-"`
	Items     []OrderItem `json:"order_items,omitempty" db:"-"`
}

// IsPaid reports whether a payment method has been recorded.
func (o *Order) IsPaid() bool {
	return o.PaymentMethod != nil && *o.PaymentMethod != ""
}

// PaymentLabel is the paid/unpaid badge text.
func (o *Order) PaymentLabel() string {
	if o.IsPaid() {
		return "PAGO"
	}
	return "A PAGAR"
}

// Subtotal sums the line totals of the loaded items.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for i := range o.Items {
		sum = sum.Add(o.Items[i].LineTotal())
	}
	return sum
}
