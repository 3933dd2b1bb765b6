package pos

import (
	"time"

	"balcao/internal/models"

	"github.com/google/uuid"
)

// Draft is an order under construction: a sales type, a cart and metadata.
// It lives outside the relational store until submitted.
type Draft struct {
	ID           uuid.UUID  `json:"id"`
	SalesTypeID  *uuid.UUID `json:"sales_type_id"`
	Cart         Cart       `json:"cart"`
	CustomerName *string    `json:"customer_name,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewDraft starts an empty draft for the given sales type.
func NewDraft(salesTypeID *uuid.UUID, now time.Time) *Draft {
	return &Draft{
		ID:          uuid.New(),
		SalesTypeID: salesTypeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddProduct adds one unit of p priced for the draft's current sales type.
func (d *Draft) AddProduct(p *models.Product) error {
	return d.Cart.Add(p, d.SalesTypeID)
}

// SetSalesType switches the sales type. Lines already in the cart keep the
// price they were added with.
func (d *Draft) SetSalesType(salesTypeID *uuid.UUID) {
	d.SalesTypeID = salesTypeID
}
