package pos

import (
	"fmt"

	"balcao/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one product in a draft order. UnitPrice is resolved when the
// line is created and never re-resolved afterwards.
type CartLine struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Stock       int             `json:"stock"` // ceiling seen by the last operation
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineTotal returns UnitPrice * Quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart accumulates at most one line per product, in insertion order.
// The zero value is an empty cart ready to use.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) index(productID uuid.UUID) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts one unit of p into the cart. A new line is priced with
// ResolvePrice for salesTypeID; an existing line keeps its price.
func (c *Cart) Add(p *models.Product, salesTypeID *uuid.UUID) error {
	i := c.index(p.ID)
	if i < 0 {
		if p.Stock < 1 {
			return fmt.Errorf("%s: %w", p.Name, ErrInsufficientStock)
		}
		c.Lines = append(c.Lines, CartLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Stock:       p.Stock,
			Quantity:    1,
			UnitPrice:   ResolvePrice(p, salesTypeID),
		})
		return nil
	}

	if c.Lines[i].Quantity >= p.Stock {
		return fmt.Errorf("%s: %w", p.Name, ErrInsufficientStock)
	}
	c.Lines[i].Quantity++
	c.Lines[i].Stock = p.Stock
	return nil
}

// AdjustQuantity changes a line by delta. A result of zero or less removes
// the line; a result above the line's stock ceiling is rejected.
func (c *Cart) AdjustQuantity(productID uuid.UUID, delta int) error {
	i := c.index(productID)
	if i < 0 {
		return ErrLineNotFound
	}

	// Compare against the remaining headroom so large deltas cannot overflow.
	line := &c.Lines[i]
	switch {
	case delta <= -line.Quantity:
		c.Remove(productID)
	case delta > line.Stock-line.Quantity:
		return fmt.Errorf("%s: %w", line.ProductName, ErrInsufficientStock)
	default:
		line.Quantity += delta
	}
	return nil
}

// Remove deletes the line for productID if present.
func (c *Cart) Remove(productID uuid.UUID) {
	if i := c.index(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Subtotal sums all line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	return Subtotal(c.Lines)
}

// Line returns a copy of the line for productID.
func (c *Cart) Line(productID uuid.UUID) (CartLine, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}
