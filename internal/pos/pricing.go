package pos

import (
	"balcao/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResolvePrice returns the unit price of p for the given sales type: the
// matching override when one exists, the base price otherwise.
func ResolvePrice(p *models.Product, salesTypeID *uuid.UUID) decimal.Decimal {
	if salesTypeID == nil {
		return p.Price
	}
	for _, pp := range p.Prices {
		if pp.SalesTypeID == *salesTypeID {
			return pp.Price
		}
	}
	return p.Price
}
