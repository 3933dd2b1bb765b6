package pos

import "github.com/shopspring/decimal"

// Totals is the result of pricing a set of lines.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Subtotal sums UnitPrice * Quantity over lines.
func Subtotal(lines []CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// ComputeTotals prices lines with either a discount or a manual total.
// A manual total wins and reports a zero discount. Otherwise the discount is
// taken as given and the total is floored at zero. Values are exact; rounding
// is left to presentation.
func ComputeTotals(lines []CartLine, discount, manualTotal *decimal.Decimal) Totals {
	subtotal := Subtotal(lines)

	if manualTotal != nil {
		return Totals{Subtotal: subtotal, Discount: decimal.Zero, Total: *manualTotal}
	}

	d := decimal.Zero
	if discount != nil {
		d = *discount
	}
	total := subtotal.Sub(d)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{Subtotal: subtotal, Discount: d, Total: total}
}
