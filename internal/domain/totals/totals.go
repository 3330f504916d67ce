// Package totals derives line item and document amounts.
//
// Amounts are float64 rounded half-up to two decimals by scaling by 100,
// rounding to an integer and unscaling, which reproduces the figures shown by
// the browser-side calculator digit for digit. Every stored amount is rounded
// when it is produced.
package totals

import (
	"math"

	"github.com/garyjia/invoice-wizard/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LineItemTotal returns unitPrice*quantity rounded to cents, or 0 when the price is absent
func LineItemTotal(unitPrice *float64, quantity int) float64 {
	if unitPrice == nil {
		return 0
	}
	return roundHalfUp(*unitPrice*float64(quantity)*100) / 100
}

// Round2 rounds v half-up to two decimals
func Round2(v float64) float64 {
	return roundHalfUp(v*100) / 100
}

// Recompute returns a copy of details with Subtotal, VATAmount and NetTotal
// derived from its line items, discount and VAT rate. Line item totals are
// taken as stored. Applying it twice gives the same result as once.
func Recompute(details entity.ServiceDetails) entity.ServiceDetails {
	out := details.Clone()

	out.Subtotal = Subtotal(out.LineItems)
	taxable := Taxable(out)
	out.VATAmount = roundHalfUp(taxable*(out.VATPercentage/100)*100) / 100
	out.NetTotal = roundHalfUp((taxable+out.VATAmount)*100) / 100

	return out
}

// Normalize recomputes every line item total and then the aggregates.
// Used on details that come from outside the store (links, backups).
func Normalize(details entity.ServiceDetails) entity.ServiceDetails {
	out := details.Clone()
	for i := range out.LineItems {
		out.LineItems[i].Total = LineItemTotal(out.LineItems[i].UnitPrice, out.LineItems[i].Quantity)
	}
	return Recompute(out)
}

// Subtotal sums item totals exactly and rounds the sum to cents
func Subtotal(items []entity.LineItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.Total))
	}
	return sum.Round(2).InexactFloat64()
}

// Taxable returns the amount VAT applies to: subtotal less discount, never negative
func Taxable(details entity.ServiceDetails) float64 {
	return math.Max(0, details.Subtotal-details.Discount)
}

// roundHalfUp rounds to the nearest integer, ties toward +Inf
func roundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return r
}
