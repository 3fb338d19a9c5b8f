package quotes

import (
	"github.com/shopspring/decimal"

	"github.com/horizonswtc/tradebackend/models"
)

// ComputeFinalPrice derives the payable amount from the quote's current
// fields. The admin's quoted price, when set, replaces the products subtotal
// as the base; tax applies to the base only, never to shipping; shipping is
// charged only when the customer elected it. The result is rounded half-up to
// two decimals.
//
// This is a pure function of its inputs. Callers must re-run it and overwrite
// final_price on every save that touches any input, so the stored value can
// never drift from the source fields.
func ComputeFinalPrice(
	items []models.QuoteLineItem,
	quotedPrice *float64,
	taxPercentage float64,
	willShip bool,
	shippingPrice float64,
) float64 {
	base := decimal.NewFromFloat(ProductsSubtotal(items))
	if quotedPrice != nil {
		base = decimal.NewFromFloat(*quotedPrice)
	}

	tax := decimal.Zero
	if taxPercentage > 0 {
		tax = base.Mul(decimal.NewFromFloat(taxPercentage)).Div(decimal.NewFromInt(100))
	}

	shipping := decimal.Zero
	if willShip {
		shipping = decimal.NewFromFloat(shippingPrice)
	}

	final, _ := base.Add(tax).Add(shipping).Round(2).Float64()
	return final
}

// ProductsSubtotal sums the line-item subtotals.
func ProductsSubtotal(items []models.QuoteLineItem) float64 {
	sum := 0.0
	for _, item := range items {
		sum += item.Subtotal
	}
	return sum
}

// TotalItems sums the line-item quantities.
func TotalItems(items []models.QuoteLineItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}
