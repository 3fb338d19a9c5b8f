package quotes

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/horizonswtc/tradebackend/models"
)

func ptr(v float64) *float64 { return &v }

func twoLineItems() []models.QuoteLineItem {
	return []models.QuoteLineItem{
		{ProductID: "p1", ProductName: "Widget", Quantity: 10, UnitPrice: 5.00, Subtotal: 50.00},
		{ProductID: "p2", ProductName: "Gadget", Quantity: 2, UnitPrice: 25.00, Subtotal: 50.00},
	}
}

func TestComputeFinalPriceTaxAndShipping(t *testing.T) {
	items := twoLineItems()

	// products_subtotal=100, base=100, tax=10, shipping=20
	final := ComputeFinalPrice(items, nil, 10, true, 20)
	assert.Equal(t, 130.00, final)
}

func TestComputeFinalPriceQuotedOverride(t *testing.T) {
	items := twoLineItems()

	// base=90 (override), tax=4.50, no shipping
	final := ComputeFinalPrice(items, ptr(90.00), 5, false, 0)
	assert.Equal(t, 94.50, final)
}

func TestComputeFinalPriceNoAdminFields(t *testing.T) {
	final := ComputeFinalPrice(twoLineItems(), nil, 0, false, 0)
	assert.Equal(t, 100.00, final)
}

func TestComputeFinalPriceShippingNotTaxed(t *testing.T) {
	// tax applies to the base only: 100*0.10 + 50 shipping, not (100+50)*0.10
	final := ComputeFinalPrice(twoLineItems(), nil, 10, true, 50)
	assert.Equal(t, 160.00, final)
}

func TestComputeFinalPriceShippingIgnoredWithoutElection(t *testing.T) {
	// a stored shipping_price has no effect while will_ship is false
	final := ComputeFinalPrice(twoLineItems(), nil, 0, false, 999)
	assert.Equal(t, 100.00, final)
}

func TestComputeFinalPriceRoundsToTwoDecimals(t *testing.T) {
	items := []models.QuoteLineItem{
		{ProductID: "p1", ProductName: "Widget", Quantity: 3, UnitPrice: 33.333, Subtotal: 99.999},
	}

	assert.Equal(t, 100.00, ComputeFinalPrice(items, nil, 0, false, 0))

	// 99.999 * 1.05 = 104.99895 -> 105.00 (half up)
	assert.Equal(t, 105.00, ComputeFinalPrice(items, nil, 5, false, 0))
}

func TestComputeFinalPriceIdempotent(t *testing.T) {
	items := twoLineItems()

	first := ComputeFinalPrice(items, ptr(90.00), 5, true, 12.34)
	second := ComputeFinalPrice(items, ptr(90.00), 5, true, 12.34)
	assert.Equal(t, first, second)
}

func TestProductsSubtotalAndTotalItems(t *testing.T) {
	items := twoLineItems()

	assert.Equal(t, 100.00, ProductsSubtotal(items))
	assert.Equal(t, 12, TotalItems(items))

	assert.Equal(t, 0.0, ProductsSubtotal(nil))
	assert.Equal(t, 0, TotalItems(nil))
}
