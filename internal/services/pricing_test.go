package services_test

import (
	"testing"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestComputeQuote(t *testing.T) {
	// Two units at 1000 minor units plus the flat 500 shipping fee.
	items := []models.CartItem{
		{ProductID: "prod-x", UnitPrice: 1000, Quantity: 2},
	}
	quote := services.ComputeQuote(items, 500)
	assert.Equal(t, int64(2000), quote.SubtotalMinor)
	assert.Equal(t, int64(500), quote.ShippingMinor)
	assert.Equal(t, int64(2500), quote.TotalMinor)
}

func TestComputeQuote_MultipleLines(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "panel", UnitPrice: 129900, Quantity: 3},
		{ProductID: "inverter", UnitPrice: 450000, Quantity: 1},
	}
	quote := services.ComputeQuote(items, 1500)
	assert.Equal(t, int64(3*129900+450000), quote.SubtotalMinor)
	assert.Equal(t, int64(1500), quote.ShippingMinor)
	assert.Equal(t, quote.SubtotalMinor+quote.ShippingMinor, quote.TotalMinor)
}

func TestComputeQuote_EmptyCartHasNoShipping(t *testing.T) {
	quote := services.ComputeQuote(nil, 500)
	assert.Equal(t, int64(0), quote.SubtotalMinor)
	assert.Equal(t, int64(0), quote.ShippingMinor)
	assert.Equal(t, int64(0), quote.TotalMinor)
}
