package services

import "github.com/Atwoto/solara-mvp-sub000/internal/models"

// Quote is the derived price breakdown of a cart. All values are minor
// currency units.
type Quote struct {
	SubtotalMinor int64 `json:"subtotal_minor"`
	ShippingMinor int64 `json:"shipping_minor"`
	TotalMinor    int64 `json:"total_minor"`
}

// ComputeQuote derives subtotal, shipping and total from cart contents.
// Pure function of the items: shipping is a flat fee charged only when the
// cart is non-empty, and nothing is cached between calls.
func ComputeQuote(items []models.CartItem, flatShippingFeeMinor int64) Quote {
	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitPrice * int64(item.Quantity)
	}

	var shipping int64
	if subtotal > 0 {
		shipping = flatShippingFeeMinor
	}

	return Quote{
		SubtotalMinor: subtotal,
		ShippingMinor: shipping,
		TotalMinor:    subtotal + shipping,
	}
}
