package repositories

import "github.com/Atwoto/solara-mvp-sub000/internal/models"

// CartRepository defines the interface for server-persisted cart data access.
// Line items are unique per (cart, product); quantity handling above zero is
// the service layer's concern.
type CartRepository interface {
	// GetOrCreateByUser returns the user's cart with its items preloaded,
	// creating an empty cart row on first use.
	GetOrCreateByUser(userID string) (*models.Cart, error)
	FindItem(cartID, productID string) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(cartID, productID string, quantity int) error
	DeleteItem(cartID, productID string) error
	ClearItems(cartID string) error
}
