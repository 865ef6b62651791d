package services

import (
	"errors"
	"fmt"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
)

// WishlistService maintains each user's saved-product set and the
// move-to-cart composite.
type WishlistService struct {
	repo     repositories.WishlistRepository
	products repositories.ProductRepository
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(repo repositories.WishlistRepository, products repositories.ProductRepository) *WishlistService {
	return &WishlistService{
		repo:     repo,
		products: products,
	}
}

// List returns the saved products for a user, resolved against the catalog.
// Delisted products silently drop out of the result.
func (s *WishlistService) List(userID string) ([]models.Product, error) {
	entries, err := s.repo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ProductID)
	}
	return s.products.GetByIDs(ids)
}

// Add saves a product for a user. Adding an already-saved product is an
// idempotent success.
func (s *WishlistService) Add(userID, productID string) error {
	if _, err := s.products.GetByID(productID); err != nil {
		return fmt.Errorf("cannot wishlist product %s: %w", productID, err)
	}
	exists, err := s.repo.Exists(userID, productID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.repo.Add(&models.WishlistEntry{UserID: userID, ProductID: productID})
}

// Remove drops a product from the user's wishlist; absent entries are a no-op.
func (s *WishlistService) Remove(userID, productID string) error {
	if err := s.repo.Remove(userID, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// MoveToCart performs the remove-then-add composite: the entry leaves the
// wishlist and one unit lands in the given cart store.
func (s *WishlistService) MoveToCart(userID, productID string, store CartStore) ([]models.CartItem, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, fmt.Errorf("cannot move product %s to cart: %w", productID, err)
	}
	if err := s.Remove(userID, productID); err != nil {
		return nil, err
	}
	return store.Add(product, 1)
}
