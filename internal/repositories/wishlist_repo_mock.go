package repositories

import (
	"fmt"
	"sync"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"

	"github.com/google/uuid"
)

// MockWishlistRepository is an in-memory implementation of WishlistRepository.
type MockWishlistRepository struct {
	entries map[string]models.WishlistEntry // keyed by userID + "/" + productID
	mu      sync.RWMutex
}

// NewMockWishlistRepository creates a new instance of MockWishlistRepository.
func NewMockWishlistRepository() *MockWishlistRepository {
	return &MockWishlistRepository{
		entries: make(map[string]models.WishlistEntry),
	}
}

func wishlistKey(userID, productID string) string {
	return userID + "/" + productID
}

// GetByUser returns all wishlist entries for a user.
func (r *MockWishlistRepository) GetByUser(userID string) ([]models.WishlistEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.WishlistEntry
	for _, e := range r.entries {
		if e.UserID == userID {
			list = append(list, e)
		}
	}
	return list, nil
}

// Add inserts a wishlist entry; duplicates are an idempotent success.
func (r *MockWishlistRepository) Add(entry *models.WishlistEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := wishlistKey(entry.UserID, entry.ProductID)
	if _, ok := r.entries[key]; ok {
		return nil
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	r.entries[key] = *entry
	return nil
}

// Remove deletes a wishlist entry if present.
func (r *MockWishlistRepository) Remove(userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := wishlistKey(userID, productID)
	if _, ok := r.entries[key]; !ok {
		return fmt.Errorf("wishlist entry for product %s: %w", productID, ErrNotFound)
	}
	delete(r.entries, key)
	return nil
}

// Exists reports whether the user has saved the product.
func (r *MockWishlistRepository) Exists(userID, productID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[wishlistKey(userID, productID)]
	return ok, nil
}
