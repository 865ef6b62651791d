package repositories

import (
	"errors"
	"fmt"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	GetByUser(userID string) ([]models.WishlistEntry, error)
	Add(entry *models.WishlistEntry) error
	Remove(userID, productID string) error
	Exists(userID, productID string) (bool, error)
}

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{
		db: db,
	}
}

// GetByUser returns all wishlist entries for a user.
func (r *GORMWishlistRepository) GetByUser(userID string) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get wishlist for user %s: %w", userID, err)
	}
	return entries, nil
}

// Add inserts a wishlist entry. Duplicate (user, product) pairs are rejected
// by the unique index; the service treats that as an idempotent success.
func (r *GORMWishlistRepository) Add(entry *models.WishlistEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if err := r.db.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return nil
}

// Remove deletes a wishlist entry if present.
func (r *GORMWishlistRepository) Remove(userID, productID string) error {
	res := r.db.Delete(&models.WishlistEntry{}, "user_id = ? AND product_id = ?", userID, productID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("wishlist entry for product %s: %w", productID, ErrNotFound)
	}
	return nil
}

// Exists reports whether the user has saved the product.
func (r *GORMWishlistRepository) Exists(userID, productID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.WishlistEntry{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check wishlist entry: %w", err)
	}
	return count > 0, nil
}
