package repositories

import (
	"errors"
	"fmt"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetOrCreateByUser returns the user's cart with items preloaded, creating
// the cart row lazily on first access. The unique index on user_id guarantees
// at most one cart per user even under a create race.
func (r *GORMCartRepository) GetOrCreateByUser(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").First(&cart, "user_id = ?", userID).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}

	cart = models.Cart{ID: uuid.New().String(), UserID: userID}
	if err := r.db.Create(&cart).Error; err != nil {
		// Lost a create race: another request inserted the row first.
		var existing models.Cart
		if ferr := r.db.Preload("Items").First(&existing, "user_id = ?", userID).Error; ferr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// FindItem returns the line item for a product within a cart.
func (r *GORMCartRepository) FindItem(cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find cart item for product %s: %w", productID, err)
	}
	return &item, nil
}

// CreateItem inserts a new line item, generating an ID if none is set.
func (r *GORMCartRepository) CreateItem(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// UpdateItemQuantity sets the quantity of a line item to an absolute value.
func (r *GORMCartRepository) UpdateItemQuantity(cartID, productID string, quantity int) error {
	res := r.db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item for product %s not found for update: %w", productID, ErrNotFound)
	}
	return nil
}

// DeleteItem removes a single line item.
func (r *GORMCartRepository) DeleteItem(cartID, productID string) error {
	res := r.db.Delete(&models.CartItem{}, "cart_id = ? AND product_id = ?", cartID, productID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item for product %s not found for deletion: %w", productID, ErrNotFound)
	}
	return nil
}

// ClearItems removes every line item in the cart.
func (r *GORMCartRepository) ClearItems(cartID string) error {
	if err := r.db.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to clear cart %s: %w", cartID, err)
	}
	return nil
}
