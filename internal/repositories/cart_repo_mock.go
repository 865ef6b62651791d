package repositories

import (
	"fmt"
	"sync"
	"time"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string]*models.Cart // keyed by user ID
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]*models.Cart),
	}
}

// GetOrCreateByUser returns the user's cart, creating it on first use.
func (r *MockCartRepository) GetOrCreateByUser(userID string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart, ok := r.carts[userID]; ok {
		cp := *cart
		cp.Items = append([]models.CartItem(nil), cart.Items...)
		return &cp, nil
	}
	cart := &models.Cart{ID: uuid.New().String(), UserID: userID, CreatedAt: time.Now()}
	r.carts[userID] = cart
	cp := *cart
	return &cp, nil
}

func (r *MockCartRepository) byCartID(cartID string) *models.Cart {
	for _, cart := range r.carts {
		if cart.ID == cartID {
			return cart
		}
	}
	return nil
}

// FindItem returns the line item for a product within a cart.
func (r *MockCartRepository) FindItem(cartID, productID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cart := r.byCartID(cartID); cart != nil {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cp := cart.Items[i]
				return &cp, nil
			}
		}
	}
	return nil, fmt.Errorf("cart item for product %s: %w", productID, ErrNotFound)
}

// CreateItem inserts a new line item.
func (r *MockCartRepository) CreateItem(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart := r.byCartID(item.CartID)
	if cart == nil {
		return fmt.Errorf("cart %s: %w", item.CartID, ErrNotFound)
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	cart.Items = append(cart.Items, *item)
	return nil
}

// UpdateItemQuantity sets the quantity of a line item.
func (r *MockCartRepository) UpdateItemQuantity(cartID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart := r.byCartID(cartID); cart != nil {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity = quantity
				return nil
			}
		}
	}
	return fmt.Errorf("cart item for product %s not found for update: %w", productID, ErrNotFound)
}

// DeleteItem removes a single line item.
func (r *MockCartRepository) DeleteItem(cartID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart := r.byCartID(cartID); cart != nil {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("cart item for product %s not found for deletion: %w", productID, ErrNotFound)
}

// ClearItems removes every line item in the cart.
func (r *MockCartRepository) ClearItems(cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart := r.byCartID(cartID); cart != nil {
		cart.Items = nil
	}
	return nil
}
