package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetAll returns all orders, newest first.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		list = append(list, o)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// GetByReference returns an order by its checkout reference.
func (r *MockOrderRepository) GetByReference(reference string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.Reference == reference {
			order := o
			return &order, nil
		}
	}
	return nil, fmt.Errorf("order with reference %s: %w", reference, ErrNotFound)
}

// GetByUser returns all orders belonging to a user, newest first.
func (r *MockOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.Order
	for _, o := range r.orders {
		if o.UserID != nil && *o.UserID == userID {
			list = append(list, o)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus sets the status of an order.
func (r *MockOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s not found for status update: %w", id, ErrNotFound)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// SetGatewayReference records the gateway reference and access code.
func (r *MockOrderRepository) SetGatewayReference(id, gatewayReference, accessCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s not found for gateway reference: %w", id, ErrNotFound)
	}
	order.GatewayReference = gatewayReference
	order.GatewayAccess = accessCode
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}
