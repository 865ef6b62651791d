package repositories

import (
	"errors"
	"fmt"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByReference retrieves an order by its checkout reference. The webhook
// path identifies orders this way, since the gateway echoes the reference.
func (r *GORMOrderRepository) GetByReference(reference string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with reference %s: %w", reference, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by reference %s: %w", reference, err)
	}
	return &order, nil
}

// GetByUser retrieves all orders belonging to a user, newest first.
func (r *GORMOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// Create persists a new order with its frozen line items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus sets the order status. Transition legality is enforced by the
// service layer; this only touches the row.
func (r *GORMOrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for status update: %w", id, ErrNotFound)
	}
	return nil
}

// SetGatewayReference records the payment gateway's reference and access code
// against the order after a successful initialize call.
func (r *GORMOrderRepository) SetGatewayReference(id, gatewayReference, accessCode string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"gateway_reference": gatewayReference,
		"gateway_access":    accessCode,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to set gateway reference for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for gateway reference: %w", id, ErrNotFound)
	}
	return nil
}
