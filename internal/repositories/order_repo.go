package repositories

import (
	"github.com/Atwoto/solara-mvp-sub000/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// never deleted; the ledger is an audit trail.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByReference(reference string) (*models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
	SetGatewayReference(id, gatewayReference, accessCode string) error
}
