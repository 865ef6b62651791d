package services

import (
	"fmt"
	"log"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
	"github.com/Atwoto/solara-mvp-sub000/pkg/rabbitmq"
)

// OrderEventPublisher publishes order lifecycle events. Satisfied by
// *rabbitmq.Client; nil disables publishing.
type OrderEventPublisher interface {
	PublishOrderEvent(event rabbitmq.OrderEvent) error
}

// OrderService is the order ledger: persistence plus the status-transition
// guard. It is the single source of truth for an order once checkout begins.
type OrderService struct {
	orderRepo repositories.OrderRepository
	events    OrderEventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, events OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		events:    events,
	}
}

// Create persists a provisional order. Status defaults to pending_payment;
// line items arrive frozen from the checkout snapshot and the ledger never
// mutates them afterwards.
func (s *OrderService) Create(order *models.Order) (*models.Order, error) {
	if len(order.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}
	if order.Status == "" {
		order.Status = models.StatusPendingPayment
	}
	if !models.ValidStatus(order.Status) {
		return nil, fmt.Errorf("invalid order status: %s", order.Status)
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publish(rabbitmq.EventOrderCreated, order)
	return order, nil
}

// GetByID retrieves a single order by its ID.
func (s *OrderService) GetByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetByReference retrieves an order by its checkout reference.
func (s *OrderService) GetByReference(reference string) (*models.Order, error) {
	return s.orderRepo.GetByReference(reference)
}

// ListByUser retrieves all orders belonging to a user.
func (s *OrderService) ListByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// ListAll retrieves all orders, for the admin console.
func (s *OrderService) ListAll() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// SetGatewayReference records the gateway handle obtained at initialize time.
func (s *OrderService) SetGatewayReference(id, gatewayReference, accessCode string) error {
	return s.orderRepo.SetGatewayReference(id, gatewayReference, accessCode)
}

// UpdateStatus applies a guarded status transition. Re-applying the current
// status is a no-op (duplicate webhook tolerance). Transitions out of a
// terminal status are rejected, as is anything outside the state machine.
// force additionally allows paid -> failed and is reserved for the verified
// gateway webhook overriding a provisional client-side confirmation.
func (s *OrderService) UpdateStatus(id string, status models.OrderStatus, force bool) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("invalid order status: %s", status)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("failed to load order %s for status update: %w", id, err)
	}

	if order.Status == status {
		return nil
	}
	if !models.CanTransition(order.Status, status, force) {
		if order.Status.Terminal() {
			return fmt.Errorf("cannot move order %s from %s to %s: %w", id, order.Status, status, ErrTerminalStatus)
		}
		return fmt.Errorf("cannot move order %s from %s to %s: %w", id, order.Status, status, ErrInvalidTransition)
	}

	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}

	order.Status = status
	switch status {
	case models.StatusPaid:
		s.publish(rabbitmq.EventOrderPaid, order)
	case models.StatusFailed:
		s.publish(rabbitmq.EventOrderFailed, order)
	default:
		s.publish(rabbitmq.EventOrderStatus, order)
	}
	return nil
}

// publish emits an order event; failures are logged, never fatal to the
// parent operation.
func (s *OrderService) publish(kind string, order *models.Order) {
	if s.events == nil {
		return
	}
	err := s.events.PublishOrderEvent(rabbitmq.OrderEvent{
		Kind:       kind,
		OrderID:    order.ID,
		Reference:  order.Reference,
		Status:     string(order.Status),
		Email:      order.Email,
		TotalMinor: order.TotalMinor,
	})
	if err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", kind, order.ID, err)
	}
}
