package services_test

import (
	"testing"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
	"github.com/Atwoto/solara-mvp-sub000/internal/services"
	"github.com/Atwoto/solara-mvp-sub000/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher is a testify mock for the OrderEventPublisher interface.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderEvent(event rabbitmq.OrderEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func testOrder() *models.Order {
	return &models.Order{
		Email: "buyer@example.com",
		Items: []models.OrderItem{
			{ProductID: "prod-x", ProductName: "Product prod-x", Quantity: 2, UnitPrice: 1000},
		},
		SubtotalMinor:    2000,
		ShippingFeeMinor: 500,
		TotalMinor:       2500,
		Currency:         "KES",
		Reference:        "SOL-test-ref",
	}
}

func TestOrderService_CreateDefaultsToPending(t *testing.T) {
	svc := services.NewOrderService(repositories.NewMockOrderRepository(), nil)

	created, err := svc.Create(testOrder())
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.StatusPendingPayment, created.Status)
}

func TestOrderService_CreateRejectsEmptyOrder(t *testing.T) {
	svc := services.NewOrderService(repositories.NewMockOrderRepository(), nil)

	order := testOrder()
	order.Items = nil
	_, err := svc.Create(order)
	assert.Error(t, err)
}

func TestOrderService_UpdateStatusPaymentPath(t *testing.T) {
	svc := services.NewOrderService(repositories.NewMockOrderRepository(), nil)
	created, err := svc.Create(testOrder())
	assert.NoError(t, err)

	assert.NoError(t, svc.UpdateStatus(created.ID, models.StatusPaid, false))
	assert.NoError(t, svc.UpdateStatus(created.ID, models.StatusProcessing, false))
	assert.NoError(t, svc.UpdateStatus(created.ID, models.StatusShipped, false))
	assert.NoError(t, svc.UpdateStatus(created.ID, models.StatusDelivered, false))

	order, err := svc.GetByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, order.Status)
}

func TestOrderService_UpdateStatusSameStatusIsNoop(t *testing.T) {
	events := new(MockEventPublisher)
	events.On("PublishOrderEvent", mock.Anything).Return(nil)
	svc := services.NewOrderService(repositories.NewMockOrderRepository(), events)

	created, err := svc.Create(testOrder())
	assert.NoError(t, err)
	assert.NoError(t, svc.UpdateStatus(created.ID, models.StatusPaid, false))

	// Duplicate webhook delivery: re-applying paid succeeds and publishes
	// nothing new.
	events.Calls = nil
	assert.NoError(t, svc.UpdateStatus(created.ID, models.StatusPaid, false))
	events.AssertNotCalled(t, "PublishOrderEvent", mock.Anything)
}

func TestOrderService_TerminalStatusIsImmutable(t *testing.T) {
	svc := services.NewOrderService(repositories.NewMockOrderRepository(), nil)
	created, err := svc.Create(testOrder())
	assert.NoError(t, err)
	assert.NoError(t, svc.UpdateStatus(created.ID, models.StatusFailed, false))

	for _, next := range []models.OrderStatus{
		models.StatusPaid, models.StatusProcessing, models.StatusPendingPayment, models.StatusCancelled,
	} {
		err := svc.UpdateStatus(created.ID, next, false)
		assert.ErrorIs(t, err, services.ErrTerminalStatus, "failed -> %s must be rejected", next)
	}

	order, err := svc.GetByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusFailed, order.Status)
}

func TestOrderService_RejectsInvalidTransition(t *testing.T) {
	svc := services.NewOrderService(repositories.NewMockOrderRepository(), nil)
	created, err := svc.Create(testOrder())
	assert.NoError(t, err)

	// pending_payment cannot jump straight to shipped.
	err = svc.UpdateStatus(created.ID, models.StatusShipped, false)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	// Unforced paid -> failed is likewise outside the machine.
	assert.NoError(t, svc.UpdateStatus(created.ID, models.StatusPaid, false))
	err = svc.UpdateStatus(created.ID, models.StatusFailed, false)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestOrderService_ForcedWebhookOverride(t *testing.T) {
	svc := services.NewOrderService(repositories.NewMockOrderRepository(), nil)
	created, err := svc.Create(testOrder())
	assert.NoError(t, err)

	// Client confirmed provisionally, then the verified webhook reports the
	// charge actually failed.
	assert.NoError(t, svc.UpdateStatus(created.ID, models.StatusPaid, false))
	assert.NoError(t, svc.UpdateStatus(created.ID, models.StatusFailed, true))

	order, err := svc.GetByID(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusFailed, order.Status)
}

func TestOrderService_PublishesLifecycleEvents(t *testing.T) {
	events := new(MockEventPublisher)
	events.On("PublishOrderEvent", mock.MatchedBy(func(e rabbitmq.OrderEvent) bool {
		return e.Kind == rabbitmq.EventOrderCreated
	})).Return(nil).Once()
	events.On("PublishOrderEvent", mock.MatchedBy(func(e rabbitmq.OrderEvent) bool {
		return e.Kind == rabbitmq.EventOrderPaid && e.Status == string(models.StatusPaid)
	})).Return(nil).Once()

	svc := services.NewOrderService(repositories.NewMockOrderRepository(), events)
	created, err := svc.Create(testOrder())
	assert.NoError(t, err)
	assert.NoError(t, svc.UpdateStatus(created.ID, models.StatusPaid, false))

	events.AssertExpectations(t)
}

func TestOrderService_PublishFailureDoesNotFailOperation(t *testing.T) {
	events := new(MockEventPublisher)
	events.On("PublishOrderEvent", mock.Anything).Return(assert.AnError)

	svc := services.NewOrderService(repositories.NewMockOrderRepository(), events)
	created, err := svc.Create(testOrder())
	assert.NoError(t, err)
	assert.NoError(t, svc.UpdateStatus(created.ID, models.StatusPaid, false))
}

func TestOrderService_ListByUser(t *testing.T) {
	svc := services.NewOrderService(repositories.NewMockOrderRepository(), nil)

	userID := "user-1"
	mine := testOrder()
	mine.UserID = &userID
	mine.Reference = "SOL-mine"
	_, err := svc.Create(mine)
	assert.NoError(t, err)

	guest := testOrder()
	guest.Reference = "SOL-guest"
	_, err = svc.Create(guest)
	assert.NoError(t, err)

	orders, err := svc.ListByUser(userID)
	assert.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, "SOL-mine", orders[0].Reference)
}
