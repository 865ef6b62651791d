package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
	"github.com/Atwoto/solara-mvp-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders: a user's own order history
// and the admin console's ledger view.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the authenticated user's order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// RegisterAdminRoutes registers the admin ledger routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetAllOrders)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleGetMyOrders lists the calling user's orders.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	orders, err := h.service.ListByUser(userID)
	if err != nil {
		log.Printf("Error getting orders for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves one of the calling user's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}

	userID, _ := c.Locals("user_id").(string)
	isAdmin, _ := c.Locals("is_admin").(bool)
	if !isAdmin && (order.UserID == nil || *order.UserID != userID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "This order belongs to another user",
		})
	}
	return c.JSON(order)
}

// HandleGetAllOrders lists every order for the admin console.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAll()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleUpdateOrderStatus advances an order through the admin stages
// (paid -> processing -> shipped -> delivered) or cancels it. The ledger's
// transition guard applies; the forced webhook-only override is not
// reachable from here.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var updateData struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if updateData.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	err := h.service.UpdateStatus(orderID, updateData.Status, false)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		case errors.Is(err, services.ErrTerminalStatus), errors.Is(err, services.ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Order status transition not allowed",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, updateData.Status),
	})
}
