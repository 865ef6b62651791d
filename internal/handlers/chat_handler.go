package handlers

import (
	"errors"
	"log"

	"github.com/Atwoto/solara-mvp-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler handles HTTP requests for the AI shopping assistant.
type ChatHandler struct {
	service *services.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{
		service: service,
	}
}

// RegisterRoutes registers the chat route. AuthOptional: guests chat with a
// session cart, users with their server cart.
func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/chat", h.HandleAsk)
}

// ChatRequest is the customer's message.
type ChatRequest struct {
	Message string `json:"message"`
}

// HandleAsk forwards the message to the assistant and applies any cart or
// wishlist actions it requested.
func (h *ChatHandler) HandleAsk(c *fiber.Ctx) error {
	owner, ok := requireOwner(c)
	if !ok {
		return missingOwner(c)
	}
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	reply, err := h.service.Ask(owner, req.Message)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  verr.Fields,
			})
		}
		log.Printf("Chat request failed for %s: %v", owner.Key(), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "The assistant is unavailable right now",
			"error":   err.Error(),
		})
	}
	return c.JSON(reply)
}
