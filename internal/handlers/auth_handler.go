package handlers

import (
	"log"
	"strings"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	merger      *services.MergeCoordinator
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, merger *services.MergeCoordinator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		merger:      merger,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	user.IsAdmin = false // never client-assignable

	if err := h.validate.Struct(user); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}

	if err := h.authService.RegisterUser(&user); err != nil {
		log.Printf("Error registering user: %v", err)
		if strings.Contains(err.Error(), "already registered") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Registration failed",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not register user",
			"error":   err.Error(),
		})
	}

	// For security, do not return the password hash
	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token. When the request
// carries a guest session id, the guest cart is folded into the user's
// server cart exactly once for that session and the merged cart is returned.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	resp := fiber.Map{
		"message": "Login successful",
		"token":   token,
	}

	if sessionID := c.Get(SessionHeader); sessionID != "" {
		cart, err := h.merger.MergeOnLogin(sessionID, user.ID)
		if err != nil {
			// Login itself succeeded; report the merge failure without
			// discarding anything so the client can retry.
			log.Printf("Cart merge failed for user %s: %v", user.ID, err)
			resp["cart_merge_error"] = err.Error()
		} else {
			resp["cart"] = cart
		}
	}

	return c.JSON(resp)
}
