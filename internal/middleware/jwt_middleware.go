package middleware

import (
	"log"
	"strings"

	"github.com/Atwoto/solara-mvp-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return "", false
	}
	return parts[1], true
}

func storeClaims(c *fiber.Ctx, authService *services.AuthService, token string) error {
	claims, err := authService.ValidateToken(token)
	if err != nil {
		return err
	}
	c.Locals("user_id", claims["user_id"])
	c.Locals("email", claims["email"])
	if isAdmin, ok := claims["is_admin"].(bool); ok {
		c.Locals("is_admin", isAdmin)
	}
	return nil
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}
		if err := storeClaims(c, authService, token); err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}
		return c.Next()
	}
}

// AuthOptional populates identity claims when a valid token is present but
// lets anonymous requests through. Cart and checkout routes use it so the
// same endpoints serve guest sessions and signed-in users.
func AuthOptional(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			if err := storeClaims(c, authService, token); err != nil {
				// A presented-but-invalid token is rejected rather than
				// silently downgraded to guest.
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Invalid or expired token",
					"error":   err.Error(),
				})
			}
		}
		return c.Next()
	}
}

// AdminRequired allows only tokens carrying the admin claim. Must run after
// AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if isAdmin, ok := c.Locals("is_admin").(bool); !ok || !isAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}
