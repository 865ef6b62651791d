package handlers

import (
	"errors"
	"log"

	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
	"github.com/Atwoto/solara-mvp-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// WishlistHandler handles HTTP requests for the per-user wishlist.
// All routes require authentication.
type WishlistHandler struct {
	service *services.WishlistService
	carts   *services.CartService
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service *services.WishlistService, carts *services.CartService) *WishlistHandler {
	return &WishlistHandler{
		service: service,
		carts:   carts,
	}
}

// RegisterRoutes registers the wishlist routes with the Fiber app.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router) {
	wishlistRoutes := router.Group("/wishlist")
	wishlistRoutes.Get("/", h.HandleGetWishlist)
	wishlistRoutes.Post("/:productId", h.HandleAdd)
	wishlistRoutes.Delete("/:productId", h.HandleRemove)
	wishlistRoutes.Post("/:productId/move-to-cart", h.HandleMoveToCart)
}

// HandleGetWishlist lists the user's saved products.
func (h *WishlistHandler) HandleGetWishlist(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	products, err := h.service.List(userID)
	if err != nil {
		log.Printf("Error getting wishlist for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleAdd saves a product; re-adding is an idempotent success.
func (h *WishlistHandler) HandleAdd(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	productID := c.Params("productId")
	if err := h.service.Add(userID, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error adding product %s to wishlist: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add to wishlist",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Added to wishlist"})
}

// HandleRemove drops a product; absent entries are a silent no-op.
func (h *WishlistHandler) HandleRemove(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	if err := h.service.Remove(userID, c.Params("productId")); err != nil {
		log.Printf("Error removing from wishlist: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove from wishlist",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Removed from wishlist"})
}

// HandleMoveToCart runs the remove-then-add composite and returns the
// resulting cart.
func (h *WishlistHandler) HandleMoveToCart(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	productID := c.Params("productId")
	store := h.carts.ForUser(userID)

	items, err := h.service.MoveToCart(userID, productID, store)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error moving product %s to cart: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not move to cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"items": items})
}
