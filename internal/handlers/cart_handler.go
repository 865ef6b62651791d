package handlers

import (
	"errors"
	"log"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
	"github.com/Atwoto/solara-mvp-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the cart. The same routes serve
// guests (via X-Session-ID) and signed-in users (via bearer token); the
// store selection happens in services.CartService.
type CartHandler struct {
	carts            *services.CartService
	products         *services.ProductService
	shippingFeeMinor int64
}

// NewCartHandler creates a new CartHandler. shippingFeeMinor is the flat fee
// quoted alongside cart contents; checkout charges the same fee.
func NewCartHandler(carts *services.CartService, products *services.ProductService, shippingFeeMinor int64) *CartHandler {
	return &CartHandler{
		carts:            carts,
		products:         products,
		shippingFeeMinor: shippingFeeMinor,
	}
}

// cartResponse pairs the line items with totals recomputed from scratch, so
// every read reflects the current contents rather than a cached figure.
func (h *CartHandler) cartResponse(items []models.CartItem) fiber.Map {
	if items == nil {
		items = []models.CartItem{}
	}
	return fiber.Map{
		"items":  items,
		"totals": services.ComputeQuote(items, h.shippingFeeMinor),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Put("/", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

func missingOwner(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "A bearer token or " + SessionHeader + " header is required",
	})
}

// HandleGetCart returns the owner's cart with computed totals.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	owner, ok := requireOwner(c)
	if !ok {
		return missingOwner(c)
	}
	items, err := h.carts.For(owner).Get()
	if err != nil {
		log.Printf("Error fetching cart for %s: %v", owner.Key(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.cartResponse(items))
}

// CartMutationRequest is the body for add and update operations.
type CartMutationRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// HandleAddItem adds quantity of a product; an existing line increments.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	owner, ok := requireOwner(c)
	if !ok {
		return missingOwner(c)
	}
	var req CartMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id is required",
		})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "quantity must be positive",
		})
	}

	product, err := h.products.GetProductByID(req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error resolving product %s for cart add: %v", req.ProductID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add to cart",
			"error":   err.Error(),
		})
	}

	items, err := h.carts.For(owner).Add(product, req.Quantity)
	if err != nil {
		log.Printf("Error adding product %s to cart for %s: %v", req.ProductID, owner.Key(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add to cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.cartResponse(items))
}

// HandleUpdateQuantity sets a line's quantity to an absolute value; zero or
// negative removes the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	owner, ok := requireOwner(c)
	if !ok {
		return missingOwner(c)
	}
	var req CartMutationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "product_id is required",
		})
	}

	items, err := h.carts.For(owner).UpdateQuantity(req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error updating quantity of %s for %s: %v", req.ProductID, owner.Key(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.cartResponse(items))
}

// HandleRemoveItem removes one line; absent lines are a silent no-op.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	owner, ok := requireOwner(c)
	if !ok {
		return missingOwner(c)
	}
	items, err := h.carts.For(owner).Remove(c.Params("productId"))
	if err != nil {
		log.Printf("Error removing product from cart for %s: %v", owner.Key(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove from cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.cartResponse(items))
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	owner, ok := requireOwner(c)
	if !ok {
		return missingOwner(c)
	}
	if err := h.carts.For(owner).Clear(); err != nil {
		log.Printf("Error clearing cart for %s: %v", owner.Key(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(h.cartResponse(nil))
}
