package handlers

import (
	"errors"
	"log"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
	"github.com/Atwoto/solara-mvp-sub000/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the public catalog routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// RegisterAdminRoutes registers the catalog admin CRUD.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists products, optionally filtered by ?category=.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var (
		products []models.Product
		err      error
	)
	if category := c.Query("category"); category != "" {
		products, err = h.service.GetProductsByCategory(category)
	} else {
		products, err = h.service.GetAllProducts()
	}
	if err != nil {
		log.Printf("Error getting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id := c.Params("id")
	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error getting product %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a catalog entry.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}
	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates a catalog entry.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = c.Params("id")
	if err := h.validate.Struct(product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErrors(err),
		})
	}
	if err := h.service.UpdateProduct(&product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error updating product %s: %v", product.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
			"error":   err.Error(),
		})
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a catalog entry.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error deleting product %s: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
