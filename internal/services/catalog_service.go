package services

import (
	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
)

// ProductService handles catalog reads and the admin CRUD surface.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductsByCategory retrieves all products in a category slug.
func (s *ProductService) GetProductsByCategory(category string) ([]models.Product, error) {
	return s.repo.GetByCategory(category)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetProductsByIDs retrieves products in bulk.
func (s *ProductService) GetProductsByIDs(ids []string) ([]models.Product, error) {
	return s.repo.GetByIDs(ids)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
