package repositories

import (
	"fmt"
	"sync"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository,
// used in tests and for local development without a database.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		list = append(list, p)
	}
	return list, nil
}

// GetByCategory returns all products matching the category slug.
func (r *MockProductRepository) GetByCategory(category string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.Product
	for _, p := range r.products {
		if p.Category == category {
			list = append(list, p)
		}
	}
	return list, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	return &p, nil
}

// GetByIDs returns the products present for the given IDs.
func (r *MockProductRepository) GetByIDs(ids []string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			list = append(list, p)
		}
	}
	return list, nil
}

// Create adds a new product, generating an ID if none is set.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	r.products[product.ID] = *product
	return nil
}

// Update replaces an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}
