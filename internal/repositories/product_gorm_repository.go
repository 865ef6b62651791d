package repositories

import (
	"errors"
	"fmt"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByCategory retrieves all products in a category slug.
func (r *GORMProductRepository) GetByCategory(category string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("category = ?", category).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products in category %s: %w", category, err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetByIDs retrieves products for a set of IDs in one query. Missing IDs are
// silently absent from the result; callers decide whether that is an error.
func (r *GORMProductRepository) GetByIDs(ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update updates an existing product in the database.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound if no rows were
		// affected by an update, so we check RowsAffected.
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}
