package repositories

import (
	"github.com/Atwoto/solara-mvp-sub000/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByCategory(category string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByIDs(ids []string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
}
