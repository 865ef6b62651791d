package models

import "gorm.io/gorm"

// ProductFeature is a single entry in a product's feature list. Title alone
// covers plain-string features; Detail is set for title/detail pairs.
type ProductFeature struct {
	Title  string `json:"title" validate:"required"`
	Detail string `json:"detail,omitempty"`
}

// Product represents an item in the solar equipment catalog.
type Product struct {
	ID          string           `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string           `json:"name" validate:"required,min=3,max=150"`
	Category    string           `json:"category" gorm:"index;type:varchar(60)" validate:"required"`
	PriceMinor  int64            `json:"price_minor" validate:"required,gt=0"` // minor currency units (cents)
	Wattage     *int             `json:"wattage,omitempty" validate:"omitempty,gt=0"`
	Images      []string         `json:"images" gorm:"serializer:json" validate:"omitempty,dive,url"`
	Description string           `json:"description" validate:"omitempty,max=5000"`
	Features    []ProductFeature `json:"features" gorm:"serializer:json" validate:"omitempty,dive"`
	gorm.Model                   // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// FirstImage returns the lead image URL for cart/checkout snapshots.
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
