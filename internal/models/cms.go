package models

import "gorm.io/gorm"

// BlogPost is an article in the storefront blog.
type BlogPost struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title      string `json:"title" validate:"required,min=3,max=200"`
	Slug       string `json:"slug" gorm:"uniqueIndex;type:varchar(200)" validate:"required"`
	Excerpt    string `json:"excerpt" validate:"omitempty,max=500"`
	Content    string `json:"content" validate:"required"`
	CoverImage string `json:"cover_image" validate:"omitempty,url"`
	Published  bool   `json:"published" gorm:"default:false"`
	gorm.Model
}

// ServicePage is a CMS-managed page describing an installation or
// maintenance service offering.
type ServicePage struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title     string `json:"title" validate:"required,min=3,max=200"`
	Slug      string `json:"slug" gorm:"uniqueIndex;type:varchar(200)" validate:"required"`
	Content   string `json:"content" validate:"required"`
	HeroImage string `json:"hero_image" validate:"omitempty,url"`
	Published bool   `json:"published" gorm:"default:false"`
	gorm.Model
}

// Testimonial is a customer quote shown on the storefront once approved.
type Testimonial struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Author   string `json:"author" validate:"required,min=2,max=150"`
	Quote    string `json:"quote" validate:"required,max=2000"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Approved bool   `json:"approved" gorm:"default:false"`
	gorm.Model
}
