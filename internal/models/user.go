package models

import "gorm.io/gorm"

// User represents a registered customer or admin of the store.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name       string `json:"name" gorm:"type:varchar(150)" validate:"required,min=2,max=150"`
	Email      string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	IsAdmin    bool   `json:"is_admin" gorm:"default:false"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
