package models

import "time"

// WishlistEntry marks a product as saved by a user. Entries form a set:
// one row per (user, product), no quantity.
type WishlistEntry struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"index:idx_user_product,unique;type:varchar(36)"`
	ProductID string    `json:"product_id" gorm:"index:idx_user_product,unique;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
}
