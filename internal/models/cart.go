package models

import "time"

// Cart is the server-persisted cart of an authenticated user. Exactly one
// cart row exists per user (get-or-create), with line items keyed by product.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one line in a cart: a denormalized product snapshot for display
// plus the live product id and quantity. At most one line per product id;
// Quantity is always >= 1 (a non-positive quantity removes the line instead).
type CartItem struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID      string    `json:"-" gorm:"index:idx_cart_product,unique;type:varchar(36)"`
	ProductID   string    `json:"product_id" gorm:"index:idx_cart_product,unique;type:varchar(36)"`
	ProductName string    `json:"product_name"`
	UnitPrice   int64     `json:"unit_price"` // minor units, snapshot at add time
	ImageURL    string    `json:"image_url"`
	Quantity    int       `json:"quantity"`
	AddedAt     time.Time `json:"added_at"`
}
