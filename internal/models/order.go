package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPendingPayment OrderStatus = "pending_payment"
	StatusPaid           OrderStatus = "paid"
	StatusProcessing     OrderStatus = "processing"
	StatusShipped        OrderStatus = "shipped"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
	StatusFailed         OrderStatus = "failed"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusFailed
}

// allowedTransitions is the forward edge set of the order state machine.
// The payment path (pending_payment -> paid/cancelled/failed) is driven by
// checkout and the gateway webhook; paid onward is advanced administratively.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusPendingPayment: {StatusPaid, StatusCancelled, StatusFailed},
	StatusPaid:           {StatusProcessing},
	StatusProcessing:     {StatusShipped, StatusCancelled},
	StatusShipped:        {StatusDelivered},
}

// CanTransition reports whether from -> to is a legal status change.
// Re-applying the current status is always allowed (callers treat it as a
// no-op, which tolerates duplicate webhook delivery). force additionally
// permits paid -> failed, reserved for the verified gateway webhook
// overriding a provisional client-side confirmation.
func CanTransition(from, to OrderStatus, force bool) bool {
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	if force && from == StatusPaid && to == StatusFailed {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderItem is a frozen copy of a cart line at the moment checkout began.
// Unit price is deliberately decoupled from later catalog price changes.
type OrderItem struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID     string `json:"-" gorm:"index;type:varchar(36)"`
	ProductID   string `json:"product_id" gorm:"type:varchar(36)"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"` // minor units, price at time of order
}

// Order is a customer order. Created provisionally (pending_payment) the
// moment checkout begins, never deleted afterwards.
type Order struct {
	ID               string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID           *string     `json:"user_id,omitempty" gorm:"index;type:varchar(36)"` // nil for guest checkout
	Email            string      `json:"email"`                                           // payer email, from session or guest entry
	Items            []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingName     string      `json:"shipping_name"`
	ShippingPhone    string      `json:"shipping_phone"`
	ShippingAddress  string      `json:"shipping_address"`
	SubtotalMinor    int64       `json:"subtotal_minor"`
	ShippingFeeMinor int64       `json:"shipping_fee_minor"`
	TotalMinor       int64       `json:"total_minor"`
	Currency         string      `json:"currency" gorm:"type:varchar(3)"`
	Reference        string      `json:"reference" gorm:"uniqueIndex;type:varchar(64)"` // generated per checkout attempt
	GatewayReference string      `json:"gateway_reference,omitempty"`
	GatewayAccess    string      `json:"-"` // gateway access code for the hosted payment page
	Status           OrderStatus `json:"status" gorm:"index;type:varchar(20)"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
