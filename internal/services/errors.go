package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrEmptyCart is returned when checkout begins with no line items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCheckoutInFlight guards against double-submit: one checkout per
	// cart owner at a time.
	ErrCheckoutInFlight = errors.New("a checkout is already in progress")
	// ErrReferenceMismatch is returned when a client confirmation carries a
	// reference that does not belong to the order.
	ErrReferenceMismatch = errors.New("payment reference does not match order")
	// ErrTerminalStatus rejects transitions out of delivered, cancelled or
	// failed orders.
	ErrTerminalStatus = errors.New("order is in a terminal status")
	// ErrInvalidTransition rejects status changes outside the order state
	// machine.
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrNotOrderOwner is returned when a caller touches an order that
	// belongs to a different user.
	ErrNotOrderOwner = errors.New("order does not belong to this user")
	// ErrPaymentNotConfirmed is returned when the client reports success
	// but the gateway's verify endpoint does not show the charge as paid.
	ErrPaymentNotConfirmed = errors.New("gateway has not confirmed the payment")
	// ErrPaymentDeclined is returned when a client confirmation arrives
	// after the gateway's webhook already settled the order as failed.
	ErrPaymentDeclined = errors.New("payment was declined by the gateway")
)

// ValidationError carries field-level messages for bad user input. It is
// raised before any network or database call is made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// PaymentInitError means the gateway initialize call failed before any
// payment was attempted. The order has been marked failed.
type PaymentInitError struct {
	OrderID string
	Err     error
}

func (e *PaymentInitError) Error() string {
	return fmt.Sprintf("payment initialization failed for order %s: %v", e.OrderID, e.Err)
}

func (e *PaymentInitError) Unwrap() error { return e.Err }

// OrderRecordingError is the most sensitive failure: the gateway confirmed
// payment but recording it against the order failed. The message always
// carries the gateway reference so support can reconcile manually, and the
// caller must not clear the cart.
type OrderRecordingError struct {
	OrderID          string
	GatewayReference string
	Err              error
}

func (e *OrderRecordingError) Error() string {
	return fmt.Sprintf("payment was received but could not be recorded for order %s; quote gateway reference %s to support: %v",
		e.OrderID, e.GatewayReference, e.Err)
}

func (e *OrderRecordingError) Unwrap() error { return e.Err }
