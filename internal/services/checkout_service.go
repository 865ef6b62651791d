package services

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Atwoto/solara-mvp-sub000/internal/models"
	"github.com/Atwoto/solara-mvp-sub000/pkg/paystack"

	"github.com/google/uuid"
)

// PaymentGateway is the server-side surface of the payment provider.
// Satisfied by *paystack.Client; mocked in tests.
type PaymentGateway interface {
	InitializeTransaction(req paystack.InitializeRequest) (*paystack.Transaction, error)
	VerifyTransaction(reference string) (*paystack.VerifyResult, error)
}

// ShippingDetails is the delivery information collected at checkout.
type ShippingDetails struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// CheckoutRequest begins a checkout. GuestEmail is required only when the
// owner has no session email.
type CheckoutRequest struct {
	Shipping   ShippingDetails `json:"shipping"`
	GuestEmail string          `json:"email,omitempty"`
}

// CheckoutBegun is the handle the client needs to drive the payment widget.
type CheckoutBegun struct {
	OrderID          string `json:"order_id"`
	Reference        string `json:"reference"`
	AccessCode       string `json:"access_code"`
	AuthorizationURL string `json:"authorization_url"`
	TotalMinor       int64  `json:"total_minor"`
	Currency         string `json:"currency"`
}

// Confirmation is returned once payment is recorded; the client navigates to
// the confirmation view with these values.
type Confirmation struct {
	OrderID   string `json:"order_id"`
	Reference string `json:"reference"`
}

// Loose phone pattern: optional +, then digits with common separators.
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-().]{6,19}$`)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CheckoutService drives the checkout state machine: freeze the cart, create
// a provisional order, initialize the gateway transaction, and reconcile the
// terminal payment signal (client callback or webhook) against the ledger.
type CheckoutService struct {
	orders  *OrderService
	carts   *CartService
	gateway PaymentGateway

	currency         string
	shippingFeeMinor int64

	mu       sync.Mutex
	inflight map[string]bool // per-owner double-submit guard
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(orders *OrderService, carts *CartService, gateway PaymentGateway, currency string, shippingFeeMinor int64) *CheckoutService {
	return &CheckoutService{
		orders:           orders,
		carts:            carts,
		gateway:          gateway,
		currency:         currency,
		shippingFeeMinor: shippingFeeMinor,
		inflight:         make(map[string]bool),
	}
}

// newReference generates a checkout reference unique per attempt.
func newReference() string {
	suffix := strings.SplitN(uuid.New().String(), "-", 2)[0]
	return fmt.Sprintf("SOL-%d-%s", time.Now().UnixNano(), suffix)
}

// validate checks the shipping form and payer email before anything touches
// the network. Field-level errors come back in a ValidationError.
func validate(req CheckoutRequest, payerEmail string) *ValidationError {
	fields := make(map[string]string)
	if strings.TrimSpace(req.Shipping.FullName) == "" {
		fields["full_name"] = "full name is required"
	}
	if !phonePattern.MatchString(strings.TrimSpace(req.Shipping.Phone)) {
		fields["phone"] = "a valid phone number is required"
	}
	if strings.TrimSpace(req.Shipping.Address) == "" {
		fields["address"] = "delivery address is required"
	}
	if !emailPattern.MatchString(payerEmail) {
		fields["email"] = "a valid email is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// acquire marks a checkout in flight for the owner, rejecting a second
// submit until the first resolves.
func (s *CheckoutService) acquire(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[key] {
		return ErrCheckoutInFlight
	}
	s.inflight[key] = true
	return nil
}

func (s *CheckoutService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}

// Begin runs steps 1-3 of the checkout protocol: validate, freeze the cart
// into a provisional pending_payment order, initialize the gateway
// transaction and store its reference. The cart is not touched; it is only
// cleared after confirmed payment.
func (s *CheckoutService) Begin(owner CartOwner, req CheckoutRequest) (*CheckoutBegun, error) {
	if err := s.acquire(owner.Key()); err != nil {
		return nil, err
	}
	defer s.release(owner.Key())

	payerEmail := owner.Email
	if payerEmail == "" {
		payerEmail = strings.TrimSpace(req.GuestEmail)
	}
	if verr := validate(req, payerEmail); verr != nil {
		return nil, verr
	}

	store := s.carts.For(owner)
	items, err := store.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read cart for checkout: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	quote := ComputeQuote(items, s.shippingFeeMinor)

	order := &models.Order{
		Email:            payerEmail,
		Items:            freezeItems(items),
		ShippingName:     strings.TrimSpace(req.Shipping.FullName),
		ShippingPhone:    strings.TrimSpace(req.Shipping.Phone),
		ShippingAddress:  strings.TrimSpace(req.Shipping.Address),
		SubtotalMinor:    quote.SubtotalMinor,
		ShippingFeeMinor: quote.ShippingMinor,
		TotalMinor:       quote.TotalMinor,
		Currency:         s.currency,
		Reference:        newReference(),
		Status:           models.StatusPendingPayment,
	}
	if owner.Authenticated() {
		userID := owner.UserID
		order.UserID = &userID
	}

	created, err := s.orders.Create(order)
	if err != nil {
		return nil, fmt.Errorf("failed to create provisional order: %w", err)
	}

	tx, err := s.gateway.InitializeTransaction(paystack.InitializeRequest{
		AmountMinor: created.TotalMinor,
		Currency:    created.Currency,
		Email:       payerEmail,
		Reference:   created.Reference,
		Metadata: map[string]interface{}{
			"order_id":      created.ID,
			"customer_name": created.ShippingName,
		},
	})
	if err != nil {
		// Never leave the order silently stuck: mark it failed and surface
		// the error before any widget could open.
		if serr := s.orders.UpdateStatus(created.ID, models.StatusFailed, false); serr != nil {
			log.Printf("Failed to mark order %s failed after gateway init error: %v", created.ID, serr)
		}
		return nil, &PaymentInitError{OrderID: created.ID, Err: err}
	}

	if err := s.orders.SetGatewayReference(created.ID, tx.Reference, tx.AccessCode); err != nil {
		return nil, fmt.Errorf("failed to record gateway reference %s for order %s: %w", tx.Reference, created.ID, err)
	}

	return &CheckoutBegun{
		OrderID:          created.ID,
		Reference:        created.Reference,
		AccessCode:       tx.AccessCode,
		AuthorizationURL: tx.AuthorizationURL,
		TotalMinor:       created.TotalMinor,
		Currency:         created.Currency,
	}, nil
}

// ConfirmClient handles the payment widget's success callback. The client's
// word alone is not enough to mark an order paid: the charge is re-verified
// against the gateway first, and the verified webhook remains free to
// override the result later. On a recording failure the cart is left
// populated and the returned error carries the gateway reference for manual
// reconciliation.
func (s *CheckoutService) ConfirmClient(owner CartOwner, orderID, reference string) (*Confirmation, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s for confirmation: %w", orderID, err)
	}
	if order.Reference != reference {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrReferenceMismatch)
	}
	if owner.Authenticated() && order.UserID != nil && *order.UserID != owner.UserID {
		return nil, ErrNotOrderOwner
	}

	result, err := s.gateway.VerifyTransaction(gatewayRef(order))
	if err != nil {
		return nil, fmt.Errorf("failed to verify payment for order %s: %w", orderID, err)
	}
	if !result.Succeeded() {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrPaymentNotConfirmed)
	}

	if err := s.orders.UpdateStatus(orderID, models.StatusPaid, false); err != nil {
		// The ledger refusing the transition means a verified outcome is
		// already recorded (the webhook forced failed first). Nothing was
		// lost; tell the user the charge did not go through.
		if errors.Is(err, ErrTerminalStatus) || errors.Is(err, ErrInvalidTransition) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrPaymentDeclined)
		}
		return nil, &OrderRecordingError{
			OrderID:          orderID,
			GatewayReference: gatewayRef(order),
			Err:              err,
		}
	}

	// Clearing the cart is cleanup: best-effort, never fails the
	// confirmation the user already paid for.
	if err := s.carts.For(owner).Clear(); err != nil {
		log.Printf("Failed to clear cart after payment for order %s: %v", orderID, err)
	}

	return &Confirmation{OrderID: orderID, Reference: order.Reference}, nil
}

// ReportAbort handles the widget's close signal. Not a system error: the
// order stays pending_payment and the cart is untouched so the user can
// retry. No status write happens.
func (s *CheckoutService) ReportAbort(owner CartOwner, orderID string) (*models.Order, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %s after abort: %w", orderID, err)
	}
	if owner.Authenticated() && order.UserID != nil && *order.UserID != owner.UserID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}

// HandleWebhook applies the gateway's asynchronous truth to the ledger. A
// success confirms paid (a no-op if the client already did); a failure may
// override a provisional paid via the forced transition. Signature
// verification happens at the transport layer before this is called.
func (s *CheckoutService) HandleWebhook(event, reference string) error {
	order, err := s.orders.GetByReference(reference)
	if err != nil {
		return fmt.Errorf("webhook for unknown reference %s: %w", reference, err)
	}

	switch event {
	case "charge.success":
		return s.orders.UpdateStatus(order.ID, models.StatusPaid, false)
	case "charge.failed":
		return s.orders.UpdateStatus(order.ID, models.StatusFailed, true)
	default:
		log.Printf("Ignoring unhandled webhook event %q for reference %s", event, reference)
		return nil
	}
}

// freezeItems copies cart lines into order items with price-at-time-of-order.
func freezeItems(items []models.CartItem) []models.OrderItem {
	frozen := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		frozen = append(frozen, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return frozen
}

// gatewayRef prefers the gateway's own reference for support messages,
// falling back to the checkout reference if initialize never completed.
func gatewayRef(order *models.Order) string {
	if order.GatewayReference != "" {
		return order.GatewayReference
	}
	return order.Reference
}
