package handlers

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/Atwoto/solara-mvp-sub000/internal/repositories"
	"github.com/Atwoto/solara-mvp-sub000/internal/services"
	"github.com/Atwoto/solara-mvp-sub000/pkg/paystack"

	"github.com/gofiber/fiber/v2"
)

// WebhookVerifier checks the gateway's webhook signature over the raw body.
// Satisfied by *paystack.Client.
type WebhookVerifier interface {
	ValidateWebhookSignature(body []byte, signature string) bool
}

// CheckoutHandler handles HTTP requests for the checkout flow and the
// payment gateway webhook.
type CheckoutHandler struct {
	checkout *services.CheckoutService
	verifier WebhookVerifier
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkout *services.CheckoutService, verifier WebhookVerifier) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		verifier: verifier,
	}
}

// RegisterRoutes registers checkout routes. These run under AuthOptional:
// guests check out with an email, users with their session identity.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/", h.HandleBegin)
	checkoutRoutes.Post("/:orderId/confirm", h.HandleConfirm)
	checkoutRoutes.Post("/:orderId/abort", h.HandleAbort)
}

// RegisterWebhookRoutes registers the gateway webhook receiver. Public route,
// authenticated by signature instead of a bearer token.
func (h *CheckoutHandler) RegisterWebhookRoutes(router fiber.Router) {
	router.Post("/paystack/webhook", h.HandleWebhook)
}

// HandleBegin validates shipping details, freezes the cart into a
// provisional order and initializes the gateway transaction.
func (h *CheckoutHandler) HandleBegin(c *fiber.Ctx) error {
	owner, ok := requireOwner(c)
	if !ok {
		return missingOwner(c)
	}
	var req services.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	begun, err := h.checkout.Begin(owner, req)
	if err != nil {
		var verr *services.ValidationError
		var perr *services.PaymentInitError
		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  verr.Fields,
			})
		case errors.Is(err, services.ErrEmptyCart):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Your cart is empty",
			})
		case errors.Is(err, services.ErrCheckoutInFlight):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "A checkout is already in progress, please wait",
			})
		case errors.As(err, &perr):
			log.Printf("Payment initialization failed: %v", perr)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message":  "Could not reach the payment provider, you have not been charged",
				"order_id": perr.OrderID,
				"error":    perr.Error(),
			})
		}
		log.Printf("Checkout failed for %s: %v", owner.Key(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not start checkout",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id": begun.OrderID,
		"paystack": fiber.Map{
			"reference":         begun.Reference,
			"access_code":       begun.AccessCode,
			"authorization_url": begun.AuthorizationURL,
		},
		"total_minor": begun.TotalMinor,
		"currency":    begun.Currency,
	})
}

// ConfirmRequest is the payment widget's success callback payload.
type ConfirmRequest struct {
	Reference string `json:"reference"`
}

// HandleConfirm records the provisional client-side payment success.
func (h *CheckoutHandler) HandleConfirm(c *fiber.Ctx) error {
	owner, ok := requireOwner(c)
	if !ok {
		return missingOwner(c)
	}
	var req ConfirmRequest
	if err := c.BodyParser(&req); err != nil || req.Reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "reference is required",
		})
	}

	confirmation, err := h.checkout.ConfirmClient(owner, c.Params("orderId"), req.Reference)
	if err != nil {
		var rerr *services.OrderRecordingError
		switch {
		case errors.As(err, &rerr):
			// The most sensitive failure: payment went through but the
			// record write did not. Surface the gateway reference
			// prominently; the cart has not been cleared.
			log.Printf("Order recording failed: %v", rerr)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message":           rerr.Error(),
				"gateway_reference": rerr.GatewayReference,
				"order_id":          rerr.OrderID,
			})
		case errors.Is(err, services.ErrReferenceMismatch):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Payment reference does not match this order",
			})
		case errors.Is(err, services.ErrPaymentDeclined):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"message": "Payment was declined by the gateway",
			})
		case errors.Is(err, services.ErrPaymentNotConfirmed):
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"message": "The gateway has not confirmed this payment",
			})
		case errors.Is(err, services.ErrNotOrderOwner):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "This order belongs to another user",
			})
		case errors.Is(err, repositories.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		log.Printf("Payment confirmation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not confirm payment",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Payment confirmed",
		"order_id":  confirmation.OrderID,
		"reference": confirmation.Reference,
	})
}

// HandleAbort acknowledges the widget's close signal. The order stays
// pending_payment and the cart is preserved; the user may resubmit.
func (h *CheckoutHandler) HandleAbort(c *fiber.Ctx) error {
	owner, ok := requireOwner(c)
	if !ok {
		return missingOwner(c)
	}
	order, err := h.checkout.ReportAbort(owner, c.Params("orderId"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		if errors.Is(err, services.ErrNotOrderOwner) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "This order belongs to another user",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not record abort",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message":  "Payment was not completed, your cart is unchanged",
		"order_id": order.ID,
		"status":   order.Status,
	})
}

// webhookPayload is the subset of the gateway's webhook body we act on.
type webhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"data"`
}

// HandleWebhook receives the gateway's asynchronous confirmation. The
// signature over the raw body is checked before anything is parsed; an
// invalid signature is rejected without touching the ledger.
func (h *CheckoutHandler) HandleWebhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get(paystack.SignatureHeader)
	if signature == "" || !h.verifier.ValidateWebhookSignature(body, signature) {
		log.Printf("Rejected webhook with bad signature from %s", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid signature",
		})
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid webhook body",
		})
	}
	if payload.Data.Reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Webhook body has no reference",
		})
	}

	if err := h.checkout.HandleWebhook(payload.Event, payload.Data.Reference); err != nil {
		// Non-2xx makes the gateway redeliver; transitions are idempotent
		// so replays are safe.
		log.Printf("Webhook processing failed for %s: %v", payload.Data.Reference, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Webhook processing failed",
		})
	}
	return c.SendStatus(fiber.StatusOK)
}
