package handlers

import (
	"errors"

	"github.com/Atwoto/solara-mvp-sub000/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SessionHeader carries the opaque guest session id for cart and checkout
// routes used without authentication.
const SessionHeader = "X-Session-ID"

// ownerFromCtx builds the cart owner for the request: the authenticated user
// if AuthOptional/AuthRequired stored claims, otherwise the guest session.
func ownerFromCtx(c *fiber.Ctx) services.CartOwner {
	owner := services.CartOwner{SessionID: c.Get(SessionHeader)}
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		owner.UserID = userID
		if email, ok := c.Locals("email").(string); ok {
			owner.Email = email
		}
	}
	return owner
}

// requireOwner rejects requests that identify neither a user nor a session.
func requireOwner(c *fiber.Ctx) (services.CartOwner, bool) {
	owner := ownerFromCtx(c)
	if !owner.Authenticated() && owner.SessionID == "" {
		return owner, false
	}
	return owner, true
}

// validationErrors flattens validator.ValidationErrors into a field map.
func validationErrors(err error) map[string]string {
	msgs := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			msgs[e.Field()] = "failed on the '" + e.Tag() + "' rule"
		}
	}
	return msgs
}
