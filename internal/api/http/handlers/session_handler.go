package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propdesk/property-service/internal/auth"
	apperrors "github.com/propdesk/property-service/pkg/util"
)

// SessionHandler returns the caller's resolved session record. Clients use it
// to confirm or refresh their cached session after startup.
type SessionHandler struct{}

// NewSessionHandler constructs handler.
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Me handles GET /api/me.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": principal.Session()})
}
