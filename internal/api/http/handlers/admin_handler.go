package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/propdesk/property-service/internal/api/dto"
	"github.com/propdesk/property-service/internal/auth"
	"github.com/propdesk/property-service/internal/domain"
	"github.com/propdesk/property-service/internal/events"
	"github.com/propdesk/property-service/internal/service"
	apperrors "github.com/propdesk/property-service/pkg/util"
)

// AdminHandler exposes the privileged account operations.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: adminService}
}

// CreateManager handles POST /api/admin/managers.
func (h *AdminHandler) CreateManager(c *fiber.Ctx) error {
	var req dto.CreateManagerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Normalize()
	if err := dto.Validate(&req); err != nil {
		return err
	}

	created, err := h.admin.CreateManager(c.UserContext(), actorFromContext(c), req.Name, req.Email, req.Phone)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":      "manager created",
		"userId":       created.UserID,
		"email":        created.Email,
		"name":         created.Name,
		"tempPassword": created.TempPassword,
	})
}

// InviteUser handles POST /api/admin/invite.
func (h *AdminHandler) InviteUser(c *fiber.Ctx) error {
	var req dto.InviteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.Normalize()
	if err := dto.Validate(&req); err != nil {
		return err
	}

	invited, err := h.admin.InviteUser(c.UserContext(), actorFromContext(c), req.Email, domain.Role(req.Role))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "invitation sent",
		"userId":  invited.UserID,
		"email":   invited.Email,
		"role":    invited.Role,
	})
}

// ListManagers handles GET /api/admin/managers.
func (h *AdminHandler) ListManagers(c *fiber.Ctx) error {
	managers, err := h.admin.ListManagers(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}

	out := make([]dto.ManagerResponse, 0, len(managers))
	for _, m := range managers {
		out = append(out, dto.ManagerResponse{
			ID:    m.ID,
			Name:  m.Name,
			Email: m.Email,
			Phone: m.Phone,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

func actorFromContext(c *fiber.Ctx) events.Actor {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return events.Actor{}
	}
	return events.Actor{UserID: principal.UserID, Email: principal.Email}
}
