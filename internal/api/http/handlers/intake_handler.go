package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/janus-pm/janus/internal/api/dto"
	"github.com/janus-pm/janus/internal/service"
	apperrors "github.com/janus-pm/janus/pkg/util"
)

// IntakeHandler receives inbound emails from the mail bridge.
type IntakeHandler struct {
	intake *service.IntakeService
}

// NewIntakeHandler constructs handler.
func NewIntakeHandler(intake *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{intake: intake}
}

// ProcessEmail POST /api/email-intake.
func (h *IntakeHandler) ProcessEmail(c *fiber.Ctx) error {
	var req dto.EmailIntakeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	req.FromEmail = strings.TrimSpace(req.FromEmail)
	req.Subject = strings.TrimSpace(req.Subject)
	if req.FromEmail == "" || req.Subject == "" || req.BodyText == "" {
		return apperrors.NewValidationError("fromEmail, subject and bodyText required", nil)
	}

	result, err := h.intake.ProcessEmail(c.UserContext(), req.FromEmail, req.Subject, req.BodyText)
	if err != nil {
		return err
	}
	return c.JSON(dto.EmailIntakeResponse{
		OK:            result.OK,
		CreatedTicket: result.CreatedTicket,
		TicketID:      result.TicketID,
		Reason:        result.Reason,
	})
}
