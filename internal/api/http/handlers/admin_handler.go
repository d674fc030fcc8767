package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/janus-pm/janus/internal/api/dto"
	"github.com/janus-pm/janus/internal/mailer"
	apperrors "github.com/janus-pm/janus/pkg/util"
)

// AdminHandler covers dashboard configuration endpoints.
type AdminHandler struct {
	logger *zap.Logger
}

// NewAdminHandler constructs handler.
func NewAdminHandler(logger *zap.Logger) *AdminHandler {
	return &AdminHandler{logger: logger}
}

// TestSMTP POST /api/admin/smtp/test. Credentials are taken from the request
// body, not from stored settings, so admins can verify before saving.
func (h *AdminHandler) TestSMTP(c *fiber.Ctx) error {
	var req dto.SMTPTestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Host == "" || req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("host, username, password required", nil)
	}
	if req.Port == 0 {
		req.Port = 587
	}

	err := mailer.TestConnection(c.UserContext(), mailer.ProbeSettings{
		Host:      req.Host,
		Port:      req.Port,
		Username:  req.Username,
		Password:  req.Password,
		FromName:  req.FromName,
		FromEmail: req.FromEmail,
	})
	if err != nil {
		h.logger.Warn("smtp probe failed", zap.String("host", req.Host), zap.Error(err))
		return c.JSON(dto.SMTPTestResponse{OK: false, Message: err.Error()})
	}
	return c.JSON(dto.SMTPTestResponse{OK: true, Message: "Test email sent successfully."})
}
