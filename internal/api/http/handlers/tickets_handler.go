package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/janus-pm/janus/internal/api/dto"
	"github.com/janus-pm/janus/internal/domain"
	"github.com/janus-pm/janus/internal/repository"
	"github.com/janus-pm/janus/internal/service"
	apperrors "github.com/janus-pm/janus/pkg/util"
)

// TicketsHandler manages dashboard ticket endpoints.
type TicketsHandler struct {
	tickets       *service.TicketService
	notifications *service.NotificationService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, notifications *service.NotificationService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, notifications: notifications}
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	tickets, err := h.tickets.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketSummary(tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /api/tickets/:ticketId.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, msgs, err := h.tickets.GetTicket(c.UserContext(), c.Params("ticketId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(*ticket, msgs)})
}

// Reply POST /api/tickets/:ticketId/reply.
func (h *TicketsHandler) Reply(c *fiber.Ctx) error {
	var req dto.ReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Body) == "" {
		return apperrors.NewValidationError("body required", nil)
	}
	err := h.notifications.SendTicketReply(
		c.UserContext(),
		c.Params("ticketId"),
		req.ToEmail,
		req.Body,
		req.IsInternal,
		req.SenderEmail,
		req.SenderName,
	)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"ok": true}})
}

// NotifyVendor POST /api/tickets/:ticketId/notify-vendor.
func (h *TicketsHandler) NotifyVendor(c *fiber.Ctx) error {
	var req dto.NotifyVendorRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.VendorID <= 0 {
		return apperrors.NewValidationError("vendor_id required", nil)
	}
	if err := h.notifications.NotifyVendor(c.UserContext(), c.Params("ticketId"), req.VendorID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"ok": true}})
}

func parseTicketQuery(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{Limit: 50}

	for _, raw := range splitCSV(c.Query("state")) {
		if s := domain.TicketState(raw); domain.ValidTicketState(s) {
			filter.States = append(filter.States, s)
		}
	}
	for _, raw := range splitCSV(c.Query("type")) {
		if t := domain.TicketType(raw); domain.ValidTicketType(t) {
			filter.Types = append(filter.Types, t)
		}
	}
	for _, raw := range splitCSV(c.Query("urgency")) {
		if u := domain.TicketUrgency(raw); domain.ValidTicketUrgency(u) {
			filter.Urgencies = append(filter.Urgencies, u)
		}
	}
	if raw := c.Query("building_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.BuildingID = &id
		}
	}
	if raw := strings.TrimSpace(c.Query("sender")); raw != "" {
		filter.SenderEmail = &raw
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 200 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	return filter
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
