package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/janus-pm/janus/internal/api/dto"
	"github.com/janus-pm/janus/internal/repository"
)

// DirectoryHandler exposes read-only vendor and resident listings for the
// dashboard.
type DirectoryHandler struct {
	vendors   repository.VendorRepository
	residents repository.ResidentRepository
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(vendors repository.VendorRepository, residents repository.ResidentRepository) *DirectoryHandler {
	return &DirectoryHandler{vendors: vendors, residents: residents}
}

// ListVendors GET /api/vendors.
func (h *DirectoryHandler) ListVendors(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	vendors, err := h.vendors.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.VendorResponse, 0, len(vendors))
	for i := range vendors {
		items = append(items, dto.NewVendorResponse(vendors[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListResidents GET /api/residents.
func (h *DirectoryHandler) ListResidents(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	residents, err := h.residents.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.ResidentResponse, 0, len(residents))
	for i := range residents {
		items = append(items, dto.NewResidentResponse(residents[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func pagination(c *fiber.Ctx) (limit, offset int) {
	limit = 100
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
