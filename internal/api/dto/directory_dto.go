package dto

import (
	"time"

	"github.com/janus-pm/janus/internal/domain"
)

// VendorResponse exposes the vendor directory.
type VendorResponse struct {
	ID          int64     `json:"id"`
	CompanyName string    `json:"company_name"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	Category    *string   `json:"category"`
	BuildingIDs *string   `json:"building_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResidentResponse exposes the resident directory.
type ResidentResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        *string   `json:"name"`
	SuiteNumber *string   `json:"suite_number"`
	BuildingID  *int64    `json:"building_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewVendorResponse maps a domain vendor.
func NewVendorResponse(v domain.Vendor) VendorResponse {
	return VendorResponse{
		ID:          v.ID,
		CompanyName: v.CompanyName,
		Email:       v.Email,
		Phone:       v.Phone,
		Category:    v.Category,
		BuildingIDs: v.BuildingIDs,
		CreatedAt:   v.CreatedAt,
	}
}

// NewResidentResponse maps a domain resident.
func NewResidentResponse(r domain.Resident) ResidentResponse {
	return ResidentResponse{
		ID:          r.ID,
		Email:       r.Email,
		Name:        r.Name,
		SuiteNumber: r.SuiteNumber,
		BuildingID:  r.BuildingID,
		CreatedAt:   r.CreatedAt,
	}
}
