package dto

import (
	"time"

	"github.com/janus-pm/janus/internal/domain"
)

// TicketSummary response.
type TicketSummary struct {
	ID                int64                `json:"id"`
	TicketID          string               `json:"ticket_id"`
	Type              domain.TicketType    `json:"type"`
	State             domain.TicketState   `json:"state"`
	Urgency           domain.TicketUrgency `json:"urgency"`
	Subject           string               `json:"subject"`
	ResidentName      string               `json:"resident_name"`
	SenderEmail       string               `json:"sender_email"`
	BuildingID        *int64               `json:"building_id"`
	BuildingName      *string              `json:"building_name"`
	UnitNumber        *string              `json:"unit_number"`
	RepairCategory    *string              `json:"repair_category"`
	EstimatedCost     float64              `json:"estimated_cost"`
	AssignedVendorID  *int64               `json:"assigned_vendor_id"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// TicketDetailResponse provides the ticket plus its message thread.
type TicketDetailResponse struct {
	TicketSummary
	DamageDescription string                  `json:"damage_description"`
	Messages          []TicketMessageResponse `json:"messages"`
}

// TicketMessageResponse represents one thread entry.
type TicketMessageResponse struct {
	ID          string    `json:"id"`
	SenderEmail string    `json:"sender_email"`
	SenderName  string    `json:"sender_name"`
	Body        string    `json:"body"`
	IsInternal  bool      `json:"is_internal"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReplyRequest appends a staff reply to a ticket thread.
type ReplyRequest struct {
	Body        string `json:"body"`
	ToEmail     string `json:"to_email"`
	IsInternal  bool   `json:"is_internal"`
	SenderEmail string `json:"sender_email"`
	SenderName  string `json:"sender_name"`
}

// NotifyVendorRequest dispatches a work order to an assigned vendor.
type NotifyVendorRequest struct {
	VendorID int64 `json:"vendor_id"`
}

// NewTicketSummary maps a domain ticket to its API shape.
func NewTicketSummary(t domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:               t.ID,
		TicketID:         t.TicketID,
		Type:             t.Type,
		State:            t.State,
		Urgency:          t.Urgency,
		Subject:          t.Subject,
		ResidentName:     t.ResidentName,
		SenderEmail:      t.SenderEmail,
		BuildingID:       t.BuildingID,
		BuildingName:     t.BuildingName,
		UnitNumber:       t.UnitNumber,
		RepairCategory:   t.RepairCategory,
		EstimatedCost:    t.EstimatedCost,
		AssignedVendorID: t.AssignedVendorID,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// NewTicketDetail maps a ticket and its thread to the detail shape.
func NewTicketDetail(t domain.Ticket, msgs []domain.TicketMessage) TicketDetailResponse {
	out := TicketDetailResponse{
		TicketSummary:     NewTicketSummary(t),
		DamageDescription: t.DamageDescription,
		Messages:          make([]TicketMessageResponse, 0, len(msgs)),
	}
	for _, m := range msgs {
		out.Messages = append(out.Messages, TicketMessageResponse{
			ID:          m.ID,
			SenderEmail: m.SenderEmail,
			SenderName:  m.SenderName,
			Body:        m.Body,
			IsInternal:  m.IsInternal,
			CreatedAt:   m.CreatedAt,
		})
	}
	return out
}
