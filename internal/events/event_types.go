package events

import (
	"time"

	"github.com/janus-pm/janus/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketAssigned  EventType = "ticket_assigned"
	EventMessageAppended EventType = "message_appended"
	EventEmailRejected   EventType = "email_rejected"
)

// Event represents a domain event emitted by the intake pipeline.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Type        domain.TicketType    `json:"type"`
	Urgency     domain.TicketUrgency `json:"urgency"`
	Category    *string              `json:"repair_category,omitempty"`
	BuildingID  *int64               `json:"building_id,omitempty"`
	SenderEmail string               `json:"sender_email"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	VendorID int64  `json:"vendor_id"`
	Category string `json:"category"`
}

// MessageAppendedPayload payload.
type MessageAppendedPayload struct {
	SenderEmail string `json:"sender_email"`
	IsInternal  bool   `json:"is_internal"`
	BodyPreview string `json:"body_preview"`
}

// EmailRejectedPayload payload.
type EmailRejectedPayload struct {
	SenderEmail string `json:"sender_email"`
	Reason      string `json:"reason"`
}
