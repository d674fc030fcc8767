package domain

import "time"

// TicketType classifies what a resident email is about.
type TicketType string

const (
	TicketTypeRepair      TicketType = "repair"
	TicketTypeComplaint   TicketType = "complaint"
	TicketTypeCondoReject TicketType = "condo_reject"
	TicketTypeInquiry     TicketType = "general_inquiries_or_redesign"
)

// TicketState enumerates lifecycle states for tickets.
type TicketState string

const (
	TicketStateNew             TicketState = "new"
	TicketStateInProgress      TicketState = "in-progress"
	TicketStatePendingApproval TicketState = "pending-approval"
	TicketStateCompleted       TicketState = "completed"
)

// TicketUrgency enumerates triage urgency levels.
type TicketUrgency string

const (
	TicketUrgencyHigh   TicketUrgency = "high"
	TicketUrgencyMedium TicketUrgency = "medium"
	TicketUrgencyLow    TicketUrgency = "low"
)

// CostFloor is the minimum estimated repair cost persisted on any ticket.
// Classifier estimates below it are raised, never trusted downward.
const CostFloor float64 = 150

// Ticket is the aggregate for resident service requests. TicketID is the
// public identifier embedded in outbound email subjects; ID is storage-local.
type Ticket struct {
	ID                int64
	TicketID          string
	Type              TicketType
	State             TicketState
	Urgency           TicketUrgency
	Subject           string
	DamageDescription string
	ResidentName      string
	SenderEmail       string
	BuildingID        *int64
	BuildingName      *string
	UnitNumber        *string
	RepairCategory    *string
	EstimatedCost     float64
	AssignedVendorID  *int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ValidTicketType reports whether v is one of the enumerated ticket types.
func ValidTicketType(v TicketType) bool {
	switch v {
	case TicketTypeRepair, TicketTypeComplaint, TicketTypeCondoReject, TicketTypeInquiry:
		return true
	}
	return false
}

// ValidTicketState reports whether v is one of the enumerated states.
func ValidTicketState(v TicketState) bool {
	switch v {
	case TicketStateNew, TicketStateInProgress, TicketStatePendingApproval, TicketStateCompleted:
		return true
	}
	return false
}

// ValidTicketUrgency reports whether v is one of the enumerated urgencies.
func ValidTicketUrgency(v TicketUrgency) bool {
	switch v {
	case TicketUrgencyHigh, TicketUrgencyMedium, TicketUrgencyLow:
		return true
	}
	return false
}
