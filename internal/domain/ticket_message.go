package domain

import "time"

// System identity recorded on messages written by the pipeline itself.
const (
	SystemSenderName  = "JANUS System"
	SystemSenderEmail = "system@janus"
)

// TicketMessage is an append-only audit entry in a ticket thread. Internal
// messages are visible to staff only; every state-changing action taken by
// the intake pipeline appends one.
type TicketMessage struct {
	ID          string
	TicketID    string
	SenderEmail string
	SenderName  string
	Body        string
	IsInternal  bool
	CreatedAt   time.Time
}
