package dto

// EmailIntakeRequest is the inbound email payload posted by the mail bridge.
type EmailIntakeRequest struct {
	FromEmail string `json:"fromEmail"`
	Subject   string `json:"subject"`
	BodyText  string `json:"bodyText"`
}

// EmailIntakeResponse mirrors the pipeline outcome.
type EmailIntakeResponse struct {
	OK            bool   `json:"ok"`
	CreatedTicket bool   `json:"createdTicket"`
	TicketID      string `json:"ticketId,omitempty"`
	Reason        string `json:"reason,omitempty"`
}
