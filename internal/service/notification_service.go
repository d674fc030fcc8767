package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/janus-pm/janus/internal/config"
	"github.com/janus-pm/janus/internal/domain"
	"github.com/janus-pm/janus/internal/mailer"
	"github.com/janus-pm/janus/internal/repository"
	apperrors "github.com/janus-pm/janus/pkg/util"
)

// NotificationService composes and fans out ticket emails to the vendor,
// property manager and resident, and records a transcript of every attempted
// send in the ticket history.
type NotificationService struct {
	tickets   repository.TicketRepository
	messages  repository.TicketMessageRepository
	buildings repository.BuildingRepository
	vendors   repository.VendorRepository
	resolver  mailer.SenderResolver
	cfg       config.MailConfig
	logger    *zap.Logger
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	TicketRepo   repository.TicketRepository
	MessageRepo  repository.TicketMessageRepository
	BuildingRepo repository.BuildingRepository
	VendorRepo   repository.VendorRepository
	Resolver     mailer.SenderResolver
	Mail         config.MailConfig
	Logger       *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		tickets:   deps.TicketRepo,
		messages:  deps.MessageRepo,
		buildings: deps.BuildingRepo,
		vendors:   deps.VendorRepo,
		resolver:  deps.Resolver,
		cfg:       deps.Mail,
		logger:    deps.Logger,
	}
}

// SendTicketNotifications delivers up to three emails for a new ticket:
// vendor (when assigned), property manager (always), resident (always).
// Sends run concurrently with independent failure isolation; the aggregate
// never fails the pipeline. Transcripts are written only after the send
// phase, recording "this content was attempted", not "was delivered".
func (n *NotificationService) SendTicketNotifications(ctx context.Context, ticketID string, triage domain.TriageResult, fromEmail string, assignedVendorID *int64) {
	ticket, err := n.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			n.logger.Error("fetch ticket for notifications failed",
				zap.String("ticket_id", ticketID), zap.Error(err))
		}
		ticket = nil
	}

	var vendor *domain.Vendor
	if assignedVendorID != nil {
		vendor, err = n.vendors.GetByID(ctx, *assignedVendorID)
		if err != nil {
			n.logger.Error("fetch vendor for notifications failed",
				zap.Int64("vendor_id", *assignedVendorID), zap.Error(err))
			vendor = nil
		}
	}

	// Ticket row overrides triage-extracted fields; triage fills gaps.
	var buildingID *int64
	buildingName := ""
	unit := "Unknown unit"
	residentName := fromEmail
	subjectLine := fmt.Sprintf("New JANUS Ticket %s — %s", ticketID, triage.Type)

	if ticket != nil {
		buildingID = ticket.BuildingID
		if ticket.BuildingName != nil {
			buildingName = *ticket.BuildingName
		}
		if ticket.UnitNumber != nil {
			unit = *ticket.UnitNumber
		}
		if ticket.ResidentName != "" {
			residentName = ticket.ResidentName
		}
		if ticket.Subject != "" {
			subjectLine = ticket.Subject
		}
	}
	if buildingName == "" && triage.BuildingName != nil {
		buildingName = *triage.BuildingName
	}
	if buildingName == "" && buildingID != nil {
		if b, err := n.buildings.GetByID(ctx, *buildingID); err == nil {
			buildingName = b.Name
		}
	}
	if buildingName == "" {
		buildingName = "Unknown building"
	}
	if unit == "Unknown unit" && triage.UnitNumber != nil {
		unit = *triage.UnitNumber
	}
	if residentName == fromEmail && triage.ResidentName != nil {
		residentName = *triage.ResidentName
	}

	vendorName := "Vendor"
	vendorEmail := ""
	if vendor != nil {
		vendorName = vendor.CompanyName
		if vendor.Email != nil {
			vendorEmail = *vendor.Email
		}
	}
	pmEmail := n.pmEmailForBuilding(ctx, buildingID)

	summary := triage.Summary
	if summary == "" {
		summary = "(no summary available)"
	}

	var outbound []mailer.Message

	if vendorEmail != "" {
		outbound = append(outbound, mailer.Message{
			To:      vendorEmail,
			Subject: fmt.Sprintf("Ticket %s - New request from JANUS", ticketID),
			Text: fmt.Sprintf(`Hi %s,

You have been assigned a new request from JANUS.

Resident: %s (%s)
Building: %s
Unit: %s

The resident emailed about:
%s

Ticket details:
- Ticket ID: %s
- Type: %s
- Urgency: %s
- Category: %s
- Estimated cost (AI): %s

Please contact the resident and proceed with inspection/repair as appropriate.
You can log into the JANUS portal for full details and to update the ticket status.

Thanks,
JANUS`, vendorName, residentName, fromEmail, buildingName, unit, summary,
				ticketID, triage.Type, triage.Urgency,
				categoryOrNA(triage.RepairCategory), costOrNA(triage.EstimatedCost)),
		})
	}

	vendorNotice := "No vendor has been notified yet; please assign a vendor in the JANUS dashboard."
	if vendorEmail != "" {
		vendorNotice = fmt.Sprintf("The designated vendor (%s <%s>) has already been notified about this issue.", vendorName, vendorEmail)
	}
	outbound = append(outbound, mailer.Message{
		To:      pmEmail,
		Subject: fmt.Sprintf("Ticket %s - New resident email", ticketID),
		Text: fmt.Sprintf(`Hi PM,

A resident has emailed JANUS with a new request.

Resident: %s (%s)
Building: %s
Unit: %s

Their email was about:
%s

We have created Ticket ID: %s
Subject: %s

AI classification:
- Type: %s
- Urgency: %s
- Status: %s
- Category: %s
- Estimated cost: %s

%s

You can review the full email content and update the ticket in the JANUS dashboard.

Best,
JANUS System`, residentName, fromEmail, buildingName, unit, summary, ticketID, subjectLine,
			triage.Type, triage.Urgency, triage.Status,
			categoryOrNA(triage.RepairCategory), costOrNA(triage.EstimatedCost), vendorNotice),
	})

	followUp := "A property manager will review your request and follow up with you."
	if assignedVendorID != nil {
		followUp = fmt.Sprintf("We have contacted our designated vendor (%s). They will follow up with you regarding scheduling.", vendorName)
	}
	residentSummary := summary
	if triage.Summary == "" {
		residentSummary = subjectLine
	}
	outbound = append(outbound, mailer.Message{
		To:      fromEmail,
		Subject: fmt.Sprintf("We received your request - Ticket %s", ticketID),
		Text: fmt.Sprintf(`Hi %s,

We have received your email and created a ticket in the JANUS system.

We understand that your request is about:
%s

Ticket details:
- Ticket ID: %s
- Subject: %s
- Type: %s
- Urgency: %s
- Status: %s

%s

If any of the details above are incorrect, please reply to this email with additional information.

Best regards,
JANUS Support`, residentName, residentSummary, ticketID, subjectLine,
			triage.Type, triage.Urgency, triage.Status, followUp),
	})

	sender := n.resolver.Resolve(ctx, buildingID)
	if sender == nil {
		for _, msg := range outbound {
			n.logger.Info("smtp not configured; would have sent notification",
				zap.String("ticket_id", ticketID),
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.String("body", msg.Text))
		}
		return
	}

	var wg sync.WaitGroup
	for _, msg := range outbound {
		wg.Add(1)
		go func(m mailer.Message) {
			defer wg.Done()
			if err := sender.Send(ctx, m); err != nil {
				n.logger.Error("notification send failed",
					zap.String("ticket_id", ticketID),
					zap.String("to", m.To),
					zap.Error(err))
			}
		}(msg)
	}
	wg.Wait()

	roles := notificationRoles(vendorEmail != "")
	for i, msg := range outbound {
		transcript := &domain.TicketMessage{
			TicketID:    ticketID,
			SenderEmail: domain.SystemSenderEmail,
			SenderName:  domain.SystemSenderName,
			Body:        fmt.Sprintf("[Email to %s: %s]\n\n%s", roles[i], msg.To, msg.Text),
			IsInternal:  false,
		}
		if err := n.messages.Create(ctx, transcript); err != nil {
			n.logger.Error("failed to record notification transcript",
				zap.String("ticket_id", ticketID), zap.Error(err))
		}
	}
}

// SendDecline notifies a sender that their email is outside JANUS scope.
// Failures are logged and swallowed; a decline is never worth failing intake.
func (n *NotificationService) SendDecline(ctx context.Context, to, reason string) {
	msg := mailer.Message{
		To:      to,
		Subject: "Your request to JANUS",
		Text: fmt.Sprintf(`Hi,

Thank you for contacting JANUS. Based on an automated review, your email appears to be outside the maintenance, complaints, or resident services that JANUS handles.

Reason: %s

If you believe this is incorrect, please reply with more details.

Best regards,
JANUS Support`, reason),
	}

	sender := n.resolver.Resolve(ctx, nil)
	if sender == nil {
		n.logger.Info("smtp not configured; would have sent off-topic email",
			zap.String("to", to), zap.String("body", msg.Text))
		return
	}
	if err := sender.Send(ctx, msg); err != nil {
		n.logger.Error("off-topic notice send failed", zap.String("to", to), zap.Error(err))
	}
}

// SendTicketReply records a dashboard reply on the thread and, for
// non-internal replies, emails it to the recipient with the reply-correlation
// token embedded in the subject.
func (n *NotificationService) SendTicketReply(ctx context.Context, ticketID, toEmail, body string, isInternal bool, senderEmail, senderName string) error {
	ticket, err := n.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}

	if senderName == "" {
		senderName = "Property Manager"
	}
	msg := &domain.TicketMessage{
		TicketID:    ticketID,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		Body:        body,
		IsInternal:  isInternal,
	}
	if err := n.messages.Create(ctx, msg); err != nil {
		return apperrors.MapError(err)
	}

	if isInternal || toEmail == "" {
		return nil
	}

	subject := fmt.Sprintf("Re: %s (Ticket ID: %s)", ticket.Subject, ticketID)
	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">
  <p>%s</p>
  <hr style="margin-top: 24px; border: none; border-top: 1px solid #e2e8f0;" />
  <p style="color: #94a3b8; font-size: 12px;">
    This message is regarding Ticket ID: <strong>%s</strong>.<br/>
    Please reply to this email to continue the conversation.
  </p>
</div>`, strings.ReplaceAll(body, "\n", "<br/>"), ticketID)

	sender := n.resolver.Resolve(ctx, ticket.BuildingID)
	if sender == nil {
		n.logger.Info("smtp not configured; would have sent reply",
			zap.String("ticket_id", ticketID), zap.String("to", toEmail))
		return nil
	}
	if err := sender.Send(ctx, mailer.Message{To: toEmail, Subject: subject, Text: body, HTML: html}); err != nil {
		n.logger.Error("reply send failed",
			zap.String("ticket_id", ticketID), zap.String("to", toEmail), zap.Error(err))
	}
	return nil
}

// NotifyVendor sends a work order for an already assigned vendor, records the
// internal note and moves the ticket to in-progress.
func (n *NotificationService) NotifyVendor(ctx context.Context, ticketID string, vendorID int64) error {
	ticket, err := n.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.MapError(err)
	}
	vendor, err := n.vendors.GetByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("vendor", map[string]any{"vendor_id": vendorID})
		}
		return apperrors.MapError(err)
	}

	if vendor.Email != nil && *vendor.Email != "" {
		subject := fmt.Sprintf("Work Order: %s (Ticket ID: %s)", derefOr(ticket.RepairCategory, "General"), ticketID)
		text := fmt.Sprintf(`Work Order: %s
Category: %s
Urgency: %s
Building: %s
Unit: %s
Resident: %s
Description: %s`,
			ticketID,
			derefOr(ticket.RepairCategory, "—"),
			string(ticket.Urgency),
			derefOr(ticket.BuildingName, "—"),
			derefOr(ticket.UnitNumber, "—"),
			ticket.ResidentName,
			ticket.DamageDescription)

		sender := n.resolver.Resolve(ctx, ticket.BuildingID)
		if sender == nil {
			n.logger.Info("smtp not configured; would have sent work order",
				zap.String("ticket_id", ticketID), zap.String("to", *vendor.Email))
		} else if err := sender.Send(ctx, mailer.Message{To: *vendor.Email, Subject: subject, Text: text}); err != nil {
			n.logger.Error("work order send failed",
				zap.String("ticket_id", ticketID), zap.Error(err))
		}
	}

	note := &domain.TicketMessage{
		TicketID:    ticketID,
		SenderEmail: domain.SystemSenderEmail,
		SenderName:  "System",
		Body:        fmt.Sprintf("Vendor %q has been assigned to this ticket.", vendor.CompanyName),
		IsInternal:  true,
	}
	if err := n.messages.Create(ctx, note); err != nil {
		return apperrors.MapError(err)
	}

	if err := n.tickets.UpdateState(ctx, ticketID, domain.TicketStateInProgress); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (n *NotificationService) pmEmailForBuilding(ctx context.Context, buildingID *int64) string {
	if buildingID == nil {
		return n.cfg.PMFallbackEmail
	}
	building, err := n.buildings.GetByID(ctx, *buildingID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			n.logger.Warn("building lookup for PM email failed",
				zap.Int64("building_id", *buildingID), zap.Error(err))
		}
		return n.cfg.PMFallbackEmail
	}
	if building.PropertyManagerEmail == nil || *building.PropertyManagerEmail == "" {
		return n.cfg.PMFallbackEmail
	}
	return *building.PropertyManagerEmail
}

func notificationRoles(hasVendor bool) []string {
	roles := []string{}
	if hasVendor {
		roles = append(roles, "Vendor")
	}
	roles = append(roles, "PM", "Resident")
	return roles
}

func categoryOrNA(category *string) string {
	if category == nil || *category == "" {
		return "n/a"
	}
	return *category
}

func costOrNA(cost *float64) string {
	if cost == nil {
		return "n/a"
	}
	return fmt.Sprintf("₱%g", *cost)
}

func derefOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}
