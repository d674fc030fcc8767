package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/janus-pm/janus/internal/events"
	"github.com/janus-pm/janus/internal/observability"
	"github.com/janus-pm/janus/internal/repository"
	"github.com/janus-pm/janus/internal/triage"
)

// ticketTokenRe matches the reply-correlation token embedded in every
// outbound ticket subject. It must stay in lockstep with the ids the ticket
// factory generates.
var ticketTokenRe = regexp.MustCompile(`(?i)ticket-(\d{6,})`)

// ExtractTicketID returns the canonical ticket id referenced by an email
// subject, or "" when the subject carries no token.
func ExtractTicketID(subject string) string {
	m := ticketTokenRe.FindStringSubmatch(subject)
	if m == nil {
		return ""
	}
	return "ticket-" + m[1]
}

// IntakeLocker guards first-contact ticket creation against concurrent
// duplicates. Satisfied by the Redis wrapper.
type IntakeLocker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, func(), error)
}

// IntakeResult is the outcome of one processed email.
type IntakeResult struct {
	OK            bool   `json:"ok"`
	CreatedTicket bool   `json:"createdTicket"`
	TicketID      string `json:"ticketId,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// IntakeService runs the email triage pipeline: sender verification, content
// cleaning, classification, thread correlation, ticket creation, vendor
// assignment and notification fan-out. Each invocation is stateless.
type IntakeService struct {
	residents     repository.ResidentRepository
	ticketService *TicketService
	assignments   *AssignmentService
	notifications *NotificationService
	classifier    triage.Classifier
	locker        IntakeLocker
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// IntakeDependencies bundles pipeline collaborators.
type IntakeDependencies struct {
	ResidentRepo  repository.ResidentRepository
	TicketService *TicketService
	Assignments   *AssignmentService
	Notifications *NotificationService
	Classifier    triage.Classifier
	Locker        IntakeLocker
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewIntakeService constructs the pipeline.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	return &IntakeService{
		residents:     deps.ResidentRepo,
		ticketService: deps.TicketService,
		assignments:   deps.Assignments,
		notifications: deps.Notifications,
		classifier:    deps.Classifier,
		locker:        deps.Locker,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
	}
}

// ProcessEmail runs one inbound email through the pipeline.
func (s *IntakeService) ProcessEmail(ctx context.Context, fromEmail, subject, bodyText string) (IntakeResult, error) {
	// 1) Sender verification. Unknown senders never create tickets, and a
	// lookup failure is fail-closed into "not found".
	resident, err := s.residents.GetByEmail(ctx, fromEmail)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error("resident lookup failed; treating sender as unknown",
				zap.String("from", fromEmail), zap.Error(err))
		} else {
			s.logger.Warn("ignoring email from unknown sender", zap.String("from", fromEmail))
		}
		s.metrics.RecordIntake(observability.IntakeOutcomeUnknownSender)
		return IntakeResult{OK: true, CreatedTicket: false, Reason: "Sender not found in residents table."}, nil
	}

	// 2) Strip quoted history and signatures before classification.
	cleaned := triage.CleanBody(bodyText)

	// 3) Classify. Uncertainty is fail-closed into NotRelevant.
	result := s.classifier.Classify(ctx, triage.Input{
		FromEmail: fromEmail,
		Subject:   subject,
		Body:      cleaned,
	})

	if !result.Relevant {
		s.notifications.SendDecline(ctx, fromEmail, result.Reason)
		s.publishRejected(ctx, fromEmail, result.Reason)
		s.metrics.RecordIntake(observability.IntakeOutcomeNotRelevant)
		return IntakeResult{OK: true, CreatedTicket: false}, nil
	}

	// 4) Thread correlation: a subject token means this is a reply, not a
	// new request.
	if ticketID := ExtractTicketID(subject); ticketID != "" {
		senderName := fromEmail
		if resident.Name != nil && *resident.Name != "" {
			senderName = *resident.Name
		}
		if err := s.ticketService.AppendToTicket(ctx, ticketID, fromEmail, senderName, cleaned); err != nil {
			s.metrics.RecordIntake(observability.IntakeOutcomeFailed)
			return IntakeResult{}, err
		}
		s.metrics.RecordIntake(observability.IntakeOutcomeReplyAppended)
		return IntakeResult{OK: true, CreatedTicket: false, TicketID: ticketID}, nil
	}

	// 5) New ticket flow, serialized per sender where Redis allows. The
	// guard is best effort; the unique ticket_id constraint is the backstop.
	if s.locker != nil {
		key := "intake:lock:" + strings.ToLower(strings.TrimSpace(fromEmail))
		acquired, release, lockErr := s.locker.AcquireLock(ctx, key, 30*time.Second)
		if lockErr != nil {
			s.logger.Debug("intake lock unavailable; proceeding unguarded", zap.Error(lockErr))
		} else if acquired {
			defer release()
		} else {
			s.logger.Warn("concurrent intake for sender in flight", zap.String("from", fromEmail))
		}
	}

	ticket, err := s.ticketService.CreateFromTriage(ctx, TicketIntakeInput{
		FromEmail:    fromEmail,
		Subject:      subject,
		CleanedBody:  cleaned,
		OriginalBody: bodyText,
		Triage:       result,
	})
	if err != nil {
		s.metrics.RecordIntake(observability.IntakeOutcomeFailed)
		return IntakeResult{}, err
	}

	// 6) Vendor auto-assignment never fails the pipeline.
	assignedVendorID := s.assignments.AutoAssign(ctx, ticket.TicketID, result.Type, result.RepairCategory)

	// 7) Best-effort notification fan-out.
	s.notifications.SendTicketNotifications(ctx, ticket.TicketID, result, fromEmail, assignedVendorID)

	s.metrics.RecordIntake(observability.IntakeOutcomeTicketCreated)
	return IntakeResult{OK: true, CreatedTicket: true, TicketID: ticket.TicketID}, nil
}

func (s *IntakeService) publishRejected(ctx context.Context, fromEmail, reason string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEmailRejected,
		Timestamp: time.Now(),
		Payload: events.EmailRejectedPayload{
			SenderEmail: fromEmail,
			Reason:      reason,
		},
	})
}
