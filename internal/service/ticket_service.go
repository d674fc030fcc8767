package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/janus-pm/janus/internal/domain"
	"github.com/janus-pm/janus/internal/events"
	"github.com/janus-pm/janus/internal/repository"
	apperrors "github.com/janus-pm/janus/pkg/util"
)

// TicketService owns ticket creation from triage and thread appends.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.TicketMessageRepository
	residents  repository.ResidentRepository
	buildings  repository.BuildingRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger

	now      func() time.Time
	idSuffix func() int
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	MessageRepo  repository.TicketMessageRepository
	ResidentRepo repository.ResidentRepository
	BuildingRepo repository.BuildingRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		residents:  deps.ResidentRepo,
		buildings:  deps.BuildingRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
		idSuffix:   func() int { return rand.IntN(1000) },
	}
}

// TicketIntakeInput carries one classified email into ticket creation.
// OriginalBody is the uncleaned text; it becomes the first thread message so
// the audit trail keeps exactly what the resident sent.
type TicketIntakeInput struct {
	FromEmail    string
	Subject      string
	CleanedBody  string
	OriginalBody string
	Triage       domain.TriageResult
}

// newTicketID derives a collision-resistant public identifier: creation time
// in milliseconds plus a random 3-digit suffix. The digits-only tail keeps it
// matching the reply-correlation token pattern.
func (s *TicketService) newTicketID() string {
	return fmt.Sprintf("ticket-%d%03d", s.now().UnixMilli(), s.idSuffix())
}

// CreateFromTriage builds one Ticket plus its initial TicketMessage from a
// relevant classification. Resident and building are re-fetched here rather
// than reused from sender verification; the staleness window is one request.
func (s *TicketService) CreateFromTriage(ctx context.Context, in TicketIntakeInput) (*domain.Ticket, error) {
	if !in.Triage.Relevant {
		return nil, apperrors.NewValidationError("cannot create ticket from non-relevant triage", nil)
	}

	resident, err := s.residents.GetByEmail(ctx, in.FromEmail)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		s.logger.Error("resident lookup failed during ticket creation", zap.Error(err))
	}

	var building *domain.Building
	if resident != nil && resident.BuildingID != nil {
		building, err = s.buildings.GetByID(ctx, *resident.BuildingID)
		if err != nil {
			s.logger.Warn("building lookup failed during ticket creation",
				zap.Int64("building_id", *resident.BuildingID), zap.Error(err))
			building = nil
		}
	}

	ticket := &domain.Ticket{
		TicketID:          s.newTicketID(),
		Type:              in.Triage.Type,
		State:             in.Triage.Status,
		Urgency:           in.Triage.Urgency,
		Subject:           in.Subject,
		DamageDescription: firstNonEmpty(in.Triage.Summary, in.CleanedBody),
		SenderEmail:       in.FromEmail,
		RepairCategory:    domain.NormalizeRepairCategory(in.Triage.RepairCategory),
		EstimatedCost:     costWithFloor(in.Triage.EstimatedCost),
	}

	// On-file resident data takes precedence over classifier extraction; the
	// classifier's guess fills gaps only.
	ticket.ResidentName = in.FromEmail
	if in.Triage.ResidentName != nil {
		ticket.ResidentName = *in.Triage.ResidentName
	}
	if resident != nil && resident.Name != nil && *resident.Name != "" {
		ticket.ResidentName = *resident.Name
	}

	if resident != nil {
		ticket.BuildingID = resident.BuildingID
		ticket.UnitNumber = resident.SuiteNumber
	}
	if building != nil {
		ticket.BuildingName = &building.Name
	} else if ticket.BuildingID == nil {
		ticket.BuildingName = in.Triage.BuildingName
	}
	if ticket.UnitNumber == nil {
		ticket.UnitNumber = in.Triage.UnitNumber
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		if repository.IsUniqueViolation(err) {
			// One regeneration on ticket_id collision under concurrent load.
			ticket.TicketID = s.newTicketID()
			err = s.tickets.Create(ctx, ticket)
		}
		if err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	initial := &domain.TicketMessage{
		TicketID:    ticket.TicketID,
		SenderEmail: in.FromEmail,
		SenderName:  ticket.ResidentName,
		Body:        in.OriginalBody,
		IsInternal:  false,
	}
	if err := s.messages.Create(ctx, initial); err != nil {
		// Ticket creation is the primary success signal; a lost initial
		// message is logged, not rolled back.
		s.logger.Error("failed to insert initial ticket message",
			zap.String("ticket_id", ticket.TicketID), zap.Error(err))
	}

	s.publish(ctx, events.EventTicketCreated, ticket.TicketID, events.TicketCreatedPayload{
		Type:        ticket.Type,
		Urgency:     ticket.Urgency,
		Category:    ticket.RepairCategory,
		BuildingID:  ticket.BuildingID,
		SenderEmail: ticket.SenderEmail,
	})

	return ticket, nil
}

// AppendToTicket records a resident reply on an existing thread. The ticket
// must exist; a stale or spoofed subject token yields NOT_FOUND instead of an
// orphaned message.
func (s *TicketService) AppendToTicket(ctx context.Context, ticketID, senderEmail, senderName, body string) error {
	exists, err := s.tickets.Exists(ctx, ticketID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !exists {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}

	msg := &domain.TicketMessage{
		TicketID:    ticketID,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		Body:        body,
		IsInternal:  false,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return apperrors.MapError(err)
	}

	s.publish(ctx, events.EventMessageAppended, ticketID, events.MessageAppendedPayload{
		SenderEmail: senderEmail,
		IsInternal:  false,
		BodyPreview: preview(body),
	})
	return nil
}

// GetTicket loads one ticket with its message thread.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, []domain.TicketMessage, error) {
	ticket, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, apperrors.MapError(err)
	}
	msgs, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, msgs, nil
}

// ListTickets is the dashboard listing pass-through.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticketID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func costWithFloor(estimated *float64) float64 {
	if estimated == nil || *estimated < domain.CostFloor {
		return domain.CostFloor
	}
	return *estimated
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func preview(body string) string {
	if len(body) > 120 {
		return body[:120]
	}
	return body
}
