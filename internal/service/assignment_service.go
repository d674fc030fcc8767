package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/janus-pm/janus/internal/domain"
	"github.com/janus-pm/janus/internal/events"
	"github.com/janus-pm/janus/internal/repository"
)

// AssignmentService routes repair tickets to vendors by category and
// building membership.
type AssignmentService struct {
	tickets    repository.TicketRepository
	vendors    repository.VendorRepository
	messages   repository.TicketMessageRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	TicketRepo  repository.TicketRepository
	VendorRepo  repository.VendorRepository
	MessageRepo repository.TicketMessageRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		vendors:    deps.VendorRepo,
		messages:   deps.MessageRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// AutoAssign picks a vendor for a freshly created ticket. Only repair tickets
// with a category are ever routed; everything else short-circuits. A missing
// match is a normal silent outcome, and any lookup or update failure leaves
// the ticket unassigned without failing the pipeline.
func (s *AssignmentService) AutoAssign(ctx context.Context, ticketID string, ticketType domain.TicketType, repairCategory *string) *int64 {
	if ticketType != domain.TicketTypeRepair || repairCategory == nil {
		return nil
	}

	ticket, err := s.tickets.GetByTicketID(ctx, ticketID)
	if err != nil {
		s.logger.Error("fetch ticket for auto-assign failed",
			zap.String("ticket_id", ticketID), zap.Error(err))
		return nil
	}
	if ticket.BuildingID == nil {
		s.logger.Warn("no building_id on ticket; skipping vendor auto-assign",
			zap.String("ticket_id", ticketID))
		return nil
	}

	category := domain.NormalizeRepairCategory(repairCategory)
	if category == nil {
		return nil
	}

	// Vendors arrive ordered by ascending id; the first building match wins,
	// so assignment is deterministic for a given vendor table.
	vendors, err := s.vendors.ListByCategory(ctx, *category)
	if err != nil {
		s.logger.Error("fetch vendors for auto-assign failed",
			zap.String("category", *category), zap.Error(err))
		return nil
	}

	var match *domain.Vendor
	for i := range vendors {
		if vendors[i].ServesBuilding(*ticket.BuildingID) {
			match = &vendors[i]
			break
		}
	}
	if match == nil {
		s.logger.Warn("no vendor found for auto-assign",
			zap.Int64("building_id", *ticket.BuildingID),
			zap.String("category", *category))
		return nil
	}

	if err := s.tickets.AssignVendor(ctx, ticketID, match.ID, domain.TicketStateInProgress); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("ticket disappeared before vendor assignment",
				zap.String("ticket_id", ticketID))
			return nil
		}
		s.logger.Error("update ticket with assigned vendor failed",
			zap.String("ticket_id", ticketID), zap.Error(err))
		return nil
	}

	note := &domain.TicketMessage{
		TicketID:    ticketID,
		SenderEmail: domain.SystemSenderEmail,
		SenderName:  "System",
		Body: fmt.Sprintf("System: Auto-assigned vendor %d (%s) for building %d and category %s.",
			match.ID, match.CompanyName, *ticket.BuildingID, *category),
		IsInternal: true,
	}
	if err := s.messages.Create(ctx, note); err != nil {
		s.logger.Error("failed to record vendor assignment note",
			zap.String("ticket_id", ticketID), zap.Error(err))
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketAssigned,
			TicketID:  ticketID,
			Timestamp: time.Now(),
			Payload: events.TicketAssignedPayload{
				VendorID: match.ID,
				Category: *category,
			},
		})
	}

	vendorID := match.ID
	return &vendorID
}
