package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/janus-pm/janus/internal/events"
	"github.com/janus-pm/janus/internal/observability"
)

// StartAuditWorker subscribes a structured-log audit trail and event counters
// to every pipeline event. Handlers are synchronous and never error.
func StartAuditWorker(dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}

	audit := func(ctx context.Context, event events.Event) error {
		metrics.RecordEvent(string(event.Type))
		logger.Info("pipeline event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Time("timestamp", event.Timestamp),
		)
		return nil
	}

	dispatcher.Subscribe(events.EventTicketCreated, audit)
	dispatcher.Subscribe(events.EventTicketAssigned, audit)
	dispatcher.Subscribe(events.EventMessageAppended, audit)
	dispatcher.Subscribe(events.EventEmailRejected, audit)
}
