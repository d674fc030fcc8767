package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/janus-pm/janus/internal/config"
	"github.com/janus-pm/janus/internal/domain"
)

func newTestNotificationService(tickets *fakeTicketRepo, messages *fakeMessageRepo, buildings *fakeBuildingRepo, vendors *fakeVendorRepo, sender *fakeSender) *NotificationService {
	var resolver fakeResolver
	if sender != nil {
		resolver.sender = sender
	}
	return NewNotificationService(NotificationDependencies{
		TicketRepo:   tickets,
		MessageRepo:  messages,
		BuildingRepo: buildings,
		VendorRepo:   vendors,
		Resolver:     &resolver,
		Mail:         config.MailConfig{PMFallbackEmail: "pm.maple@janus.com"},
		Logger:       zap.NewNop(),
	})
}

func notificationFixture() (*fakeTicketRepo, *fakeMessageRepo, *fakeBuildingRepo, *fakeVendorRepo) {
	pmEmail := "pm.two@janus.com"
	building := &domain.Building{ID: 2, Name: "Maple Tower", PropertyManagerEmail: &pmEmail}
	ticket := &domain.Ticket{
		TicketID:     "ticket-600100",
		Type:         domain.TicketTypeRepair,
		State:        domain.TicketStateNew,
		Urgency:      domain.TicketUrgencyHigh,
		Subject:      "Broken AC",
		ResidentName: "Maria Santos",
		SenderEmail:  "maria@example.com",
		BuildingID:   int64Ptr(2),
		BuildingName: strPtr("Maple Tower"),
		UnitNumber:   strPtr("408"),
	}
	vendors := &fakeVendorRepo{vendors: []domain.Vendor{hvacVendor(4, "2")}}
	return newFakeTicketRepo(ticket), &fakeMessageRepo{}, newFakeBuildingRepo(building), vendors
}

func TestSendTicketNotificationsFansOutToThree(t *testing.T) {
	tickets, messages, buildings, vendors := notificationFixture()
	sender := &fakeSender{}
	svc := newTestNotificationService(tickets, messages, buildings, vendors, sender)

	svc.SendTicketNotifications(context.Background(), "ticket-600100", relevantTriage(), "maria@example.com", int64Ptr(4))

	recipients := sender.recipients()
	require.Len(t, recipients, 3)
	assert.Contains(t, recipients, "dispatch@coolair.example")
	assert.Contains(t, recipients, "pm.two@janus.com")
	assert.Contains(t, recipients, "maria@example.com")

	for _, m := range sender.sent {
		switch m.To {
		case "dispatch@coolair.example":
			assert.Equal(t, "Ticket ticket-600100 - New request from JANUS", m.Subject)
		case "pm.two@janus.com":
			assert.Equal(t, "Ticket ticket-600100 - New resident email", m.Subject)
		case "maria@example.com":
			assert.Equal(t, "We received your request - Ticket ticket-600100", m.Subject)
		}
	}
}

func TestSendTicketNotificationsVendorFailureDoesNotBlockOthers(t *testing.T) {
	tickets, messages, buildings, vendors := notificationFixture()
	sender := &fakeSender{failFor: map[string]error{
		"dispatch@coolair.example": errors.New("smtp 550"),
	}}
	svc := newTestNotificationService(tickets, messages, buildings, vendors, sender)

	svc.SendTicketNotifications(context.Background(), "ticket-600100", relevantTriage(), "maria@example.com", int64Ptr(4))

	recipients := sender.recipients()
	assert.Contains(t, recipients, "pm.two@janus.com")
	assert.Contains(t, recipients, "maria@example.com")
	assert.NotContains(t, recipients, "dispatch@coolair.example")

	// Transcripts record attempted content for all three regardless of
	// delivery outcome.
	transcripts := messages.forTicket("ticket-600100")
	require.Len(t, transcripts, 3)
}

func TestSendTicketNotificationsTranscriptsLabelRoles(t *testing.T) {
	tickets, messages, buildings, vendors := notificationFixture()
	sender := &fakeSender{}
	svc := newTestNotificationService(tickets, messages, buildings, vendors, sender)

	svc.SendTicketNotifications(context.Background(), "ticket-600100", relevantTriage(), "maria@example.com", int64Ptr(4))

	transcripts := messages.forTicket("ticket-600100")
	require.Len(t, transcripts, 3)
	assert.True(t, strings.HasPrefix(transcripts[0].Body, "[Email to Vendor: dispatch@coolair.example]"))
	assert.True(t, strings.HasPrefix(transcripts[1].Body, "[Email to PM: pm.two@janus.com]"))
	assert.True(t, strings.HasPrefix(transcripts[2].Body, "[Email to Resident: maria@example.com]"))
	for _, m := range transcripts {
		assert.Equal(t, domain.SystemSenderName, m.SenderName)
		assert.False(t, m.IsInternal)
	}
}

func TestSendTicketNotificationsWithoutVendor(t *testing.T) {
	tickets, messages, buildings, vendors := notificationFixture()
	sender := &fakeSender{}
	svc := newTestNotificationService(tickets, messages, buildings, vendors, sender)

	svc.SendTicketNotifications(context.Background(), "ticket-600100", relevantTriage(), "maria@example.com", nil)

	recipients := sender.recipients()
	require.Len(t, recipients, 2)
	assert.NotContains(t, recipients, "dispatch@coolair.example")

	var pmBody string
	for _, m := range sender.sent {
		if m.To == "pm.two@janus.com" {
			pmBody = m.Text
		}
	}
	assert.Contains(t, pmBody, "No vendor has been notified yet")
}

func TestSendTicketNotificationsNoTransportNoTranscripts(t *testing.T) {
	tickets, messages, buildings, vendors := notificationFixture()
	svc := newTestNotificationService(tickets, messages, buildings, vendors, nil)

	svc.SendTicketNotifications(context.Background(), "ticket-600100", relevantTriage(), "maria@example.com", int64Ptr(4))

	assert.Empty(t, messages.forTicket("ticket-600100"))
}

func TestSendTicketNotificationsPMFallbackEmail(t *testing.T) {
	tickets, messages, _, vendors := notificationFixture()
	sender := &fakeSender{}
	// Building 2 is unknown here, so the portfolio fallback address is used.
	svc := newTestNotificationService(tickets, messages, newFakeBuildingRepo(), vendors, sender)

	svc.SendTicketNotifications(context.Background(), "ticket-600100", relevantTriage(), "maria@example.com", nil)

	assert.Contains(t, sender.recipients(), "pm.maple@janus.com")
}

func TestSendDeclineSwallowsFailure(t *testing.T) {
	tickets, messages, buildings, vendors := notificationFixture()
	sender := &fakeSender{failFor: map[string]error{"someone@example.com": errors.New("smtp down")}}
	svc := newTestNotificationService(tickets, messages, buildings, vendors, sender)

	svc.SendDecline(context.Background(), "someone@example.com", "Newsletter content.")
	assert.Empty(t, sender.recipients())
}

func TestSendDeclineSubjectAndReason(t *testing.T) {
	tickets, messages, buildings, vendors := notificationFixture()
	sender := &fakeSender{}
	svc := newTestNotificationService(tickets, messages, buildings, vendors, sender)

	svc.SendDecline(context.Background(), "someone@example.com", "Newsletter content.")

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Your request to JANUS", sender.sent[0].Subject)
	assert.Contains(t, sender.sent[0].Text, "Reason: Newsletter content.")
}

func TestSendTicketReplyEmbedsCorrelationToken(t *testing.T) {
	tickets, messages, buildings, vendors := notificationFixture()
	sender := &fakeSender{}
	svc := newTestNotificationService(tickets, messages, buildings, vendors, sender)

	err := svc.SendTicketReply(context.Background(), "ticket-600100", "maria@example.com", "A technician visits tomorrow.", false, "pm@janus.com", "")
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Re: Broken AC (Ticket ID: ticket-600100)", sender.sent[0].Subject)
	assert.Equal(t, "ticket-600100", ExtractTicketID(sender.sent[0].Subject))

	msgs := messages.forTicket("ticket-600100")
	require.Len(t, msgs, 1)
	assert.Equal(t, "Property Manager", msgs[0].SenderName)
	assert.False(t, msgs[0].IsInternal)
}

func TestSendTicketReplyInternalSkipsEmail(t *testing.T) {
	tickets, messages, buildings, vendors := notificationFixture()
	sender := &fakeSender{}
	svc := newTestNotificationService(tickets, messages, buildings, vendors, sender)

	err := svc.SendTicketReply(context.Background(), "ticket-600100", "maria@example.com", "internal note", true, "pm@janus.com", "PM")
	require.NoError(t, err)
	assert.Empty(t, sender.sent)

	msgs := messages.forTicket("ticket-600100")
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsInternal)
}

func TestSendTicketReplyUnknownTicket(t *testing.T) {
	tickets, messages, buildings, vendors := notificationFixture()
	svc := newTestNotificationService(tickets, messages, buildings, vendors, &fakeSender{})

	err := svc.SendTicketReply(context.Background(), "ticket-000000", "maria@example.com", "hello", false, "pm@janus.com", "PM")
	assert.Error(t, err)
	assert.Empty(t, messages.messages)
}

func TestNotifyVendorSendsWorkOrderAndMovesState(t *testing.T) {
	tickets, messages, buildings, vendors := notificationFixture()
	sender := &fakeSender{}
	svc := newTestNotificationService(tickets, messages, buildings, vendors, sender)

	err := svc.NotifyVendor(context.Background(), "ticket-600100", 4)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "dispatch@coolair.example", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].Text, "Work Order: ticket-600100")

	stored, err := tickets.GetByTicketID(context.Background(), "ticket-600100")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStateInProgress, stored.State)

	msgs := messages.forTicket("ticket-600100")
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsInternal)
	assert.Contains(t, msgs[0].Body, `Vendor "CoolAir" has been assigned`)
}

func TestNotifyVendorUnknownVendor(t *testing.T) {
	tickets, messages, buildings, vendors := notificationFixture()
	svc := newTestNotificationService(tickets, messages, buildings, vendors, &fakeSender{})

	err := svc.NotifyVendor(context.Background(), "ticket-600100", 99)
	assert.Error(t, err)
}
