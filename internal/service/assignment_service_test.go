package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/janus-pm/janus/internal/domain"
)

func newTestAssignmentService(tickets *fakeTicketRepo, vendors *fakeVendorRepo, messages *fakeMessageRepo) *AssignmentService {
	return NewAssignmentService(AssignmentDependencies{
		TicketRepo:  tickets,
		VendorRepo:  vendors,
		MessageRepo: messages,
		Logger:      zap.NewNop(),
	})
}

func hvacVendor(id int64, buildings string) domain.Vendor {
	ids := buildings
	return domain.Vendor{
		ID:          id,
		CompanyName: "CoolAir",
		Email:       strPtr("dispatch@coolair.example"),
		Category:    strPtr(domain.CategoryHVAC),
		BuildingIDs: &ids,
	}
}

func TestAutoAssignPicksLowestMatchingVendor(t *testing.T) {
	ticket := &domain.Ticket{TicketID: "ticket-100200", Type: domain.TicketTypeRepair, BuildingID: int64Ptr(2)}
	tickets := newFakeTicketRepo(ticket)
	messages := &fakeMessageRepo{}
	vendors := &fakeVendorRepo{vendors: []domain.Vendor{
		hvacVendor(9, "2,3"),
		hvacVendor(4, "1,2"),
		hvacVendor(6, "5"),
	}}
	svc := newTestAssignmentService(tickets, vendors, messages)

	got := svc.AutoAssign(context.Background(), "ticket-100200", domain.TicketTypeRepair, strPtr("hvac"))
	require.NotNil(t, got)
	assert.Equal(t, int64(4), *got, "lowest id serving the building wins")

	stored, err := tickets.GetByTicketID(context.Background(), "ticket-100200")
	require.NoError(t, err)
	require.NotNil(t, stored.AssignedVendorID)
	assert.Equal(t, int64(4), *stored.AssignedVendorID)
	assert.Equal(t, domain.TicketStateInProgress, stored.State)

	msgs := messages.forTicket("ticket-100200")
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].IsInternal)
	assert.Contains(t, msgs[0].Body, "Auto-assigned vendor 4")
}

func TestAutoAssignSkipsNonRepair(t *testing.T) {
	svc := newTestAssignmentService(newFakeTicketRepo(), &fakeVendorRepo{}, &fakeMessageRepo{})
	assert.Nil(t, svc.AutoAssign(context.Background(), "ticket-1", domain.TicketTypeComplaint, strPtr("hvac")))
}

func TestAutoAssignSkipsMissingCategory(t *testing.T) {
	svc := newTestAssignmentService(newFakeTicketRepo(), &fakeVendorRepo{}, &fakeMessageRepo{})
	assert.Nil(t, svc.AutoAssign(context.Background(), "ticket-1", domain.TicketTypeRepair, nil))
}

func TestAutoAssignSkipsTicketWithoutBuilding(t *testing.T) {
	ticket := &domain.Ticket{TicketID: "ticket-100300", Type: domain.TicketTypeRepair}
	vendors := &fakeVendorRepo{vendors: []domain.Vendor{hvacVendor(1, "2")}}
	svc := newTestAssignmentService(newFakeTicketRepo(ticket), vendors, &fakeMessageRepo{})

	assert.Nil(t, svc.AutoAssign(context.Background(), "ticket-100300", domain.TicketTypeRepair, strPtr("hvac")))
}

func TestAutoAssignNoVendorServesBuilding(t *testing.T) {
	ticket := &domain.Ticket{TicketID: "ticket-100400", Type: domain.TicketTypeRepair, BuildingID: int64Ptr(7)}
	tickets := newFakeTicketRepo(ticket)
	vendors := &fakeVendorRepo{vendors: []domain.Vendor{hvacVendor(1, "1,2"), hvacVendor(2, "3")}}
	svc := newTestAssignmentService(tickets, vendors, &fakeMessageRepo{})

	assert.Nil(t, svc.AutoAssign(context.Background(), "ticket-100400", domain.TicketTypeRepair, strPtr("hvac")))

	stored, err := tickets.GetByTicketID(context.Background(), "ticket-100400")
	require.NoError(t, err)
	assert.Nil(t, stored.AssignedVendorID)
}

func TestAutoAssignUnknownTicketIsSilent(t *testing.T) {
	svc := newTestAssignmentService(newFakeTicketRepo(), &fakeVendorRepo{}, &fakeMessageRepo{})
	assert.Nil(t, svc.AutoAssign(context.Background(), "ticket-missing", domain.TicketTypeRepair, strPtr("hvac")))
}

func TestAutoAssignNormalizesCategoryCase(t *testing.T) {
	ticket := &domain.Ticket{TicketID: "ticket-100500", Type: domain.TicketTypeRepair, BuildingID: int64Ptr(2)}
	tickets := newFakeTicketRepo(ticket)
	vendors := &fakeVendorRepo{vendors: []domain.Vendor{hvacVendor(3, "2")}}
	svc := newTestAssignmentService(tickets, vendors, &fakeMessageRepo{})

	got := svc.AutoAssign(context.Background(), "ticket-100500", domain.TicketTypeRepair, strPtr("HVAC"))
	require.NotNil(t, got)
	assert.Equal(t, int64(3), *got)
}
