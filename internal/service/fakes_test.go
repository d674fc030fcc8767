package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/janus-pm/janus/internal/domain"
	"github.com/janus-pm/janus/internal/mailer"
	"github.com/janus-pm/janus/internal/repository"
	"github.com/janus-pm/janus/internal/triage"
)

type fakeResidentRepo struct {
	byEmail map[string]*domain.Resident
	err     error
}

func newFakeResidentRepo(residents ...*domain.Resident) *fakeResidentRepo {
	repo := &fakeResidentRepo{byEmail: map[string]*domain.Resident{}}
	for _, r := range residents {
		repo.byEmail[strings.ToLower(r.Email)] = r
	}
	return repo
}

func (f *fakeResidentRepo) GetByEmail(_ context.Context, email string) (*domain.Resident, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r, nil
}

func (f *fakeResidentRepo) List(context.Context, int, int) ([]domain.Resident, error) {
	out := make([]domain.Resident, 0, len(f.byEmail))
	for _, r := range f.byEmail {
		out = append(out, *r)
	}
	return out, nil
}

type fakeBuildingRepo struct {
	byID map[int64]*domain.Building
}

func newFakeBuildingRepo(buildings ...*domain.Building) *fakeBuildingRepo {
	repo := &fakeBuildingRepo{byID: map[int64]*domain.Building{}}
	for _, b := range buildings {
		repo.byID[b.ID] = b
	}
	return repo
}

func (f *fakeBuildingRepo) GetByID(_ context.Context, id int64) (*domain.Building, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return b, nil
}

type fakeVendorRepo struct {
	vendors []domain.Vendor
}

func (f *fakeVendorRepo) GetByID(_ context.Context, id int64) (*domain.Vendor, error) {
	for i := range f.vendors {
		if f.vendors[i].ID == id {
			return &f.vendors[i], nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeVendorRepo) ListByCategory(_ context.Context, category string) ([]domain.Vendor, error) {
	var out []domain.Vendor
	for _, v := range f.vendors {
		if v.Category != nil && *v.Category == category {
			out = append(out, v)
		}
	}
	// Ascending id ordering mirrors the SQL contract.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ID < out[j-1].ID; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (f *fakeVendorRepo) List(context.Context, int, int) ([]domain.Vendor, error) {
	return f.vendors, nil
}

// uniqueViolation mimics a postgres duplicate-key error.
func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

type fakeTicketRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Ticket
	nextID    int64
	createErr []error
}

func newFakeTicketRepo(tickets ...*domain.Ticket) *fakeTicketRepo {
	repo := &fakeTicketRepo{byID: map[string]*domain.Ticket{}}
	for _, t := range tickets {
		repo.byID[t.TicketID] = t
	}
	return repo
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErr) > 0 {
		err := f.createErr[0]
		f.createErr = f.createErr[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := f.byID[ticket.TicketID]; exists {
		return uniqueViolation()
	}
	f.nextID++
	ticket.ID = f.nextID
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	f.byID[ticket.TicketID] = &stored
	return nil
}

func (f *fakeTicketRepo) GetByTicketID(_ context.Context, ticketID string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTicketRepo) Exists(_ context.Context, ticketID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byID[ticketID]
	return ok, nil
}

func (f *fakeTicketRepo) AssignVendor(_ context.Context, ticketID string, vendorID int64, state domain.TicketState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	t.AssignedVendorID = &vendorID
	t.State = state
	return nil
}

func (f *fakeTicketRepo) UpdateState(_ context.Context, ticketID string, state domain.TicketState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byID[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	t.State = state
	return nil
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, _ repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Ticket, 0, len(f.byID))
	for _, t := range f.byID {
		out = append(out, *t)
	}
	return out, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []domain.TicketMessage
	err      error
}

func (f *fakeMessageRepo) Create(_ context.Context, msg *domain.TicketMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	msg.ID = fmt.Sprintf("msg-%d", len(f.messages)+1)
	msg.CreatedAt = time.Now()
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeMessageRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TicketMessage
	for _, m := range f.messages {
		if m.TicketID == ticketID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) forTicket(ticketID string) []domain.TicketMessage {
	msgs, _ := f.ListByTicket(context.Background(), ticketID)
	return msgs
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []mailer.Message
	failFor map[string]error
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[msg.To]; ok {
		return err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) recipients() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.To)
	}
	return out
}

type fakeResolver struct {
	sender mailer.Sender
}

func (f *fakeResolver) Resolve(context.Context, *int64) mailer.Sender {
	if f.sender == nil {
		return nil
	}
	return f.sender
}

type fakeClassifier struct {
	result domain.TriageResult
}

func (f *fakeClassifier) Classify(context.Context, triage.Input) domain.TriageResult {
	return f.result
}

type recordingClassifier struct {
	result   domain.TriageResult
	lastBody string
}

func (r *recordingClassifier) Classify(_ context.Context, in triage.Input) domain.TriageResult {
	r.lastBody = in.Body
	return r.result
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	err      error
	acquired []string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: map[string]bool{}}
}

func (f *fakeLocker) AcquireLock(_ context.Context, key string, _ time.Duration) (bool, func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, nil, f.err
	}
	if f.held[key] {
		return false, nil, nil
	}
	f.held[key] = true
	f.acquired = append(f.acquired, key)
	release := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.held, key)
	}
	return true, release, nil
}
