package observability

import (
	"strconv"
	"sync"
	"time"
)

// Intake outcome labels recorded per processed email.
const (
	IntakeOutcomeTicketCreated = "ticket_created"
	IntakeOutcomeReplyAppended = "reply_appended"
	IntakeOutcomeUnknownSender = "unknown_sender"
	IntakeOutcomeNotRelevant   = "not_relevant"
	IntakeOutcomeFailed        = "failed"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	intakeCount  map[string]int64
	eventCount   map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
		intakeCount:  make(map[string]int64),
		eventCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordIntake increments the counter for one pipeline outcome.
func (m *Metrics) RecordIntake(outcome string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intakeCount[outcome]++
}

// IntakeCount returns the counter for an outcome label.
func (m *Metrics) IntakeCount(outcome string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.intakeCount[outcome]
}

// RecordEvent increments the counter for a dispatched pipeline event.
func (m *Metrics) RecordEvent(eventType string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCount[eventType]++
}

// EventCount returns the counter for an event type.
func (m *Metrics) EventCount(eventType string) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventCount[eventType]
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
