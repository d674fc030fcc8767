package domain

import "time"

// Resident is a building occupant known to JANUS. Email is the intake lookup
// key; only mail from known residents is ever turned into tickets.
type Resident struct {
	ID          string
	Email       string
	Name        *string
	SuiteNumber *string
	BuildingID  *int64
	CreatedAt   time.Time
}
