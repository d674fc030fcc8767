package domain

import "strings"

// RepairCategory values accepted from triage, persisted Title-Case.
const (
	CategoryElectrical = "Electrical"
	CategoryPlumbing   = "Plumbing"
	CategoryHVAC       = "HVAC"
	CategoryAppliance  = "Appliance"
	CategoryStructural = "Structural"
	CategoryPest       = "Pest"
	CategoryOther      = "Other"
)

// NormalizeRepairCategory maps a raw triage category onto the fixed
// vocabulary. Unrecognized non-empty values fall back to Other; empty input
// stays nil (no category).
func NormalizeRepairCategory(raw *string) *string {
	if raw == nil || *raw == "" {
		return nil
	}
	var out string
	switch strings.ToLower(*raw) {
	case "hvac":
		out = CategoryHVAC
	case "plumbing":
		out = CategoryPlumbing
	case "electrical":
		out = CategoryElectrical
	case "appliance":
		out = CategoryAppliance
	case "structural":
		out = CategoryStructural
	case "pest":
		out = CategoryPest
	default:
		out = CategoryOther
	}
	return &out
}

// TriageResult is the classification outcome for one inbound email. It is a
// tagged union: when Relevant is false only Reason is meaningful; when true
// the remaining fields carry the normalized classification. Values pass
// through triage.Normalize exactly once before reaching any other component.
type TriageResult struct {
	Relevant bool
	Reason   string

	Type           TicketType
	Urgency        TicketUrgency
	Status         TicketState
	EstimatedCost  *float64
	RepairCategory *string
	ResidentName   *string
	BuildingName   *string
	UnitNumber     *string
	Summary        string
}

// NotRelevant builds the fail-closed branch of the union.
func NotRelevant(reason string) TriageResult {
	return TriageResult{Relevant: false, Reason: reason}
}
