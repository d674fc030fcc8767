package triage

import (
	"encoding/json"
	"math"

	"github.com/janus-pm/janus/internal/domain"
)

// Raw classifier categories accepted before persistence-side formatting.
var allowedCategories = map[string]bool{
	"electrical": true,
	"plumbing":   true,
	"hvac":       true,
	"appliance":  true,
	"structural": true,
	"pest":       true,
	"other":      true,
}

// ParsePayload decodes a classifier response and normalizes it. Any decode
// failure is fail-closed: the email is treated as not relevant.
func ParsePayload(text string) domain.TriageResult {
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return domain.NotRelevant("AI output was not valid JSON; treating as not relevant.")
	}
	return Normalize(raw)
}

// Normalize validates an untrusted classifier payload against the enumerated
// contract. It runs exactly once, immediately after receipt; nothing outside
// the allow-lists survives it. Invalid or missing values fall back to safe
// defaults rather than propagating.
func Normalize(raw map[string]any) domain.TriageResult {
	relevant, ok := raw["is_relevant"].(bool)
	if !ok {
		return domain.NotRelevant("AI output was malformed; treating as not relevant.")
	}

	if !relevant {
		reason := stringOr(raw["reason"], "Not relevant to JANUS services.")
		return domain.NotRelevant(reason)
	}

	result := domain.TriageResult{
		Relevant: true,
		Reason:   stringOr(raw["reason"], ""),
		Type:     domain.TicketTypeRepair,
		Urgency:  domain.TicketUrgencyMedium,
		Status:   domain.TicketStateNew,
		Summary:  stringOr(raw["summary"], ""),
	}

	if t, ok := raw["type"].(string); ok && domain.ValidTicketType(domain.TicketType(t)) {
		result.Type = domain.TicketType(t)
	}
	if u, ok := raw["urgency"].(string); ok && domain.ValidTicketUrgency(domain.TicketUrgency(u)) {
		result.Urgency = domain.TicketUrgency(u)
	}
	if s, ok := raw["status"].(string); ok && domain.ValidTicketState(domain.TicketState(s)) {
		result.Status = domain.TicketState(s)
	}
	if c, ok := raw["repair_category"].(string); ok && allowedCategories[c] {
		result.RepairCategory = &c
	}

	if cost, ok := raw["estimated_cost"].(float64); ok && !math.IsNaN(cost) && !math.IsInf(cost, 0) {
		result.EstimatedCost = &cost
	}
	if result.EstimatedCost == nil {
		floor := domain.CostFloor
		result.EstimatedCost = &floor
	}

	result.ResidentName = optionalString(raw["resident_name"])
	result.BuildingName = optionalString(raw["building_name"])
	result.UnitNumber = optionalString(raw["unit_number"])

	return result
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func optionalString(v any) *string {
	if s, ok := v.(string); ok && s != "" {
		return &s
	}
	return nil
}
