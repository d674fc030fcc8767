package triage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/janus-pm/janus/internal/domain"
)

// Rules drives the deterministic fallback classifier. Matching is substring
// containment over the lowercased subject+body; category order is fixed so
// results are stable.
type Rules struct {
	HVAC       []string `yaml:"hvac"`
	Plumbing   []string `yaml:"plumbing"`
	Electrical []string `yaml:"electrical"`
	Urgent     []string `yaml:"urgent"`
}

// DefaultRules returns the built-in keyword sets.
func DefaultRules() Rules {
	return Rules{
		HVAC:       []string{"air cond", "ac", "hvac", "heating"},
		Plumbing:   []string{"leak", "plumb", "water", "toilet", "sink"},
		Electrical: []string{"power", "electr", "light", "outlet"},
		Urgent:     []string{"flood", "burst", "fire", "emergency", "urgent"},
	}
}

// LoadRules reads a YAML rules file, filling omitted keyword sets from the
// defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read triage rules: %w", err)
	}
	var loaded Rules
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return rules, fmt.Errorf("parse triage rules: %w", err)
	}
	if len(loaded.HVAC) > 0 {
		rules.HVAC = loaded.HVAC
	}
	if len(loaded.Plumbing) > 0 {
		rules.Plumbing = loaded.Plumbing
	}
	if len(loaded.Electrical) > 0 {
		rules.Electrical = loaded.Electrical
	}
	if len(loaded.Urgent) > 0 {
		rules.Urgent = loaded.Urgent
	}
	return rules, nil
}

// KeywordClassifier is the deterministic fallback used when no Gemini key is
// configured. It always marks the email relevant so the pipeline stays
// operable offline.
type KeywordClassifier struct {
	rules Rules
}

// NewKeywordClassifier builds the fallback classifier.
func NewKeywordClassifier(rules Rules) *KeywordClassifier {
	return &KeywordClassifier{rules: rules}
}

// Classify applies keyword matching over the lowercased subject and body.
func (k *KeywordClassifier) Classify(_ context.Context, in Input) domain.TriageResult {
	fullText := strings.ToLower(in.Subject + " " + in.Body)

	category := "other"
	switch {
	case containsAny(fullText, k.rules.HVAC):
		category = "hvac"
	case containsAny(fullText, k.rules.Plumbing):
		category = "plumbing"
	case containsAny(fullText, k.rules.Electrical):
		category = "electrical"
	}

	urgency := domain.TicketUrgencyMedium
	if containsAny(fullText, k.rules.Urgent) {
		urgency = domain.TicketUrgencyHigh
	}

	cost := domain.CostFloor
	body := in.Body
	if len(body) > 200 {
		body = body[:200]
	}

	return domain.TriageResult{
		Relevant:       true,
		Reason:         "Keyword fallback: treating all emails as repair tickets with simple keyword triage.",
		Type:           domain.TicketTypeRepair,
		Urgency:        urgency,
		Status:         domain.TicketStateNew,
		EstimatedCost:  &cost,
		RepairCategory: &category,
		Summary:        fmt.Sprintf("%s — %s", in.Subject, body),
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
