package triage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janus-pm/janus/internal/domain"
)

func TestKeywordClassifierHVAC(t *testing.T) {
	k := NewKeywordClassifier(DefaultRules())
	got := k.Classify(context.Background(), Input{
		FromEmail: "maria@example.com",
		Subject:   "Broken air conditioner",
		Body:      "The air conditioning in my unit stopped working yesterday.",
	})

	require.True(t, got.Relevant)
	assert.Equal(t, domain.TicketTypeRepair, got.Type)
	require.NotNil(t, got.RepairCategory)
	assert.Equal(t, "hvac", *got.RepairCategory)
	assert.Equal(t, domain.TicketUrgencyMedium, got.Urgency)
	require.NotNil(t, got.EstimatedCost)
	assert.Equal(t, domain.CostFloor, *got.EstimatedCost)
}

func TestKeywordClassifierPlumbingUrgent(t *testing.T) {
	k := NewKeywordClassifier(DefaultRules())
	got := k.Classify(context.Background(), Input{
		Subject: "URGENT: burst pipe",
		Body:    "There is a burst pipe and water everywhere.",
	})

	require.NotNil(t, got.RepairCategory)
	assert.Equal(t, "plumbing", *got.RepairCategory)
	assert.Equal(t, domain.TicketUrgencyHigh, got.Urgency)
}

func TestKeywordClassifierElectrical(t *testing.T) {
	k := NewKeywordClassifier(DefaultRules())
	got := k.Classify(context.Background(), Input{
		Subject: "Outlet sparking",
		Body:    "The outlet in the bedroom is sparking.",
	})

	require.NotNil(t, got.RepairCategory)
	assert.Equal(t, "electrical", *got.RepairCategory)
}

func TestKeywordClassifierDefaultsToOther(t *testing.T) {
	k := NewKeywordClassifier(DefaultRules())
	got := k.Classify(context.Background(), Input{
		Subject: "Question",
		Body:    "When is the gym open?",
	})

	require.True(t, got.Relevant)
	require.NotNil(t, got.RepairCategory)
	assert.Equal(t, "other", *got.RepairCategory)
}

func TestKeywordClassifierSummaryTruncates(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	k := NewKeywordClassifier(DefaultRules())
	got := k.Classify(context.Background(), Input{Subject: "S", Body: string(long)})

	assert.LessOrEqual(t, len(got.Summary), len("S — ")+200)
}
