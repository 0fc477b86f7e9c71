package forensics

import (
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func TestEvaluateNineMonthRule(t *testing.T) {
	policy := DefaultContentPolicy

	tests := []struct {
		name       string
		meta       map[string]any
		wantLocked bool
		wantReason string // substring
	}{
		{
			name:       "no metadata",
			meta:       nil,
			wantLocked: false,
			wantReason: "metadata not provided",
		},
		{
			name:       "metadata without update timestamp",
			meta:       map[string]any{"wordCount": float64(1200)},
			wantLocked: false,
			wantReason: "no lastSubstantiveUpdate",
		},
		{
			name:       "timestamp wrong type",
			meta:       map[string]any{"lastSubstantiveUpdate": float64(1700000000)},
			wantLocked: false,
			wantReason: "not a timestamp string",
		},
		{
			name:       "unparseable timestamp",
			meta:       map[string]any{"lastSubstantiveUpdate": "last spring"},
			wantLocked: false,
			wantReason: "unparseable",
		},
		{
			name:       "recent substantive update locks",
			meta:       map[string]any{"lastSubstantiveUpdate": testNow.AddDate(0, -2, 0).Format(time.RFC3339)},
			wantLocked: true,
			wantReason: "locked",
		},
		{
			name: "recent update with large word delta locks",
			meta: map[string]any{
				"lastSubstantiveUpdate": testNow.AddDate(0, -1, 0).Format(time.RFC3339),
				"wordCountDelta":        float64(450),
			},
			wantLocked: true,
			wantReason: "locked",
		},
		{
			name: "recent but cosmetic change does not lock",
			meta: map[string]any{
				"lastSubstantiveUpdate": testNow.AddDate(0, -1, 0).Format(time.RFC3339),
				"wordCountDelta":        float64(40),
			},
			wantLocked: false,
			wantReason: "below substantive threshold",
		},
		{
			name:       "old update does not lock",
			meta:       map[string]any{"lastSubstantiveUpdate": testNow.AddDate(-1, -2, 0).Format(time.RFC3339)},
			wantLocked: false,
			wantReason: "exceeds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateNineMonthRule(policy, tt.meta, testNow)
			if got.IsLocked != tt.wantLocked {
				t.Errorf("IsLocked = %v, want %v (reason: %s)", got.IsLocked, tt.wantLocked, got.Reason)
			}
			if !strings.Contains(got.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to contain %q", got.Reason, tt.wantReason)
			}
		})
	}
}

func TestEvaluateNineMonthRule_CustomWindow(t *testing.T) {
	// A tight 30-day policy: an update 60 days old must not lock.
	policy := ContentPolicy{RecencyWindow: 30 * 24 * time.Hour, MinWordDelta: 100}
	meta := map[string]any{"lastSubstantiveUpdate": testNow.AddDate(0, -2, 0).Format(time.RFC3339)}

	if got := EvaluateNineMonthRule(policy, meta, testNow); got.IsLocked {
		t.Errorf("60-day-old update locked under a 30-day window: %s", got.Reason)
	}

	meta["lastSubstantiveUpdate"] = testNow.AddDate(0, 0, -10).Format(time.RFC3339)
	if got := EvaluateNineMonthRule(policy, meta, testNow); !got.IsLocked {
		t.Errorf("10-day-old update not locked under a 30-day window: %s", got.Reason)
	}
}
