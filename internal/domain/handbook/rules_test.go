package handbook

import (
	"strings"
	"testing"

	"github.com/serplab/rankforensics/internal/domain/analysis"
	"github.com/serplab/rankforensics/internal/domain/forensics"
)

func strptr(s string) *string { return &s }

func cleanVerdict() analysis.AIVerdict {
	return analysis.AIVerdict{
		Verdict:    analysis.VerdictAlgoImpact,
		RootCause:  "The drop correlates with the August core update rollout window.",
		Strategy:   strptr("Monitor rankings for two weeks and compare against competitors."),
		Evidence:   []string{"position moved from 3 to 9 during the rollout"},
		Confidence: 0.7,
		DraftEmail: "Hi, we see a correlation with a recent algorithm update and are monitoring closely.",
	}
}

func TestValidate_CleanVerdictPasses(t *testing.T) {
	warnings := Validate(cleanVerdict(), forensics.NineMonthCheckResult{IsLocked: false, Reason: "ok"})
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestValidate_NineMonthLockConflict(t *testing.T) {
	nine := forensics.NineMonthCheckResult{
		IsLocked: true,
		Reason:   "content substantively updated 40 days ago",
	}

	v := cleanVerdict()
	v.Strategy = strptr("Refresh the stale content on the landing page and republish.")

	warnings := Validate(v, nine)
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one lock-conflict warning", warnings)
	}
	if !strings.Contains(warnings[0], "nine-month rule") {
		t.Errorf("warning %q does not name the nine-month rule", warnings[0])
	}
	// the verdict itself is never modified by validation
	if v.Verdict != analysis.VerdictAlgoImpact {
		t.Errorf("verdict changed to %q", v.Verdict)
	}
}

func TestValidate_RefreshStrategyAllowedWhenUnlocked(t *testing.T) {
	v := cleanVerdict()
	v.Strategy = strptr("Rework the content to cover the query intent more fully.")

	warnings := Validate(v, forensics.NineMonthCheckResult{IsLocked: false, Reason: "old content"})
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestValidate_LanguageRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*analysis.AIVerdict)
		wantWarn string
	}{
		{
			name:     "causal claim in root cause",
			mutate:   func(v *analysis.AIVerdict) { v.RootCause = "The drop was caused by the August core update." },
			wantWarn: "causal language",
		},
		{
			name:     "causal attribution in draft email",
			mutate:   func(v *analysis.AIVerdict) { v.DraftEmail = "Your traffic fell because of the core update." },
			wantWarn: "causal attribution",
		},
		{
			name:     "manual arithmetic claim",
			mutate:   func(v *analysis.AIVerdict) { v.DraftEmail = "I calculated a 43% decline week over week." },
			wantWarn: "arithmetic",
		},
		{
			name:     "out of scope promise",
			mutate:   func(v *analysis.AIVerdict) { v.DraftEmail = "We guarantee first page rankings within a month." },
			wantWarn: "out-of-scope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := cleanVerdict()
			tt.mutate(&v)
			warnings := Validate(v, forensics.NineMonthCheckResult{})
			if len(warnings) == 0 {
				t.Fatal("expected a handbook warning, got none")
			}
			found := false
			for _, w := range warnings {
				if strings.Contains(w, tt.wantWarn) {
					found = true
				}
			}
			if !found {
				t.Errorf("warnings %v missing %q", warnings, tt.wantWarn)
			}
		})
	}
}
