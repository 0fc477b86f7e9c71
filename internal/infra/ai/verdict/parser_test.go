package verdict

import (
	"strings"
	"testing"

	"github.com/serplab/rankforensics/internal/domain/analysis"
)

func TestParse_ExtractsObjectFromProse(t *testing.T) {
	raw := `Here is my analysis: { "verdict": "ALGO_IMPACT", "rootCause": "overlap with core update", "strategy": null, "evidence": [], "confidence": 0.8, "draftEmail": "Hi..." } Thanks.`

	v, warnings := Parse(raw)

	if v.Verdict != analysis.VerdictAlgoImpact {
		t.Errorf("verdict = %q, want ALGO_IMPACT", v.Verdict)
	}
	if v.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", v.Confidence)
	}
	if v.Strategy != nil {
		t.Errorf("strategy = %v, want nil", *v.Strategy)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestParse_FallbackCases(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no JSON at all", "I could not figure this one out, sorry."},
		{"truncated JSON", `{"verdict": "ALGO_IMPACT", "rootCause": "cut off`},
		{"missing required keys", `{"verdict": "ALGO_IMPACT"}`},
		{"empty input", ""},
		{"shape mismatch", `{"verdict": "FALSE_ALARM", "rootCause": "x", "confidence": "not a number", "draftEmail": "y"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, warnings := Parse(tt.raw)

			if v.Verdict != analysis.VerdictNeedsInvestigation {
				t.Errorf("verdict = %q, want NEEDS_INVESTIGATION", v.Verdict)
			}
			if v.Confidence != 0.3 {
				t.Errorf("confidence = %v, want 0.3", v.Confidence)
			}
			if v.RootCause == "" || v.DraftEmail == "" {
				t.Error("fallback verdict must carry a root cause and draft email")
			}
			if len(v.Evidence) != 1 {
				t.Fatalf("evidence entries = %d, want 1", len(v.Evidence))
			}
			if len(warnings) == 0 || !strings.HasPrefix(warnings[0], "response parse failure") {
				t.Errorf("expected a parse-failure warning, got %v", warnings)
			}
		})
	}
}

func TestParse_RepairsOutOfRangeConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"above one", 1.7, 1},
		{"below zero", -0.2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"verdict": "FALSE_ALARM", "rootCause": "seasonal dip", "strategy": null, "evidence": [], "confidence": ` +
				map[float64]string{1.7: "1.7", -0.2: "-0.2"}[tt.in] + `, "draftEmail": "Hi"}`
			v, warnings := Parse(raw)
			if v.Confidence != tt.want {
				t.Errorf("confidence = %v, want %v", v.Confidence, tt.want)
			}
			if len(warnings) != 1 {
				t.Errorf("expected one repair warning, got %v", warnings)
			}
			// repairs keep the parsed verdict
			if v.Verdict != analysis.VerdictFalseAlarm {
				t.Errorf("verdict = %q, want FALSE_ALARM", v.Verdict)
			}
		})
	}
}

func TestParse_UnknownVerdictReplaced(t *testing.T) {
	raw := `{"verdict": "SOLAR_FLARES", "rootCause": "x", "strategy": null, "evidence": [], "confidence": 0.9, "draftEmail": "y"}`
	v, warnings := Parse(raw)
	if v.Verdict != analysis.VerdictNeedsInvestigation {
		t.Errorf("verdict = %q, want NEEDS_INVESTIGATION", v.Verdict)
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "SOLAR_FLARES") {
		t.Errorf("expected a repair warning naming the bad verdict, got %v", warnings)
	}
}

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		found bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"leading and trailing prose", `sure! {"a":1} hope that helps`, `{"a":1}`, true},
		{"nested objects", `x {"a":{"b":2}} y`, `{"a":{"b":2}}`, true},
		{"brace inside string", `{"a": "b}c"}`, `{"a": "b}c"}`, true},
		{"escaped quote inside string", `{"a": "b\"}{"}`, `{"a": "b\"}{"}`, true},
		{"first of two objects", `{"a":1} {"b":2}`, `{"a":1}`, true},
		{"unbalanced", `{"a": 1`, "", false},
		{"no object", "nothing here", "", false},
		{"stray close brace before object", `} {"a":1}`, `{"a":1}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractObject(tt.in)
			if found != tt.found {
				t.Fatalf("found = %v, want %v", found, tt.found)
			}
			if got != tt.want {
				t.Errorf("span = %q, want %q", got, tt.want)
			}
		})
	}
}
