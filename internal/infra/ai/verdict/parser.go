// Package verdict turns untrusted model output into a well-formed AIVerdict.
// Parsing is total: every input yields a verdict, falling back to a fixed
// NEEDS_INVESTIGATION result when extraction or validation fails.
package verdict

import (
	"encoding/json"
	"fmt"

	"github.com/serplab/rankforensics/internal/domain/analysis"
)

const fallbackConfidence = 0.3

// Parse extracts the first balanced JSON object from raw model output,
// tolerating surrounding prose, and validates it against the AIVerdict shape.
// The returned warnings record anything that had to be repaired.
func Parse(raw string) (analysis.AIVerdict, []string) {
	span, ok := ExtractObject(raw)
	if !ok {
		return Fallback("no JSON object found in model output"),
			[]string{"response parse failure: no JSON object found in model output"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &fields); err != nil {
		return Fallback("model output JSON was malformed"),
			[]string{fmt.Sprintf("response parse failure: malformed JSON: %v", err)}
	}
	for _, key := range []string{"verdict", "rootCause", "confidence", "draftEmail"} {
		if _, present := fields[key]; !present {
			return Fallback("model output JSON missing required keys"),
				[]string{fmt.Sprintf("response parse failure: missing required key %q", key)}
		}
	}

	var v analysis.AIVerdict
	if err := json.Unmarshal([]byte(span), &v); err != nil {
		return Fallback("model output JSON did not match the verdict shape"),
			[]string{fmt.Sprintf("response parse failure: shape mismatch: %v", err)}
	}

	var warnings []string
	if !analysis.ValidVerdict(v.Verdict) {
		warnings = append(warnings,
			fmt.Sprintf("response repair: unknown verdict %q replaced with NEEDS_INVESTIGATION", v.Verdict))
		v.Verdict = analysis.VerdictNeedsInvestigation
	}
	if v.Confidence < 0 {
		warnings = append(warnings, fmt.Sprintf("response repair: confidence %v clamped to 0", v.Confidence))
		v.Confidence = 0
	}
	if v.Confidence > 1 {
		warnings = append(warnings, fmt.Sprintf("response repair: confidence %v clamped to 1", v.Confidence))
		v.Confidence = 1
	}
	if v.Evidence == nil {
		v.Evidence = []string{}
	}
	return v, warnings
}

// Fallback is the fixed safe verdict used whenever parsing fails.
func Fallback(cause string) analysis.AIVerdict {
	return analysis.AIVerdict{
		Verdict:    analysis.VerdictNeedsInvestigation,
		RootCause:  "The automated analysis could not be completed reliably; manual review is required.",
		Strategy:   nil,
		Evidence:   []string{"model output could not be parsed: " + cause},
		Confidence: fallbackConfidence,
		DraftEmail: "Hi,\n\nThanks for flagging this. We're taking a closer look at the ranking data before drawing any conclusions, and we'll follow up with a full breakdown shortly.\n\nBest regards",
	}
}

// ExtractObject returns the first balanced {...} span in s. Braces inside
// JSON strings are ignored, so prose like `{"a": "b}c"}` survives intact.
func ExtractObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if start >= 0 && inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '{':
			if start < 0 {
				start = i
			}
			depth++
		case '}':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		case '"':
			if start >= 0 {
				inString = true
			}
		}
	}
	return "", false
}
