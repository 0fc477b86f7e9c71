// Package handbook holds the deterministic business rules the model's output
// is checked against. Violations are observational: they become warnings,
// never a rejected verdict.
package handbook

import (
	"regexp"
	"strings"

	"github.com/serplab/rankforensics/internal/domain/analysis"
	"github.com/serplab/rankforensics/internal/domain/forensics"
)

// refreshActions matches strategy text that proposes reworking page content.
var refreshActions = regexp.MustCompile(`(?i)\b(refresh|rewrite|rework|overhaul|republish|update)\b[^.]{0,60}\bcontent\b|\bcontent\s+(refresh|rewrite|rework|overhaul|update)\b`)

// Language detectors applied to the free-text fields of a verdict. Each one
// states a Handbook rule; the summary text becomes the warning.
var languageDetectors = []struct {
	re      *regexp.Regexp
	warning string
}{
	// Causal claims are banned absent experimental evidence.
	{regexp.MustCompile(`(?i)\b(was caused by|directly caused|this caused|proves? that|definitively|confirmed the cause|is the reason your)\b`),
		"handbook violation: causal language without experimental evidence"},
	{regexp.MustCompile(`(?i)\bbecause of the (algorithm|update|core update)\b`),
		"handbook violation: causal attribution to an algorithm update without experiments"},
	// The model must not claim to have done arithmetic on numbers it was
	// never given.
	{regexp.MustCompile(`(?i)\b(i|we) (calculated|computed|ran the numbers|crunched)\b`),
		"handbook violation: manual arithmetic claim in generated text"},
	// Out-of-scope service promises in client-facing drafts.
	{regexp.MustCompile(`(?i)\b(free of charge|at no cost|we guarantee|guaranteed (rankings?|#?1|first page)|full (site )?redesign)\b`),
		"handbook violation: promises an out-of-scope service or guarantee"},
}

// Validate re-checks a parsed verdict against the deterministic rules used to
// build the model's context. It returns warnings only; the verdict itself is
// never discarded or rewritten here.
func Validate(v analysis.AIVerdict, nine forensics.NineMonthCheckResult) []string {
	var warnings []string

	if nine.IsLocked && v.Strategy != nil && refreshActions.MatchString(*v.Strategy) {
		warnings = append(warnings,
			"handbook violation: strategy proposes a content refresh but the nine-month rule locks it ("+nine.Reason+")")
	}

	text := collectText(v)
	for _, d := range languageDetectors {
		if d.re.MatchString(text) {
			warnings = append(warnings, d.warning)
		}
	}
	return warnings
}

func collectText(v analysis.AIVerdict) string {
	var b strings.Builder
	b.WriteString(v.RootCause)
	b.WriteString("\n")
	if v.Strategy != nil {
		b.WriteString(*v.Strategy)
		b.WriteString("\n")
	}
	for _, e := range v.Evidence {
		b.WriteString(e)
		b.WriteString("\n")
	}
	b.WriteString(v.DraftEmail)
	return b.String()
}
