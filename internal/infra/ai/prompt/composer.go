// Package prompt builds the system and user prompts for ticket analysis.
// The system prompt carries the output contract and the Handbook rules; the
// constraint context grounds the model in verified facts.
package prompt

import (
	"fmt"
	"strings"

	"github.com/serplab/rankforensics/internal/domain/analysis"
)

// ComposeSystem builds the persona-parameterized system prompt.
// forensicContext is the JSON block from BuildContext; pageContext and
// extraContext are optional free-text additions.
func ComposeSystem(persona analysis.Persona, forensicContext, pageContext, extraContext string) string {
	var b strings.Builder

	b.WriteString(`You are a senior SEO forensics analyst for a client-management agency. You diagnose ranking and traffic complaints from support tickets. You must produce one valid JSON object only (no markdown, no commentary, no code fences) that follows the schema below.

Requirements:
- Output must be a single JSON object.
- "verdict" must be exactly one of: FALSE_ALARM, TECHNICAL_FAILURE, COMPETITOR_WIN, ALGO_IMPACT, CANNIBALIZATION, NEEDS_INVESTIGATION.
- "confidence" must be a number between 0 and 1.
- "strategy" may be null when no action is recommended.
- "evidence" is an array of short factual strings.
- "draftEmail" is a complete client-ready email body.

Schema (example with empty values):
{
  "verdict": "<FALSE_ALARM|TECHNICAL_FAILURE|COMPETITOR_WIN|ALGO_IMPACT|CANNIBALIZATION|NEEDS_INVESTIGATION>",
  "rootCause": "<string>",
  "strategy": "<string or null>",
  "evidence": ["<string>"],
  "confidence": 0.0,
  "draftEmail": "<string>"
}

Handbook rules (non-negotiable, independent of tone):
- Correlation is not causation. Never claim an algorithm update or any other event CAUSED a ranking change unless an experiment demonstrated it; describe overlaps as correlations.
- Do not perform or claim manual arithmetic on traffic or ranking figures.
- Do not promise services, guarantees, or deliverables beyond ticket analysis in the draft email.
- Do not emit code blocks, tool-call syntax, or requests for data already supplied below.
- The verified facts block below is ground truth. If your reasoning conflicts with it, defer to the facts and lower your confidence.`)

	b.WriteString("\n\nVerified facts (do not contradict):\n")
	b.WriteString(forensicContext)

	if pageContext != "" {
		b.WriteString("\n\nPage context:\n")
		b.WriteString(pageContext)
	}
	if extraContext != "" {
		b.WriteString("\n\nAdditional context:\n")
		b.WriteString(extraContext)
	}

	b.WriteString("\n\n")
	b.WriteString(ToneFor(persona))

	return b.String()
}

// ComposeUser embeds the ticket and target into the user message.
func ComposeUser(req analysis.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Support ticket for %s", req.TargetDomain)
	if req.TargetQuery != "" {
		fmt.Fprintf(&b, " (target query: %q", req.TargetQuery)
		if req.Location != "" {
			fmt.Fprintf(&b, ", location: %s", req.Location)
		}
		b.WriteString(")")
	} else if req.Location != "" {
		fmt.Fprintf(&b, " (location: %s)", req.Location)
	}
	b.WriteString(":\n\n")
	b.WriteString(req.TicketBody)
	b.WriteString("\n\nAnswer with a single JSON object matching the output schema.")
	return b.String()
}
