package analysis

import (
	"github.com/serplab/rankforensics/internal/domain/forensics"
)

// Persona enum: tone profile for generated text. Personas never change the
// factual constraints, only the phrasing register.
type Persona string

const (
	PersonaPanicPatty   Persona = "PANIC_PATTY"
	PersonaTechnicalTom Persona = "TECHNICAL_TOM"
	PersonaGhostGary    Persona = "GHOST_GARY"
)

// ValidPersona reports whether p is one of the three supported personas.
func ValidPersona(p Persona) bool {
	switch p {
	case PersonaPanicPatty, PersonaTechnicalTom, PersonaGhostGary:
		return true
	}
	return false
}

// Verdict enum: the closed set of diagnostic categories for a ticket.
type Verdict string

const (
	VerdictFalseAlarm         Verdict = "FALSE_ALARM"
	VerdictTechnicalFailure   Verdict = "TECHNICAL_FAILURE"
	VerdictCompetitorWin      Verdict = "COMPETITOR_WIN"
	VerdictAlgoImpact         Verdict = "ALGO_IMPACT"
	VerdictCannibalization    Verdict = "CANNIBALIZATION"
	VerdictNeedsInvestigation Verdict = "NEEDS_INVESTIGATION"
)

// ValidVerdict reports whether v is a member of the verdict enum.
func ValidVerdict(v Verdict) bool {
	switch v {
	case VerdictFalseAlarm, VerdictTechnicalFailure, VerdictCompetitorWin,
		VerdictAlgoImpact, VerdictCannibalization, VerdictNeedsInvestigation:
		return true
	}
	return false
}

// Request is one ticket-analysis request. TicketBody, TargetDomain and
// Persona are mandatory; everything else is optional context.
type Request struct {
	TicketBody   string         `json:"ticketBody"`
	TargetDomain string         `json:"targetDomain"`
	Persona      Persona        `json:"amPersona"`
	TargetQuery  string         `json:"targetQuery,omitempty"`
	Location     string         `json:"location,omitempty"`
	PageMetadata map[string]any `json:"pageMetadata,omitempty"`
}

// Validate checks the mandatory fields and persona membership.
func (r *Request) Validate() error {
	if r.TicketBody == "" {
		return &ValidationError{Field: "ticketBody", Reason: "is required"}
	}
	if r.TargetDomain == "" {
		return &ValidationError{Field: "targetDomain", Reason: "is required"}
	}
	if r.Persona == "" {
		return &ValidationError{Field: "amPersona", Reason: "is required"}
	}
	if !ValidPersona(r.Persona) {
		return &ValidationError{Field: "amPersona", Reason: "must be one of PANIC_PATTY, TECHNICAL_TOM, GHOST_GARY"}
	}
	return nil
}

// AIVerdict is the structured verdict parsed out of model output.
type AIVerdict struct {
	Verdict    Verdict  `json:"verdict"`
	RootCause  string   `json:"rootCause"`
	Strategy   *string  `json:"strategy"`
	Evidence   []string `json:"evidence"`
	Confidence float64  `json:"confidence"`
	DraftEmail string   `json:"draftEmail"`
}

// Response is the full analysis result returned to the caller. Warnings are
// append-only through the pipeline and never truncated or deduplicated.
type Response struct {
	AIVerdict
	ForensicData   forensics.Evidence             `json:"forensicData"`
	NineMonthCheck forensics.NineMonthCheckResult `json:"nineMonthCheck"`
	Warnings       []string                       `json:"warnings"`
	ModelUsed      string                         `json:"modelUsed"`
	LatencyMS      int64                          `json:"latencyMs"`
}
