// Package analysis implements the ticket-analysis use case: gather evidence,
// run the nine-month rule, compose the prompt, invoke the model once, then
// parse, validate, and audit the result.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/serplab/rankforensics/internal/application"
	domain "github.com/serplab/rankforensics/internal/domain/analysis"
	"github.com/serplab/rankforensics/internal/domain/audit"
	"github.com/serplab/rankforensics/internal/domain/forensics"
	"github.com/serplab/rankforensics/internal/domain/handbook"
	"github.com/serplab/rankforensics/internal/infra/ai/prompt"
	"github.com/serplab/rankforensics/internal/infra/ai/verdict"
)

// algoLookback is the window the algo overlay probe checks, ending now.
const algoLookback = 30 * 24 * time.Hour

// Service wires the pipeline's capabilities. Rank, Audit, and Archive may be
// nil; a nil Rank counts as unconfigured, nil sinks disable auditing.
type Service struct {
	Rank     forensics.RankProvider
	Calendar forensics.UpdateCalendar
	Model    domain.ModelClient
	Audit    audit.Repository
	Archive  audit.Archive
	Clock    application.Clock
	Policy   forensics.ContentPolicy
}

// Analyze runs the full pipeline for one ticket. Only validation failures and
// model-invocation failures return an error; every other fault degrades into
// the response's warnings.
func (s *Service) Analyze(ctx context.Context, userID string, req domain.Request) (*domain.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := s.Clock.Now()
	warnings := []string{}

	ev, evWarnings := s.gather(ctx, req, start)
	warnings = append(warnings, evWarnings...)

	nine := forensics.EvaluateNineMonthRule(s.policy(), req.PageMetadata, start)

	forensicContext := prompt.BuildContext(ev, nine)
	systemPrompt := prompt.ComposeSystem(req.Persona, forensicContext, pageContext(req.PageMetadata), "")
	userPrompt := prompt.ComposeUser(req)

	raw, err := s.Model.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			return nil, err
		}
		return nil, &domain.ModelError{Err: err}
	}

	v, parseWarnings := verdict.Parse(raw)
	warnings = append(warnings, parseWarnings...)
	warnings = append(warnings, handbook.Validate(v, nine)...)

	resp := &domain.Response{
		AIVerdict:      v,
		ForensicData:   ev,
		NineMonthCheck: nine,
		Warnings:       warnings,
		ModelUsed:      s.Model.Model(),
		LatencyMS:      s.Clock.Now().Sub(start).Milliseconds(),
	}

	// Best-effort audit: awaited here so the row lands before we reply, but
	// a persistence failure never reaches the caller.
	s.writeAudit(ctx, userID, req, resp, systemPrompt, userPrompt, raw)

	return resp, nil
}

func (s *Service) policy() forensics.ContentPolicy {
	if s.Policy == (forensics.ContentPolicy{}) {
		return forensics.DefaultContentPolicy
	}
	return s.Policy
}

func pageContext(meta map[string]any) string {
	if len(meta) == 0 {
		return ""
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return string(b)
}

// transcript is the full request/response trail archived per analysis.
type transcript struct {
	SystemPrompt string          `json:"system_prompt"`
	UserPrompt   string          `json:"user_prompt"`
	RawOutput    string          `json:"raw_output"`
	Response     json.RawMessage `json:"response"`
}

func (s *Service) writeAudit(ctx context.Context, userID string, req domain.Request, resp *domain.Response, systemPrompt, userPrompt, raw string) {
	if s.Audit == nil {
		return
	}

	id := audit.RecordID(uuid.New().String())
	resultJSON, err := json.Marshal(resp)
	if err != nil {
		log.Printf("audit: marshal result for user=%s: %v", userID, err)
		resultJSON = []byte("{}")
	}

	rec := &audit.Record{
		ID:           id,
		UserID:       userID,
		TicketBody:   req.TicketBody,
		TargetDomain: req.TargetDomain,
		Persona:      string(req.Persona),
		ResultJSON:   string(resultJSON),
		ModelUsed:    resp.ModelUsed,
		LatencyMS:    resp.LatencyMS,
		CreatedAt:    s.Clock.Now(),
	}

	if s.Archive != nil {
		t, merr := json.Marshal(transcript{
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			RawOutput:    raw,
			Response:     resultJSON,
		})
		if merr != nil {
			log.Printf("audit: marshal transcript id=%s: %v", id, merr)
		} else {
			key := fmt.Sprintf("%s/%s.json", userID, id)
			url, aerr := s.Archive.PutTranscript(ctx, key, t)
			if aerr != nil {
				log.Printf("audit: archive transcript id=%s: %v", id, aerr)
			} else {
				rec.ArchiveURL = url
			}
		}
	}

	if err := s.Audit.SaveRecord(ctx, rec); err != nil {
		log.Printf("audit: save record id=%s user=%s: %v", id, userID, err)
	}
}

// ListRecords returns a page of audit rows for a user.
func (s *Service) ListRecords(ctx context.Context, userID string, page, pageSize int) ([]*audit.Record, error) {
	return s.Audit.Paginate(ctx, userID, page, pageSize)
}

// GetRecord returns one audit row.
func (s *Service) GetRecord(ctx context.Context, userID string, id audit.RecordID) (*audit.Record, error) {
	return s.Audit.Get(ctx, userID, id)
}
