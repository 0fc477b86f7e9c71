package prompt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/serplab/rankforensics/internal/domain/forensics"
)

func TestBuildContext_CapsCompetitors(t *testing.T) {
	var comps []forensics.Competitor
	for i := 1; i <= 9; i++ {
		comps = append(comps, forensics.Competitor{Domain: "rival.example", Position: i})
	}
	ev := forensics.Evidence{
		MarketCheck: &forensics.MarketCheckResult{
			IsRanking:      true,
			Position:       7,
			TopCompetitors: comps,
			SERPFeatures:   []string{"featured_snippet"},
			Difficulty:     "hard",
		},
	}

	out := BuildContext(ev, forensics.NineMonthCheckResult{Reason: "ok"})

	var parsed struct {
		MarketCheck struct {
			Position       int                    `json:"position"`
			TopCompetitors []forensics.Competitor `json:"top_competitors"`
		} `json:"market_check"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("context is not valid JSON: %v", err)
	}
	if len(parsed.MarketCheck.TopCompetitors) != 5 {
		t.Errorf("competitors = %d, want capped at 5", len(parsed.MarketCheck.TopCompetitors))
	}
	if parsed.MarketCheck.Position != 7 {
		t.Errorf("position = %d, want 7", parsed.MarketCheck.Position)
	}
}

func TestBuildContext_AbsentEvidence(t *testing.T) {
	out := BuildContext(forensics.Evidence{}, forensics.NineMonthCheckResult{
		IsLocked: true,
		Reason:   "updated recently",
	})

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("context is not valid JSON: %v", err)
	}
	if _, ok := parsed["market_check"]; ok {
		t.Error("absent market check serialized anyway")
	}
	if _, ok := parsed["nine_month_check"]; !ok {
		t.Error("nine-month check always belongs in the context")
	}
}

func TestBuildContext_IncludesAlgoUpdates(t *testing.T) {
	ev := forensics.Evidence{
		AlgoOverlay: []forensics.AlgoUpdate{
			{Name: "August 2025 Core Update", Date: time.Date(2025, 8, 21, 0, 0, 0, 0, time.UTC), ImpactLevel: "high"},
		},
	}
	out := BuildContext(ev, forensics.NineMonthCheckResult{Reason: "ok"})

	var parsed struct {
		AlgoUpdates []forensics.AlgoUpdate `json:"algo_updates"`
	}
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("context is not valid JSON: %v", err)
	}
	if len(parsed.AlgoUpdates) != 1 || parsed.AlgoUpdates[0].Name != "August 2025 Core Update" {
		t.Errorf("algo updates not carried through: %+v", parsed.AlgoUpdates)
	}
}
