package prompt

import (
	"encoding/json"

	"github.com/serplab/rankforensics/internal/domain/forensics"
)

// maxCompetitors caps the competitor list in the context block to bound
// prompt size.
const maxCompetitors = 5

// marketSummary is the trimmed market-check view shown to the model.
type marketSummary struct {
	IsRanking      bool                   `json:"is_ranking"`
	Position       int                    `json:"position,omitempty"`
	TopCompetitors []forensics.Competitor `json:"top_competitors,omitempty"`
	SERPFeatures   []string               `json:"serp_features,omitempty"`
	Difficulty     string                 `json:"difficulty,omitempty"`
}

type constraintContext struct {
	MarketCheck    *marketSummary                 `json:"market_check,omitempty"`
	AlgoUpdates    []forensics.AlgoUpdate         `json:"algo_updates,omitempty"`
	NineMonthCheck forensics.NineMonthCheckResult `json:"nine_month_check"`
}

// BuildContext merges the gathered evidence and the nine-month check into one
// compact JSON block. The model is told these facts are verified and must not
// be contradicted.
func BuildContext(ev forensics.Evidence, nine forensics.NineMonthCheckResult) string {
	cc := constraintContext{
		AlgoUpdates:    ev.AlgoOverlay,
		NineMonthCheck: nine,
	}
	if mc := ev.MarketCheck; mc != nil {
		top := mc.TopCompetitors
		if len(top) > maxCompetitors {
			top = top[:maxCompetitors]
		}
		cc.MarketCheck = &marketSummary{
			IsRanking:      mc.IsRanking,
			Position:       mc.Position,
			TopCompetitors: top,
			SERPFeatures:   mc.SERPFeatures,
			Difficulty:     mc.Difficulty,
		}
	}

	b, err := json.Marshal(cc)
	if err != nil {
		// Only reachable if the structs above stop being marshalable.
		return `{"nine_month_check":{"isLocked":false,"reason":"context serialization failed"}}`
	}
	return string(b)
}
