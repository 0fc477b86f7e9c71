package forensics

import "time"

// Competitor is one SERP entry above or around the target domain, relevance
// decreasing with list position.
type Competitor struct {
	Domain   string `json:"domain"`
	Position int    `json:"position"`
}

// MarketCheckResult is a live ranking verification for a domain+query pair.
// Owned by a single request; never cached across requests.
type MarketCheckResult struct {
	IsRanking      bool         `json:"is_ranking"`
	Position       int          `json:"position,omitempty"`
	TopCompetitors []Competitor `json:"top_competitors,omitempty"`
	SERPFeatures   []string     `json:"serp_features,omitempty"`
	Difficulty     string       `json:"difficulty,omitempty"`
}

// AlgoUpdate is one entry from the search-algorithm update calendar.
type AlgoUpdate struct {
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	ImpactLevel string    `json:"impact_level"`
}

// Evidence aggregates the deterministic facts gathered for one ticket.
// Either field may be absent; absence is recorded via warnings upstream.
type Evidence struct {
	MarketCheck *MarketCheckResult `json:"marketCheck,omitempty"`
	AlgoOverlay []AlgoUpdate       `json:"algoOverlay,omitempty"`
}

// NineMonthCheckResult is the outcome of the content-recency policy check.
type NineMonthCheckResult struct {
	IsLocked bool   `json:"isLocked"`
	Reason   string `json:"reason"`
}
