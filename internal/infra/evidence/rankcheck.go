// Package evidence implements the deterministic evidence providers: a live
// ranking-verification client and the algorithm-update calendar.
package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/serplab/rankforensics/internal/domain/forensics"
)

const rankCheckTimeout = 20 * time.Second

// RankClient calls a SERP verification provider. It may be left unconfigured
// (empty API key); callers check Configured() and skip the probe.
type RankClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewRankClient(endpoint, apiKey string) *RankClient {
	return &RankClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: rankCheckTimeout},
	}
}

func (c *RankClient) Configured() bool {
	return c.endpoint != "" && c.apiKey != ""
}

// serpResponse is the provider's wire format.
type serpResponse struct {
	Position int `json:"position"` // 0 = not ranking
	Results  []struct {
		Domain   string `json:"domain"`
		Position int    `json:"position"`
	} `json:"results"`
	Features   []string `json:"features"`
	Difficulty string   `json:"difficulty"`
}

// Check verifies the live ranking of domain for query. location is optional.
func (c *RankClient) Check(ctx context.Context, domain, query, location string) (*forensics.MarketCheckResult, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("rank provider not configured")
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid rank provider endpoint: %w", err)
	}
	q := u.Query()
	q.Set("domain", domain)
	q.Set("q", query)
	if location != "" {
		q.Set("location", location)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rank check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rank provider status %d: %s", resp.StatusCode, string(body))
	}

	var sr serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding rank provider response: %w", err)
	}

	out := &forensics.MarketCheckResult{
		IsRanking:    sr.Position > 0,
		Position:     sr.Position,
		SERPFeatures: sr.Features,
		Difficulty:   sr.Difficulty,
	}
	for _, r := range sr.Results {
		if r.Domain == domain {
			continue
		}
		out.TopCompetitors = append(out.TopCompetitors, forensics.Competitor{
			Domain:   r.Domain,
			Position: r.Position,
		})
	}
	return out, nil
}
