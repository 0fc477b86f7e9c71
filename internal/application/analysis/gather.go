package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "github.com/serplab/rankforensics/internal/domain/analysis"
	"github.com/serplab/rankforensics/internal/domain/forensics"
)

// gather runs the two evidence probes concurrently, each behind its own
// failure boundary. A probe fault becomes a warning and leaves its evidence
// field absent; it never blocks the other probe or aborts the pipeline.
func (s *Service) gather(ctx context.Context, req domain.Request, now time.Time) (forensics.Evidence, []string) {
	var (
		ev         forensics.Evidence
		marketWarn string
		algoWarn   string
		wg         sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		ev.MarketCheck, marketWarn = s.marketCheck(ctx, req)
	}()
	go func() {
		defer wg.Done()
		ev.AlgoOverlay, algoWarn = s.algoOverlay(ctx, now)
	}()
	wg.Wait()

	var warnings []string
	if marketWarn != "" {
		warnings = append(warnings, marketWarn)
	}
	if algoWarn != "" {
		warnings = append(warnings, algoWarn)
	}
	return ev, warnings
}

func (s *Service) marketCheck(ctx context.Context, req domain.Request) (*forensics.MarketCheckResult, string) {
	if req.TargetQuery == "" {
		return nil, "market check skipped: no target query supplied"
	}
	if s.Rank == nil || !s.Rank.Configured() {
		return nil, "market check skipped: ranking provider not configured"
	}
	mc, err := s.Rank.Check(ctx, req.TargetDomain, req.TargetQuery, req.Location)
	if err != nil {
		return nil, fmt.Sprintf("market check failed: %v", err)
	}
	return mc, ""
}

func (s *Service) algoOverlay(ctx context.Context, now time.Time) ([]forensics.AlgoUpdate, string) {
	if s.Calendar == nil {
		return nil, "algo overlay skipped: update calendar not configured"
	}
	updates, err := s.Calendar.Between(ctx, now.Add(-algoLookback), now)
	if err != nil {
		return nil, fmt.Sprintf("algo overlay failed: %v", err)
	}
	return updates, ""
}
