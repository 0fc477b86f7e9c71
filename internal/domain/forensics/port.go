package forensics

import (
	"context"
	"time"
)

// RankProvider port: live ranking verification. May be unconfigured, in which
// case callers skip the check entirely and record a warning.
type RankProvider interface {
	Check(ctx context.Context, domain, query, location string) (*MarketCheckResult, error)
	Configured() bool
}

// UpdateCalendar port: algorithm updates intersecting a date window.
type UpdateCalendar interface {
	Between(ctx context.Context, start, end time.Time) ([]AlgoUpdate, error)
}
