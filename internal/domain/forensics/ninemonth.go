package forensics

import (
	"fmt"
	"time"
)

// ContentPolicy holds the tunable parameters of the nine-month rule. The
// rule locks content-refresh recommendations when the page saw a substantive
// update inside RecencyWindow. An update counts as substantive when the
// reported word delta is at least MinWordDelta, or when no delta is reported
// at all (a bare timestamp is trusted).
type ContentPolicy struct {
	RecencyWindow time.Duration
	MinWordDelta  int
}

// DefaultContentPolicy is the nine-month window the rule is named after.
var DefaultContentPolicy = ContentPolicy{
	RecencyWindow: 270 * 24 * time.Hour,
	MinWordDelta:  200,
}

// Metadata keys the evaluator understands. PageMetadata is an opaque record
// at the boundary; only these fields qualify an update as substantive.
const (
	metaLastSubstantiveUpdate = "lastSubstantiveUpdate" // RFC 3339 timestamp
	metaWordCountDelta        = "wordCountDelta"        // number
)

// EvaluateNineMonthRule is a pure function of the page metadata. It always
// returns a result: absent metadata yields a neutral, unlocked result with a
// reason saying so.
func EvaluateNineMonthRule(policy ContentPolicy, meta map[string]any, now time.Time) NineMonthCheckResult {
	if len(meta) == 0 {
		return NineMonthCheckResult{
			IsLocked: false,
			Reason:   "page metadata not provided; nine-month rule not evaluated",
		}
	}

	raw, ok := meta[metaLastSubstantiveUpdate]
	if !ok {
		return NineMonthCheckResult{
			IsLocked: false,
			Reason:   "no lastSubstantiveUpdate in page metadata; nine-month rule not evaluated",
		}
	}
	ts, ok := raw.(string)
	if !ok {
		return NineMonthCheckResult{
			IsLocked: false,
			Reason:   "lastSubstantiveUpdate is not a timestamp string; nine-month rule not evaluated",
		}
	}
	updated, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return NineMonthCheckResult{
			IsLocked: false,
			Reason:   fmt.Sprintf("unparseable lastSubstantiveUpdate %q; nine-month rule not evaluated", ts),
		}
	}

	age := now.Sub(updated)
	if age < 0 {
		age = 0
	}
	if age > policy.RecencyWindow {
		return NineMonthCheckResult{
			IsLocked: false,
			Reason: fmt.Sprintf("last substantive update %s ago exceeds the %d-day window; refresh recommendations allowed",
				age.Truncate(24*time.Hour), int(policy.RecencyWindow.Hours()/24)),
		}
	}

	// Inside the window. A reported word delta below the threshold means the
	// change was cosmetic and does not lock.
	if dv, ok := meta[metaWordCountDelta]; ok {
		delta, ok := numberValue(dv)
		if ok && delta < policy.MinWordDelta {
			return NineMonthCheckResult{
				IsLocked: false,
				Reason: fmt.Sprintf("update inside the window but word delta %d below substantive threshold %d",
					delta, policy.MinWordDelta),
			}
		}
	}

	return NineMonthCheckResult{
		IsLocked: true,
		Reason: fmt.Sprintf("content substantively updated %s ago, inside the %d-day window; content-refresh recommendations are locked",
			age.Truncate(24*time.Hour), int(policy.RecencyWindow.Hours()/24)),
	}
}

// numberValue pulls an int out of the shapes JSON decoding produces.
func numberValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}
