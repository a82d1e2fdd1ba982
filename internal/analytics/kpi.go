package analytics

import (
	"math"

	"electionpulse/internal/dataset"
)

// KPISummary is the fixed-shape scalar summary over the whole table.
type KPISummary struct {
	TotalPollingUnits int     `json:"total_polling_units"`
	TotalVotes        int64   `json:"total_votes"`
	TotalRegistered   int64   `json:"total_registered"`
	TotalAccredited   int64   `json:"total_accredited"`
	TurnoutPct        float64 `json:"turnout_pct"`

	// TurnoutDefined is false when no voters are registered; TurnoutPct
	// is then the 0 sentinel rather than a division result.
	TurnoutDefined bool `json:"turnout_defined"`
}

// Summarize computes the KPI summary. Polling units are counted by
// distinct unit code; all other figures are column sums, so the result
// is invariant under row permutation. Sums are int64 and comfortably
// hold nationwide counts.
func Summarize(table *dataset.Table) KPISummary {
	var summary KPISummary

	seen := make(map[string]struct{}, table.Len())
	for i := range table.Rows {
		r := &table.Rows[i]
		if _, ok := seen[r.PUCode]; !ok {
			seen[r.PUCode] = struct{}{}
		}
		summary.TotalVotes += r.TotalVotes
		summary.TotalRegistered += r.RegisteredVoters
		summary.TotalAccredited += r.AccreditedVoters
	}
	summary.TotalPollingUnits = len(seen)

	if summary.TotalRegistered > 0 {
		summary.TurnoutPct = round2(100 * float64(summary.TotalAccredited) / float64(summary.TotalRegistered))
		summary.TurnoutDefined = true
	}

	return summary
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
