package analytics

import (
	"sort"

	"electionpulse/internal/dataset"
)

// GroupRollup is one row of a per-group aggregation. Mean is nil when
// every value in the group was missing; such groups stay in the result
// but sort after every defined mean.
type GroupRollup struct {
	Group string   `json:"group"`
	Mean  *float64 `json:"mean"`
	Count int      `json:"count"`
}

// GroupMean partitions rows by groupColumn, computes the arithmetic
// mean of valueColumn within each partition skipping missing values,
// rounds to 2 decimal places, and returns one row per distinct group
// sorted by mean descending. Groups tied on mean keep first-appearance
// order.
func GroupMean(table *dataset.Table, groupColumn, valueColumn string) ([]GroupRollup, error) {
	if !table.HasStringColumn(groupColumn) {
		return nil, dataset.UnknownColumnError(groupColumn)
	}
	if !table.HasFloatColumn(valueColumn) {
		return nil, dataset.UnknownColumnError(valueColumn)
	}

	type acc struct {
		sum   float64
		count int
	}

	sums := make(map[string]*acc)
	var order []string

	for i := range table.Rows {
		key, _ := table.Rows[i].Text(groupColumn)
		a, ok := sums[key]
		if !ok {
			a = &acc{}
			sums[key] = a
			order = append(order, key)
		}

		v, _ := table.Rows[i].Float(valueColumn)
		if v == nil {
			continue
		}
		a.sum += *v
		a.count++
	}

	rollups := make([]GroupRollup, 0, len(order))
	for _, key := range order {
		a := sums[key]
		rollup := GroupRollup{Group: key, Count: a.count}
		if a.count > 0 {
			mean := round2(a.sum / float64(a.count))
			rollup.Mean = &mean
		}
		rollups = append(rollups, rollup)
	}

	sort.SliceStable(rollups, func(i, j int) bool {
		mi, mj := rollups[i].Mean, rollups[j].Mean
		switch {
		case mi == nil:
			return false
		case mj == nil:
			return true
		default:
			return *mi > *mj
		}
	})

	return rollups, nil
}

// HistoricalPoint is one year of per-party national totals.
type HistoricalPoint struct {
	Year int   `json:"year"`
	APC  int64 `json:"apc"`
	PDP  int64 `json:"pdp"`
	LP   int64 `json:"lp"`
	NNPP int64 `json:"nnpp"`
}

// Prior-cycle totals as published. Zeroes stand for parties that did
// not exist or did not report that year.
var legacyPoints = []HistoricalPoint{
	{Year: 2011, APC: 0, PDP: 484758, LP: 0, NNPP: 0},
	{Year: 2015, APC: 528620, PDP: 303376, LP: 0, NNPP: 0},
	{Year: 2019, APC: 365229, PDP: 366690, LP: 360, NNPP: 430},
}

// currentYear is the cycle the loaded dataset describes.
const currentYear = 2023

// HistoricalSeries merges the fixed legacy points with the current
// cycle's per-party sums computed from the loaded table. Only the final
// year is derived from data; earlier years are literal constants.
func HistoricalSeries(table *dataset.Table) []HistoricalPoint {
	current := HistoricalPoint{Year: currentYear}
	for i := range table.Rows {
		r := &table.Rows[i]
		current.APC += r.APC
		current.PDP += r.PDP
		current.LP += r.LP
		current.NNPP += r.NNPP
	}

	series := make([]HistoricalPoint, 0, len(legacyPoints)+1)
	series = append(series, legacyPoints...)
	series = append(series, current)
	return series
}
