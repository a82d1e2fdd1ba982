package analytics

import (
	"sort"

	"electionpulse/internal/dataset"
)

// DefaultTopN is the ranking size the dashboard shows by default.
const DefaultTopN = 5

// TopN returns the n rows with the highest non-missing values of
// scoreColumn, descending. Rows whose score is missing are excluded
// entirely, so they can never rank above a scored row; exact ties keep
// their original row order. Fewer than n scored rows returns them all.
func TopN(table *dataset.Table, scoreColumn string, n int) ([]dataset.PollingUnitRecord, error) {
	if !table.HasFloatColumn(scoreColumn) {
		return nil, dataset.UnknownColumnError(scoreColumn)
	}
	if n <= 0 {
		n = DefaultTopN
	}

	type scored struct {
		row   int
		value float64
	}

	candidates := make([]scored, 0, table.Len())
	for i := range table.Rows {
		v, _ := table.Rows[i].Float(scoreColumn)
		if v == nil {
			continue
		}
		candidates = append(candidates, scored{row: i, value: *v})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].value > candidates[j].value
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}

	out := make([]dataset.PollingUnitRecord, len(candidates))
	for i, c := range candidates {
		out[i] = table.Rows[c.row]
	}
	return out, nil
}

// LongRow is one (entity, category, value) triple of a wide-to-long
// reshape. Value is nil when the source cell was missing.
type LongRow struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Value    *float64 `json:"value"`
}

// ReshapeLong pivots each input row into len(valueColumns) long rows
// carrying the id column's value, the originating column name, and the
// cell value. No row is dropped: missing values pass through as nil, so
// the output always has exactly len(rows) * len(valueColumns) entries.
func ReshapeLong(rows []dataset.PollingUnitRecord, idColumn string, valueColumns []string) ([]LongRow, error) {
	var probe dataset.PollingUnitRecord
	if _, ok := probe.Text(idColumn); !ok {
		return nil, dataset.UnknownColumnError(idColumn)
	}
	for _, col := range valueColumns {
		if _, ok := probe.Float(col); !ok {
			return nil, dataset.UnknownColumnError(col)
		}
	}

	out := make([]LongRow, 0, len(rows)*len(valueColumns))
	for i := range rows {
		id, _ := rows[i].Text(idColumn)
		for _, col := range valueColumns {
			v, _ := rows[i].Float(col)
			out = append(out, LongRow{ID: id, Category: col, Value: v})
		}
	}
	return out, nil
}
