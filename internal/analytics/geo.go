package analytics

import (
	"electionpulse/internal/dataset"
)

// MapPoint carries the fields the map layers render for one polling
// unit: marker position, popup content, icon color, and the composite
// score used as the heat weight.
type MapPoint struct {
	PUCode          string   `json:"pu_code"`
	PUName          string   `json:"pu_name"`
	Latitude        float64  `json:"latitude"`
	Longitude       float64  `json:"longitude"`
	Cluster         int64    `json:"cluster"`
	TotalVotes      int64    `json:"total_votes"`
	AccreditedRatio *float64 `json:"accredited_ratio,omitempty"`
	CompositeScore  *float64 `json:"composite_score,omitempty"`
	Color           string   `json:"color,omitempty"`
}

// MapPoints returns the geometry view of the table. Rows without both
// coordinates are dropped from this view only; the skipped count lets
// the caller surface the gap without failing sibling views.
func MapPoints(table *dataset.Table) (points []MapPoint, skipped int) {
	points = make([]MapPoint, 0, table.Len())
	for i := range table.Rows {
		r := &table.Rows[i]
		if !r.HasCoordinates() {
			skipped++
			continue
		}
		points = append(points, MapPoint{
			PUCode:          r.PUCode,
			PUName:          r.PUName,
			Latitude:        *r.Latitude,
			Longitude:       *r.Longitude,
			Cluster:         r.Cluster,
			TotalVotes:      r.TotalVotes,
			AccreditedRatio: r.AccreditedRatio,
			CompositeScore:  r.CompositeScore,
			Color:           r.Color,
		})
	}
	return points, skipped
}
