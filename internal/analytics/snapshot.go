package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"electionpulse/internal/dataset"
)

// SnapshotOptions selects the columns and ranking size the views are
// built with. Zero values fall back to the dashboard defaults.
type SnapshotOptions struct {
	TopN        int
	ScoreColumn string
	GroupColumn string
}

func (o SnapshotOptions) withDefaults() SnapshotOptions {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.ScoreColumn == "" {
		o.ScoreColumn = dataset.ColCompositeScore
	}
	if o.GroupColumn == "" {
		o.GroupColumn = dataset.ColLGA
	}
	return o
}

// Snapshot holds every derived view computed from one loaded table.
// Either all views are present or the build failed as a whole; there is
// no partial snapshot.
type Snapshot struct {
	KPI            KPISummary                  `json:"kpi"`
	TopOutliers    []dataset.PollingUnitRecord `json:"top_outliers"`
	ZScoresLong    []LongRow                   `json:"z_scores_long"`
	AreaRollup     []GroupRollup               `json:"area_rollup"`
	History        []HistoricalPoint           `json:"history"`
	MapPoints      []MapPoint                  `json:"map_points"`
	SkippedMapRows int                         `json:"skipped_map_rows"`

	Source  string          `json:"source"`
	Rows    int             `json:"rows"`
	BuiltAt time.Time       `json:"built_at"`
	Options SnapshotOptions `json:"-"`
}

// BuildSnapshot computes all derived views from the table. The stages
// only read the immutable table, so they run concurrently; any failure
// aborts the whole build.
func BuildSnapshot(ctx context.Context, table *dataset.Table, opts SnapshotOptions) (*Snapshot, error) {
	opts = opts.withDefaults()

	snap := &Snapshot{
		Source:  table.Source,
		Rows:    table.Len(),
		BuiltAt: time.Now(),
		Options: opts,
	}

	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		snap.KPI = Summarize(table)
		return nil
	})

	g.Go(func() error {
		top, err := TopN(table, opts.ScoreColumn, opts.TopN)
		if err != nil {
			return err
		}
		long, err := ReshapeLong(top, dataset.ColPUName, dataset.ZScoreColumns)
		if err != nil {
			return err
		}
		snap.TopOutliers = top
		snap.ZScoresLong = long
		return nil
	})

	g.Go(func() error {
		rollup, err := GroupMean(table, opts.GroupColumn, opts.ScoreColumn)
		if err != nil {
			return err
		}
		snap.AreaRollup = rollup
		return nil
	})

	g.Go(func() error {
		snap.History = HistoricalSeries(table)
		return nil
	})

	g.Go(func() error {
		snap.MapPoints, snap.SkippedMapRows = MapPoints(table)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return snap, nil
}
