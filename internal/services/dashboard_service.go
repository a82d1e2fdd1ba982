package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"electionpulse/internal/analytics"
	"electionpulse/internal/dataset"
	"electionpulse/internal/infrastructure"
)

// ErrNotLoaded is returned by queries before the first successful load.
var ErrNotLoaded = errors.New("dataset not loaded")

// DatasetStatus describes the currently loaded dataset, if any.
type DatasetStatus struct {
	Loaded         bool      `json:"loaded"`
	Source         string    `json:"source,omitempty"`
	Rows           int       `json:"rows,omitempty"`
	LoadedAt       time.Time `json:"loaded_at,omitempty"`
	BuiltAt        time.Time `json:"built_at,omitempty"`
	SkippedValues  int       `json:"skipped_values,omitempty"`
	SkippedMapRows int       `json:"skipped_map_rows,omitempty"`
}

// DashboardService owns the dataset loader and serves every derived
// view from the current snapshot. All query methods are read-only; the
// only mutation is swapping in a complete new snapshot on (re)load, so
// consumers never observe partial state.
type DashboardService struct {
	loader  *dataset.Loader
	opts    analytics.SnapshotOptions
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics

	mu    sync.RWMutex
	table *dataset.Table
	snap  *analytics.Snapshot
}

// NewDashboardService creates the service. metrics may be nil.
func NewDashboardService(loader *dataset.Loader, opts analytics.SnapshotOptions, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *DashboardService {
	return &DashboardService{
		loader:  loader,
		opts:    opts,
		logger:  logger.With(slog.String("component", "dashboard_service")),
		metrics: metrics,
	}
}

// Load fetches the dataset (through the loader's cache) and builds a
// fresh snapshot. On failure the previous snapshot, if any, stays
// current.
func (s *DashboardService) Load(ctx context.Context) error {
	return s.refresh(ctx, false)
}

// Reload bypasses the loader cache and rebuilds the snapshot.
func (s *DashboardService) Reload(ctx context.Context) error {
	return s.refresh(ctx, true)
}

func (s *DashboardService) refresh(ctx context.Context, force bool) error {
	start := time.Now()

	var (
		table *dataset.Table
		err   error
	)
	if force {
		table, err = s.loader.Reload(ctx)
	} else {
		table, err = s.loader.Load(ctx)
	}
	if err != nil {
		s.metrics.RecordSnapshotBuild(ctx, time.Since(start).Seconds(), 0, err)
		s.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("source", s.loader.Source()),
			slog.String("error", err.Error()))
		return err
	}

	snap, err := analytics.BuildSnapshot(ctx, table, s.opts)
	s.metrics.RecordSnapshotBuild(ctx, time.Since(start).Seconds(), table.Len(), err)
	if err != nil {
		s.logger.ErrorContext(ctx, "snapshot build failed",
			slog.String("error", err.Error()))
		return err
	}

	s.mu.Lock()
	s.table = table
	s.snap = snap
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "snapshot refreshed",
		slog.String("source", table.Source),
		slog.Int("rows", table.Len()),
		slog.Int("map_points", len(snap.MapPoints)),
		slog.String("duration", time.Since(start).String()))
	return nil
}

// current returns the snapshot and table, or ErrNotLoaded.
func (s *DashboardService) current() (*analytics.Snapshot, *dataset.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, nil, ErrNotLoaded
	}
	return s.snap, s.table, nil
}

// KPISummary returns the scalar summary of the loaded table.
func (s *DashboardService) KPISummary(ctx context.Context) (analytics.KPISummary, error) {
	snap, _, err := s.current()
	if err != nil {
		return analytics.KPISummary{}, err
	}
	return snap.KPI, nil
}

// TopOutliers returns the top-n ranking by scoreColumn. Empty column
// and non-positive n fall back to the snapshot defaults, served
// precomputed; other combinations are computed on demand from the
// immutable table.
func (s *DashboardService) TopOutliers(ctx context.Context, scoreColumn string, n int) ([]dataset.PollingUnitRecord, error) {
	snap, table, err := s.current()
	if err != nil {
		return nil, err
	}

	if (scoreColumn == "" || scoreColumn == snap.Options.ScoreColumn) && (n <= 0 || n == snap.Options.TopN) {
		return snap.TopOutliers, nil
	}
	if scoreColumn == "" {
		scoreColumn = snap.Options.ScoreColumn
	}
	return analytics.TopN(table, scoreColumn, n)
}

// PartyZScores returns the wide-to-long z-score table for the default
// top outlier set.
func (s *DashboardService) PartyZScores(ctx context.Context) ([]analytics.LongRow, error) {
	snap, _, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.ZScoresLong, nil
}

// AreaComparison returns per-area mean scores. Empty arguments fall
// back to the snapshot defaults (LGA by composite score).
func (s *DashboardService) AreaComparison(ctx context.Context, groupColumn, valueColumn string) ([]analytics.GroupRollup, error) {
	snap, table, err := s.current()
	if err != nil {
		return nil, err
	}

	if (groupColumn == "" || groupColumn == snap.Options.GroupColumn) &&
		(valueColumn == "" || valueColumn == snap.Options.ScoreColumn) {
		return snap.AreaRollup, nil
	}
	if groupColumn == "" {
		groupColumn = snap.Options.GroupColumn
	}
	if valueColumn == "" {
		valueColumn = snap.Options.ScoreColumn
	}
	return analytics.GroupMean(table, groupColumn, valueColumn)
}

// HistoricalTrends returns the merged legacy-plus-current series.
func (s *DashboardService) HistoricalTrends(ctx context.Context) ([]analytics.HistoricalPoint, error) {
	snap, _, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.History, nil
}

// MapPoints returns the geometry view and the count of rows dropped
// for missing coordinates.
func (s *DashboardService) MapPoints(ctx context.Context) ([]analytics.MapPoint, int, error) {
	snap, _, err := s.current()
	if err != nil {
		return nil, 0, err
	}
	return snap.MapPoints, snap.SkippedMapRows, nil
}

// Status reports whether a dataset is loaded and its basic shape.
func (s *DashboardService) Status(ctx context.Context) DatasetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return DatasetStatus{Loaded: false}
	}
	return DatasetStatus{
		Loaded:         true,
		Source:         s.table.Source,
		Rows:           s.table.Len(),
		LoadedAt:       s.table.LoadedAt,
		BuiltAt:        s.snap.BuiltAt,
		SkippedValues:  s.table.SkippedValues,
		SkippedMapRows: s.snap.SkippedMapRows,
	}
}

// Snapshot returns the whole current snapshot for export consumers.
func (s *DashboardService) Snapshot(ctx context.Context) (*analytics.Snapshot, error) {
	snap, _, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap, nil
}
