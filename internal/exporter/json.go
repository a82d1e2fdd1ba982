package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"electionpulse/internal/analytics"
)

// WriteSnapshotJSON writes the whole snapshot as one indented JSON file
// for web consumers, mirroring the per-view CSV exports.
func WriteSnapshotJSON(path string, snap *analytics.Snapshot, logger *slog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	payload := map[string]interface{}{
		"kpi":               snap.KPI,
		"top_outliers":      snap.TopOutliers,
		"party_z_scores":    snap.ZScoresLong,
		"area_rollup":       snap.AreaRollup,
		"historical_series": snap.History,
		"map_points":        snap.MapPoints,
		"skipped_map_rows":  snap.SkippedMapRows,
		"source":            snap.Source,
		"rows":              snap.Rows,
		"generated_at":      time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	logger.Info("snapshot JSON written",
		slog.String("path", path),
		slog.Int("rows", snap.Rows))
	return nil
}
