package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"electionpulse/internal/analytics"
	"electionpulse/internal/dataset"
)

// CSVWriter exports derived views as CSV files.
type CSVWriter struct {
	outDir string
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at outDir.
func NewCSVWriter(outDir string, logger *slog.Logger) *CSVWriter {
	return &CSVWriter{
		outDir: outDir,
		logger: logger.With(slog.String("component", "csv_exporter")),
	}
}

// WriteSnapshot writes every view of the snapshot as its own CSV file
// and returns the paths written.
func (w *CSVWriter) WriteSnapshot(snap *analytics.Snapshot) ([]string, error) {
	writes := []struct {
		name  string
		write func(string) error
	}{
		{"kpi_summary.csv", func(p string) error { return w.writeKPI(p, snap.KPI) }},
		{"top_outliers.csv", func(p string) error { return w.writeOutliers(p, snap.TopOutliers) }},
		{"party_z_scores.csv", func(p string) error { return w.writeLong(p, snap.ZScoresLong) }},
		{"area_rollup.csv", func(p string) error { return w.writeRollup(p, snap.AreaRollup) }},
		{"historical_series.csv", func(p string) error { return w.writeHistory(p, snap.History) }},
	}

	var paths []string
	for _, item := range writes {
		path := filepath.Join(w.outDir, item.name)
		if err := item.write(path); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", item.name, err)
		}
		paths = append(paths, path)
	}

	w.logger.Info("snapshot exported",
		slog.String("out_dir", w.outDir),
		slog.Int("files", len(paths)))
	return paths, nil
}

func (w *CSVWriter) writeKPI(path string, kpi analytics.KPISummary) error {
	turnout := fmt.Sprintf("%.2f", kpi.TurnoutPct)
	if !kpi.TurnoutDefined {
		turnout = ""
	}
	return w.writeFile(path,
		[]string{"total_polling_units", "total_votes", "total_registered", "total_accredited", "turnout_pct"},
		[][]string{{
			strconv.Itoa(kpi.TotalPollingUnits),
			strconv.FormatInt(kpi.TotalVotes, 10),
			strconv.FormatInt(kpi.TotalRegistered, 10),
			strconv.FormatInt(kpi.TotalAccredited, 10),
			turnout,
		}})
}

func (w *CSVWriter) writeOutliers(path string, rows []dataset.PollingUnitRecord) error {
	records := make([][]string, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		records = append(records, []string{
			r.PUCode,
			r.PUName,
			r.LGA,
			strconv.FormatInt(r.TotalVotes, 10),
			strconv.FormatInt(r.AccreditedVoters, 10),
			formatOptional(r.AccreditedRatio),
			formatOptional(r.APCZScore),
			formatOptional(r.PDPZScore),
			formatOptional(r.LPZScore),
			formatOptional(r.NNPPZScore),
			formatOptional(r.CompositeScore),
		})
	}
	return w.writeFile(path, []string{
		"pu_code", "pu_name", "lga", "total_votes", "accredited_voters", "accredited_ratio",
		"apc_z_score", "pdp_z_score", "lp_z_score", "nnpp_z_score", "composite_score",
	}, records)
}

func (w *CSVWriter) writeLong(path string, rows []analytics.LongRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{row.ID, row.Category, formatOptional(row.Value)})
	}
	return w.writeFile(path, []string{"unit", "party", "z_score"}, records)
}

func (w *CSVWriter) writeRollup(path string, rows []analytics.GroupRollup) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{row.Group, formatOptional(row.Mean), strconv.Itoa(row.Count)})
	}
	return w.writeFile(path, []string{"area", "mean_composite_score", "scored_rows"}, records)
}

func (w *CSVWriter) writeHistory(path string, points []analytics.HistoricalPoint) error {
	records := make([][]string, 0, len(points))
	for _, p := range points {
		records = append(records, []string{
			strconv.Itoa(p.Year),
			strconv.FormatInt(p.APC, 10),
			strconv.FormatInt(p.PDP, 10),
			strconv.FormatInt(p.LP, 10),
			strconv.FormatInt(p.NNPP, 10),
		})
	}
	return w.writeFile(path, []string{"year", "apc", "pdp", "lp", "nnpp"}, records)
}

// writeFile writes one CSV file with a UTF-8 BOM so spreadsheet tools
// pick the right encoding.
func (w *CSVWriter) writeFile(path string, headers []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// formatOptional renders an optional float, empty when missing.
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
