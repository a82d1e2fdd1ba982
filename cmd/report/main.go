// Command report builds the full aggregation snapshot for a dataset and
// writes it to CSV files (and optionally a single JSON document) without
// starting the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"electionpulse/internal/analytics"
	"electionpulse/internal/dataset"
	"electionpulse/internal/exporter"
)

func main() {
	var (
		source   = flag.String("source", "data/election_results.csv", "dataset file path or http(s) URL")
		format   = flag.String("format", "auto", "dataset format: auto, csv, or xlsx")
		outDir   = flag.String("out", "reports", "output directory for CSV files")
		jsonPath = flag.String("json", "", "also write the snapshot to this JSON file")
		topN     = flag.Int("top", analytics.DefaultTopN, "ranking size for the outlier report")
		scoreCol = flag.String("score", dataset.ColCompositeScore, "score column for the outlier ranking")
		groupCol = flag.String("group", dataset.ColLGA, "grouping column for the area rollup")
		timeout  = flag.Duration("timeout", 2*time.Minute, "overall deadline for loading and reporting")
		verbose  = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *source, *format, *outDir, *jsonPath, *scoreCol, *groupCol, *topN, *timeout); err != nil {
		logger.Error("report failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, source, format, outDir, jsonPath, scoreCol, groupCol string, topN int, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	loader := dataset.NewLoader(source, dataset.Format(format),
		dataset.WithHTTPClient(&http.Client{Timeout: timeout}),
		dataset.WithLogger(logger),
	)

	start := time.Now()
	table, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	logger.Info("dataset loaded",
		slog.String("source", source),
		slog.Int("rows", table.Len()),
		slog.Duration("elapsed", time.Since(start)))

	snap, err := analytics.BuildSnapshot(ctx, table, analytics.SnapshotOptions{
		TopN:        topN,
		ScoreColumn: scoreCol,
		GroupColumn: groupCol,
	})
	if err != nil {
		return fmt.Errorf("build snapshot: %w", err)
	}

	writer := exporter.NewCSVWriter(outDir, logger)
	files, err := writer.WriteSnapshot(snap)
	if err != nil {
		return fmt.Errorf("write csv reports: %w", err)
	}
	for _, f := range files {
		fmt.Println(f)
	}

	if jsonPath != "" {
		if err := exporter.WriteSnapshotJSON(jsonPath, snap, logger); err != nil {
			return fmt.Errorf("write json snapshot: %w", err)
		}
		fmt.Println(jsonPath)
	}

	return nil
}
