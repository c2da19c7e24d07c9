// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives one extraction run: every adapter is invoked in
// order, non-empty batches are persisted per source, and the consolidated
// corpus is written once all sources have been tried.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/article-harvest/internal/consolidate"
	"github.com/pdiddy/article-harvest/internal/observability"
	"github.com/pdiddy/article-harvest/internal/sources"
	"github.com/pdiddy/article-harvest/internal/store"
	"github.com/pdiddy/article-harvest/pkg/types"
)

// Formats lists the file extensions written for every batch.
var Formats = []string{"csv", "parquet"}

// Options carries the run's collaborators.
type Options struct {
	Logger zerolog.Logger

	// Metrics is optional.
	Metrics *observability.Metrics

	// RunID identifies the run; a random UUID is used when empty.
	RunID string

	// Now defaults to time.Now.
	Now func() time.Time
}

// Summary reports the outcome of a run. Manifest and Combined.Files are
// empty when no source returned data.
type Summary struct {
	Manifest
	ManifestPath string
}

// Run invokes adapters sequentially in the given order. Adapter failures
// never fail the run; only local write errors and cancellation do. When
// every adapter comes back empty Run logs a warning, writes nothing and
// returns a nil error.
func Run(ctx context.Context, cfg types.ExtractionConfig, adapters []sources.Adapter, opts Options) (Summary, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := observability.WithRun(opts.Logger, runID)

	summary := Summary{Manifest: Manifest{RunID: runID, StartedAt: now().UTC()}}
	var batches []types.Batch

	for _, a := range adapters {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("extraction interrupted: %w", err)
		}
		src := a.Source()
		sc := cfg.Source(src)
		maxResults := sc.MaxResults
		if maxResults <= 0 {
			maxResults = cfg.MaxResults
		}

		logger.Info().Str("source", src.Slug()).Msg("extracting")
		start := now()
		batch := a.Fetch(ctx, sc.Query, maxResults)
		elapsed := now().Sub(start)
		if opts.Metrics != nil {
			opts.Metrics.RecordFetch(src, len(batch), elapsed)
		}

		result := SourceResult{Source: src, Query: sc.Query, Records: len(batch), Seconds: elapsed.Seconds()}
		if len(batch) == 0 {
			logger.Warn().Str("source", src.Slug()).Msg("no records extracted")
			summary.Empty = append(summary.Empty, src)
			summary.Sources = append(summary.Sources, result)
			continue
		}

		files, err := writeBatch(batch, func(ext string) string { return types.RawFilePath(cfg.RawDir, src, ext) })
		if err != nil {
			return summary, fmt.Errorf("persisting %s batch: %w", src.Slug(), err)
		}
		result.Files = files
		summary.Sources = append(summary.Sources, result)
		batches = append(batches, batch)
		logger.Info().Str("source", src.Slug()).Int("records", len(batch)).Msg("source extracted")
	}

	res := consolidate.Consolidate(batches...)
	summary.Combined = Combined{Records: len(res.Batch), DuplicatesRemoved: res.Removed}
	summary.FinishedAt = now().UTC()

	if len(res.Batch) == 0 {
		logger.Warn().Msg("no data extracted from any source; nothing written")
		writeMetrics(opts.Metrics, cfg.MetricsFile, res, logger)
		return summary, nil
	}

	files, err := writeBatch(res.Batch, func(ext string) string { return types.CombinedFilePath(cfg.ProcessedDir, ext) })
	if err != nil {
		return summary, fmt.Errorf("persisting combined corpus: %w", err)
	}
	summary.Combined.Files = files
	logger.Info().
		Int("records", len(res.Batch)).
		Int("duplicates_removed", res.Removed).
		Msg("combined corpus written")

	summary.ManifestPath = ManifestPath(cfg.RawDir)
	if err := WriteManifest(summary.ManifestPath, summary.Manifest); err != nil {
		return summary, err
	}

	writeMetrics(opts.Metrics, cfg.MetricsFile, res, logger)
	return summary, nil
}

// writeMetrics records the consolidation outcome and flushes the textfile
// when one is configured. Runs that extracted nothing are flushed too.
func writeMetrics(m *observability.Metrics, path string, res consolidate.Result, logger zerolog.Logger) {
	if m == nil {
		return
	}
	m.RecordConsolidation(len(res.Batch), res.Removed)
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		logger.Warn().Err(err).Msg("metrics not written")
	}
}

// writeBatch persists batch in every format and returns the written paths.
func writeBatch(batch types.Batch, pathFor func(ext string) string) ([]string, error) {
	var files []string
	for _, ext := range Formats {
		path := pathFor(ext)
		var err error
		switch ext {
		case "csv":
			err = store.WriteCSV(path, batch)
		case "parquet":
			err = store.WriteParquet(path, batch)
		}
		if err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}
