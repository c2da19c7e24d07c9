// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/article-harvest/internal/store"
	"github.com/pdiddy/article-harvest/pkg/types"
)

// ErrNoInput reports that none of the configured input files exist.
var ErrNoInput = errors.New("no transform input files found")

// Summary describes one transform run.
type Summary struct {
	Read    []string `json:"read" yaml:"read"`
	Missing []string `json:"missing" yaml:"missing"`
	Output  string   `json:"output" yaml:"output"`
	Report  Report   `json:"report" yaml:"report"`
}

// Run reads every configured input that exists, cleans the concatenation in
// input order and writes the processed Parquet file. Missing inputs are
// skipped with a warning; when all are missing Run writes nothing and
// returns ErrNoInput.
func Run(ctx context.Context, cfg types.TransformConfig, logger zerolog.Logger) (Summary, error) {
	layouts := cfg.DateLayouts
	if len(layouts) == 0 {
		layouts = types.DefaultDateLayouts
	}
	summary := Summary{Output: cfg.Output}

	var all types.Batch
	for _, path := range cfg.Inputs {
		if !store.Exists(path) {
			logger.Warn().Str("path", path).Msg("transform input not found, skipping")
			summary.Missing = append(summary.Missing, path)
			continue
		}
		batch, err := store.ReadParquet(ctx, path)
		if err != nil {
			return summary, fmt.Errorf("loading %s: %w", path, err)
		}
		logger.Info().Str("path", path).Int("records", len(batch)).Msg("loaded transform input")
		summary.Read = append(summary.Read, path)
		all = append(all, batch...)
	}

	if len(summary.Read) == 0 {
		return summary, ErrNoInput
	}

	recs, rep := Clean(all, layouts)
	summary.Report = rep

	if err := store.WriteProcessedParquet(cfg.Output, recs); err != nil {
		return summary, fmt.Errorf("writing processed corpus: %w", err)
	}

	logger.Info().
		Int("input", rep.Input).
		Int("invalid_date", rep.InvalidDate).
		Int("missing_field", rep.MissingField).
		Int("duplicate", rep.Duplicate).
		Int("output", rep.Output).
		Str("path", cfg.Output).
		Msg("transform complete")
	return summary, nil
}
