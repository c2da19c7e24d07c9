// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/article-harvest/internal/transform"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Clean raw batches into the processed corpus",
	Long: `Transform reads the configured raw Parquet files that exist (by default
PubMed and SciELO), trims text fields, parses publication dates, drops rows
with unparseable dates or missing fields, removes duplicate titles, and
writes data/processed/articles.parquet.`,
	RunE: runTransform,
}

func runTransform(cmd *cobra.Command, args []string) error {
	cfg := appCfg.Transform
	if inputs, _ := cmd.Flags().GetStringSlice("input"); len(inputs) > 0 {
		cfg.Inputs = inputs
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.Output = out
	}

	summary, err := transform.Run(cmd.Context(), cfg, logger)
	if errors.Is(err, transform.ErrNoInput) {
		logger.Warn().Strs("inputs", cfg.Inputs).Msg("no transform input found; nothing written")
		return nil
	}
	if err != nil {
		return err
	}

	r := summary.Report
	fmt.Printf("read %s records from %d file(s): %s dropped for dates, %s for missing fields, %s duplicate titles\n",
		humanize.Comma(int64(r.Input)), len(summary.Read),
		humanize.Comma(int64(r.InvalidDate)), humanize.Comma(int64(r.MissingField)), humanize.Comma(int64(r.Duplicate)))
	fmt.Printf("wrote %s records to %s\n", humanize.Comma(int64(r.Output)), summary.Output)
	return nil
}

func init() {
	transformCmd.Flags().StringSlice("input", nil, "raw Parquet inputs (overrides config)")
	transformCmd.Flags().String("output", "", "processed Parquet output (overrides config)")

	rootCmd.AddCommand(transformCmd)
}
