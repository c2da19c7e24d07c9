// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/article-harvest/internal/httputil"
	"github.com/pdiddy/article-harvest/internal/observability"
	"github.com/pdiddy/article-harvest/internal/pipeline"
	"github.com/pdiddy/article-harvest/internal/sources"
	"github.com/pdiddy/article-harvest/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Fetch articles from every enabled source and write raw and combined files",
	Long: `Extract queries each enabled source in a fixed order (PubMed, Scopus,
Web of Science, IEEE Xplore, Google Scholar, SciELO). Each non-empty batch is
written to data/raw/<source>_articles.{csv,parquet}; the id-deduplicated union
is written to data/processed/all_articles.{csv,parquet}.

A source that fails after retries contributes nothing. When no source returns
data, a warning is logged, nothing is written, and the command still succeeds.`,
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := appCfg.Extraction

	only, _ := cmd.Flags().GetStringSlice("source")
	if len(only) > 0 {
		restricted, err := restrictSources(cfg.Sources, only)
		if err != nil {
			return err
		}
		cfg.Sources = restricted
	}

	if n, _ := cmd.Flags().GetInt("max-results"); n > 0 {
		cfg.MaxResults = n
	}

	metrics := observability.NewMetrics("article_harvest")
	deps := sources.Deps{
		Client:    &http.Client{Timeout: cfg.Timeout},
		Policy:    metrics.Instrument(httputil.NewPolicy(cfg.Retry, logger)),
		Logger:    logger,
		UserAgent: cfg.UserAgent,
	}

	adapters := sources.Enabled(cfg, deps)
	if len(adapters) == 0 {
		return fmt.Errorf("no sources enabled")
	}

	summary, err := pipeline.Run(cmd.Context(), cfg, adapters, pipeline.Options{
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		return err
	}

	printExtractSummary(summary)
	return nil
}

// restrictSources keeps only the named sources enabled.
func restrictSources(all map[string]types.SourceConfig, names []string) (map[string]types.SourceConfig, error) {
	keep := make(map[string]bool, len(names))
	for _, n := range names {
		src, err := types.ParseSource(n)
		if err != nil {
			return nil, err
		}
		keep[src.Slug()] = true
	}

	out := make(map[string]types.SourceConfig, len(all))
	for slug, sc := range all {
		sc.Enabled = sc.Enabled && keep[slug]
		out[slug] = sc
	}
	return out, nil
}

func printExtractSummary(s pipeline.Summary) {
	w := os.Stdout
	fmt.Fprintf(w, "%-14s  %8s  %s\n", "Source", "Records", "Files")
	for _, r := range s.Sources {
		files := "-"
		if len(r.Files) > 0 {
			files = fmt.Sprint(r.Files)
		}
		fmt.Fprintf(w, "%-14s  %8s  %s\n", r.Source, humanize.Comma(int64(r.Records)), files)
	}
	if len(s.Combined.Files) == 0 {
		fmt.Fprintln(w, "\nNo data extracted; combined corpus not written.")
		return
	}
	fmt.Fprintf(w, "\ncombined: %s records (%s duplicates removed) -> %v\n",
		humanize.Comma(int64(s.Combined.Records)),
		humanize.Comma(int64(s.Combined.DuplicatesRemoved)),
		s.Combined.Files)
	fmt.Fprintf(w, "manifest: %s (run %s)\n", s.ManifestPath, s.RunID)
}

func init() {
	extractCmd.Flags().StringSlice("source", nil, "restrict to these sources (pubmed, scopus, wos, ieee, scholar, scielo)")

	extractCmd.Flags().Int("max-results", 0, "records per source (overrides config)")

	rootCmd.AddCommand(extractCmd)
}
