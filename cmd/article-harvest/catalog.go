// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/article-harvest/internal/catalog"
	"github.com/pdiddy/article-harvest/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Index, query and export the processed corpus",
	Long: `Catalog maintains a local SQLite index over the processed articles
Parquet file. Use subcommands to index the file, query it by source, year,
title or author, print summary statistics, or export.`,
}

// --- index subcommand ---

var catalogIndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Load the processed Parquet file into the catalog",
	Long: `Index reads data/processed/articles.parquet (or --input) and replaces the
catalog contents for that file. Unchanged files are skipped on later runs.`,
	RunE: runCatalogIndex,
}

func runCatalogIndex(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if input == "" {
		input = appCfg.Transform.Output
	}

	st, err := catalog.Open(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := st.Index(cmd.Context(), input)
	if err != nil {
		return err
	}
	if summary.Skipped {
		fmt.Printf("%s unchanged; catalog up to date\n", summary.Path)
		return nil
	}
	fmt.Printf("indexed %s articles from %s\n", humanize.Comma(int64(summary.Records)), summary.Path)
	return nil
}

// --- query subcommand ---

var catalogQueryCmd = &cobra.Command{
	Use:   "query [title]",
	Short: "Search indexed articles",
	Long: `Query lists indexed articles, newest first. The optional argument matches
a substring of the title; flags filter by source, year and author.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogQuery,
}

func runCatalogQuery(cmd *cobra.Command, args []string) error {
	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	st, err := catalog.Open(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.Query(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(recs, jsonOutput)
}

func formatQueryOutput(recs []types.ProcessedRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	if len(recs) == 0 {
		fmt.Println("No articles found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-14s  %-50s  %-30s  %s\n",
		"Date", "Source", "Title", "Journal", "ID")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))

	for _, r := range recs {
		fmt.Fprintf(os.Stdout, "%-10s  %-14s  %-50s  %-30s  %s\n",
			r.PubDate.Format("2006-01-02"), r.Source, truncate(r.Title, 50), truncate(r.Journal, 30), r.ID)
	}

	fmt.Fprintf(os.Stdout, "\n%d articles\n", len(recs))
	return nil
}

// --- stats subcommand ---

var catalogStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the indexed corpus",
	RunE:  runCatalogStats,
}

func runCatalogStats(cmd *cobra.Command, args []string) error {
	st, err := catalog.Open(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("%s articles, %s journals, %s authors, %d sources\n",
		humanize.Comma(int64(stats.Total)), humanize.Comma(int64(stats.UniqueJournals)),
		humanize.Comma(int64(stats.UniqueAuthors)), stats.UniqueSources)
	printCounts("By source", stats.BySource)
	printCounts("By year", stats.ByYear)
	printCounts("Top journals", stats.TopJournals)
	printCounts("Top authors", stats.TopAuthors)
	return nil
}

func printCounts(title string, counts []catalog.Count) {
	if len(counts) == 0 {
		return
	}
	fmt.Printf("\n%s\n", title)
	for _, c := range counts {
		fmt.Printf("  %-50s  %8s\n", truncate(c.Key, 50), humanize.Comma(int64(c.Count)))
	}
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export [title]",
	Short: "Export the catalog to YAML or JSON",
	Long: `Export writes the catalog (or a filtered subset) to
<catalog-dir>/export.yaml or export.json. Supports the same filter flags as
query.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	opts, err := queryOptsFromFlags(cmd, args)
	if err != nil {
		return err
	}

	st, err := catalog.Open(catalogConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	var path string
	switch format {
	case "yaml", "":
		path, err = st.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = st.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func catalogConfig(cmd *cobra.Command) types.CatalogConfig {
	cfg := appCfg.Catalog
	if dir, _ := cmd.Flags().GetString("catalog-dir"); dir != "" {
		cfg.CatalogDir = dir
	}
	if n, _ := cmd.Flags().GetInt("limit"); n > 0 {
		cfg.MaxResults = n
	}
	return cfg
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) (catalog.QueryOptions, error) {
	var opts catalog.QueryOptions
	if len(args) > 0 {
		opts.Title = args[0]
	}
	if s, _ := cmd.Flags().GetString("source"); s != "" {
		src, err := types.ParseSource(s)
		if err != nil {
			return opts, err
		}
		opts.Source = src
	}
	opts.Year, _ = cmd.Flags().GetInt("year")
	opts.Author, _ = cmd.Flags().GetString("author")
	opts.MaxResults, _ = cmd.Flags().GetInt("limit")
	return opts, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "filter by source (pubmed, scopus, wos, ieee, scholar, scielo)")
	cmd.Flags().Int("year", 0, "filter by publication year")
	cmd.Flags().String("author", "", "filter by author name")
	cmd.Flags().Int("limit", 0, "maximum number of results")
}

func init() {
	catalogCmd.PersistentFlags().String("catalog-dir", "", "catalog directory (overrides config)")

	catalogIndexCmd.Flags().String("input", "", "processed Parquet file (default: transform output)")

	addFilterFlags(catalogQueryCmd)
	catalogQueryCmd.Flags().Bool("json", false, "output as JSON")

	catalogStatsCmd.Flags().Bool("json", false, "output as JSON")

	addFilterFlags(catalogExportCmd)
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	catalogCmd.AddCommand(catalogIndexCmd)
	catalogCmd.AddCommand(catalogQueryCmd)
	catalogCmd.AddCommand(catalogStatsCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	rootCmd.AddCommand(catalogCmd)
}
