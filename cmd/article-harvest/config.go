// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// setDefaults registers every default as a viper key so config files, env
// vars and flags can override single fields without blanking their
// siblings.
func setDefaults(v *viper.Viper, d types.PipelineConfig) {
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	e := d.Extraction
	v.SetDefault("extraction.timeout", e.Timeout)
	v.SetDefault("extraction.user_agent", e.UserAgent)
	v.SetDefault("extraction.retry.max_attempts", e.Retry.MaxAttempts)
	v.SetDefault("extraction.retry.delay", e.Retry.Delay)
	v.SetDefault("extraction.max_results", e.MaxResults)
	v.SetDefault("extraction.raw_dir", e.RawDir)
	v.SetDefault("extraction.processed_dir", e.ProcessedDir)
	v.SetDefault("extraction.metrics_file", e.MetricsFile)
	for slug, sc := range e.Sources {
		prefix := "extraction.sources." + slug + "."
		v.SetDefault(prefix+"enabled", sc.Enabled)
		v.SetDefault(prefix+"query", sc.Query)
		v.SetDefault(prefix+"base_url", sc.BaseURL)
		v.SetDefault(prefix+"api_key", sc.APIKey)
		v.SetDefault(prefix+"max_results", sc.MaxResults)
		v.SetDefault(prefix+"request_delay", sc.RequestDelay)
		v.SetDefault(prefix+"collection", sc.Collection)
	}

	v.SetDefault("transform.inputs", d.Transform.Inputs)
	v.SetDefault("transform.output", d.Transform.Output)
	v.SetDefault("transform.date_layouts", d.Transform.DateLayouts)

	v.SetDefault("catalog.catalog_dir", d.Catalog.CatalogDir)
	v.SetDefault("catalog.max_results", d.Catalog.MaxResults)
}

// loadConfig decodes the merged viper settings into a PipelineConfig.
func loadConfig(v *viper.Viper) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding configuration: %w", err)
	}
	for slug := range cfg.Extraction.Sources {
		src, err := types.ParseSource(slug)
		if err != nil {
			return cfg, fmt.Errorf("extraction.sources: %w", err)
		}
		if src.Slug() != slug {
			return cfg, fmt.Errorf("extraction.sources: use key %q for %s", src.Slug(), src)
		}
	}
	if len(cfg.Extraction.Sources) == 0 {
		return cfg, errors.New("extraction.sources: no sources configured")
	}
	return cfg, nil
}
