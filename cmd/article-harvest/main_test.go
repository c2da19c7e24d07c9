// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// --- config ---

func TestLoadConfig_DefaultsRoundTrip(t *testing.T) {
	v := viper.New()
	setDefaults(v, types.DefaultPipelineConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	want := types.DefaultPipelineConfig()
	assert.Equal(t, want.Extraction.MaxResults, cfg.Extraction.MaxResults)
	assert.Equal(t, want.Extraction.Retry, cfg.Extraction.Retry)
	assert.Equal(t, want.Transform.Output, cfg.Transform.Output)
	assert.Len(t, cfg.Extraction.Sources, len(types.AllSources))
	assert.Equal(t, "scl", cfg.Extraction.Sources["scielo"].Collection)
}

func TestLoadConfig_OverrideKeepsSiblings(t *testing.T) {
	v := viper.New()
	setDefaults(v, types.DefaultPipelineConfig())
	v.Set("extraction.max_results", 25)
	v.Set("extraction.sources.scopus.enabled", false)
	v.Set("extraction.retry.delay", "2s")

	cfg, err := loadConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Extraction.MaxResults)
	assert.Equal(t, 2*time.Second, cfg.Extraction.Retry.Delay)
	assert.False(t, cfg.Extraction.Sources["scopus"].Enabled)
	assert.NotEmpty(t, cfg.Extraction.Sources["scopus"].Query)
	assert.Equal(t, types.ScopusBaseURL, cfg.Extraction.Sources["scopus"].BaseURL)
}

func TestLoadConfig_RejectsUnknownSource(t *testing.T) {
	v := viper.New()
	setDefaults(v, types.DefaultPipelineConfig())
	v.Set("extraction.sources.arxiv.enabled", true)

	_, err := loadConfig(v)
	assert.ErrorContains(t, err, "unknown source")
}

func TestLoadConfig_NoSources(t *testing.T) {
	_, err := loadConfig(viper.New())
	assert.ErrorContains(t, err, "no sources configured")
}

// --- flags ---

func TestRestrictSources(t *testing.T) {
	all := types.DefaultPipelineConfig().Extraction.Sources

	got, err := restrictSources(all, []string{"PubMed", "wos"})
	require.NoError(t, err)

	for slug, sc := range got {
		want := slug == "pubmed" || slug == "wos"
		assert.Equal(t, want, sc.Enabled, slug)
	}
	assert.True(t, all["scopus"].Enabled, "input map must not change")

	_, err = restrictSources(all, []string{"arxiv"})
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}
