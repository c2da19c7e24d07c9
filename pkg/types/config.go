// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// HTTPConfig holds shared HTTP settings used by every source adapter.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// RetryConfig parameterizes the retry policy wrapped around every network call.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts per call (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=1"`

	// Delay is the constant wait between failed attempts (default 5s).
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay" validate:"gte=0"`
}

// SourceConfig holds the settings of one source adapter.
type SourceConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Query is already written in the provider's own query language.
	// For SciELO it is a list of article PIDs.
	Query string `json:"query" yaml:"query" mapstructure:"query"`

	// BaseURL is the provider search endpoint (for PubMed, the E-utilities root).
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url" validate:"omitempty,url"`

	// APIKey is opaque to the pipeline; each adapter places it where its provider expects.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// MaxResults overrides the extraction-wide MaxResults when positive.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"gte=0"`

	// RequestDelay separates per-identifier requests of two-phase providers.
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay" mapstructure:"request_delay" validate:"gte=0"`

	// Collection is the SciELO collection code (default "scl").
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty" mapstructure:"collection"`
}

// ExtractionConfig holds settings for the extract → consolidate stage.
type ExtractionConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	Retry RetryConfig `json:"retry" yaml:"retry" mapstructure:"retry"`

	// MaxResults is the default per-source result cap.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"gte=1"`

	// RawDir receives per-source raw files and the manifest.
	RawDir string `json:"raw_dir" yaml:"raw_dir" mapstructure:"raw_dir" validate:"required"`

	// ProcessedDir receives the combined raw corpus.
	ProcessedDir string `json:"processed_dir" yaml:"processed_dir" mapstructure:"processed_dir" validate:"required"`

	// Sources is keyed by Source.Slug().
	Sources map[string]SourceConfig `json:"sources" yaml:"sources" mapstructure:"sources" validate:"dive"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `json:"metrics_file,omitempty" yaml:"metrics_file,omitempty" mapstructure:"metrics_file"`
}

// Source returns the configuration for s, or a disabled zero value.
func (c ExtractionConfig) Source(s Source) SourceConfig {
	return c.Sources[s.Slug()]
}

// TransformConfig holds settings for the cleaning stage.
type TransformConfig struct {
	// Inputs are raw parquet files; missing ones are skipped.
	Inputs []string `json:"inputs" yaml:"inputs" mapstructure:"inputs" validate:"min=1"`

	// Output is the processed parquet file downstream readers open by fixed path.
	Output string `json:"output" yaml:"output" mapstructure:"output" validate:"required"`

	// DateLayouts are tried in order when parsing pub_date.
	DateLayouts []string `json:"date_layouts" yaml:"date_layouts" mapstructure:"date_layouts" validate:"min=1"`
}

// CatalogConfig holds settings for the SQLite corpus catalog.
type CatalogConfig struct {
	// CatalogDir contains catalog.db and exports.
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir" mapstructure:"catalog_dir" validate:"required"`

	// MaxResults is the default query limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"gte=0"`
}

// LoggingConfig selects the structured logger level and encoding.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"omitempty,oneof=json console pretty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Logging    LoggingConfig    `json:"logging" yaml:"logging" mapstructure:"logging"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction" mapstructure:"extraction"`
	Transform  TransformConfig  `json:"transform" yaml:"transform" mapstructure:"transform"`
	Catalog    CatalogConfig    `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
}

// Validate checks struct constraints on the whole configuration.
func (c PipelineConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
