// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"time"
)

const (
	DefaultMaxResults   = 50
	DefaultMaxAttempts  = 3
	DefaultRetryDelay   = 5 * time.Second
	DefaultTimeout      = 10 * time.Second
	DefaultRequestDelay = 400 * time.Millisecond
	DefaultUserAgent    = "article-harvest/0.1"
)

// Default provider endpoints.
const (
	PubMedBaseURL  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	ScopusBaseURL  = "https://api.elsevier.com/content/search/scopus"
	WoSBaseURL     = "https://wos-api.clarivate.com/api/wos/query"
	IEEEBaseURL    = "https://ieeexploreapi.ieee.org/api/v1/search/articles"
	ScholarBaseURL = "https://serpapi.com/search"
	SciELOBaseURL  = "http://articlemeta.scielo.org/api/v1/article/"
)

// DefaultDateLayouts are the publication date encodings the transform stage accepts.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006 Jan 2",
	"2006 Jan",
	"2006",
}

// DefaultPipelineConfig returns the configuration used when no config file
// overrides a value. The queries are the health-app search strategy written in
// each provider's own syntax.
func DefaultPipelineConfig() PipelineConfig {
	rawDir := filepath.Join("data", "raw")
	processedDir := filepath.Join("data", "processed")

	return PipelineConfig{
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Extraction: ExtractionConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   DefaultTimeout,
				UserAgent: DefaultUserAgent,
			},
			Retry: RetryConfig{
				MaxAttempts: DefaultMaxAttempts,
				Delay:       DefaultRetryDelay,
			},
			MaxResults:   DefaultMaxResults,
			RawDir:       rawDir,
			ProcessedDir: processedDir,
			Sources: map[string]SourceConfig{
				SourcePubMed.Slug(): {
					Enabled:      true,
					Query:        `("mobile applications"[Title/Abstract] OR "health apps"[Title/Abstract]) AND ("data analysis"[Title/Abstract])`,
					BaseURL:      PubMedBaseURL,
					RequestDelay: DefaultRequestDelay,
				},
				SourceScopus.Slug(): {
					Enabled: true,
					Query:   `TITLE-ABS-KEY(("mobile applications" OR "health apps") AND ("data analysis"))`,
					BaseURL: ScopusBaseURL,
				},
				SourceWebOfScience.Slug(): {
					Enabled: true,
					Query:   `TS=("mobile applications" OR "health apps") AND TS=("data analysis")`,
					BaseURL: WoSBaseURL,
				},
				SourceIEEEXplore.Slug(): {
					Enabled: true,
					Query:   "mobile applications AND health education AND data analysis",
					BaseURL: IEEEBaseURL,
				},
				SourceGoogleScholar.Slug(): {
					Enabled: true,
					Query:   `"mobile applications" "health education" "data analysis"`,
					BaseURL: ScholarBaseURL,
				},
				SourceSciELO.Slug(): {
					Enabled:      true,
					Query:        "S0103-40142005000200002 S0103-40142005000200003 S0103-40142005000200004",
					BaseURL:      SciELOBaseURL,
					RequestDelay: DefaultRequestDelay,
					Collection:   "scl",
				},
			},
		},
		Transform: TransformConfig{
			Inputs: []string{
				RawFilePath(rawDir, SourcePubMed, "parquet"),
				RawFilePath(rawDir, SourceSciELO, "parquet"),
			},
			Output:      filepath.Join(processedDir, "articles.parquet"),
			DateLayouts: DefaultDateLayouts,
		},
		Catalog: CatalogConfig{
			CatalogDir: filepath.Join("data", "catalog"),
			MaxResults: 20,
		},
	}
}

// RawFilePath returns the per-source raw file path for the given extension.
func RawFilePath(rawDir string, s Source, ext string) string {
	return filepath.Join(rawDir, s.Slug()+"_articles."+ext)
}

// CombinedFilePath returns the consolidated raw corpus path for the given extension.
func CombinedFilePath(processedDir, ext string) string {
	return filepath.Join(processedDir, "all_articles."+ext)
}
