// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the article-harvest pipeline:
// the canonical article record, batches, and per-stage configuration.
package types

import (
	"fmt"
	"strings"
	"time"
)

// NotAvailable is the sentinel stored in text fields a provider did not supply.
const NotAvailable = "N/A"

// Source identifies the bibliographic database a record came from.
type Source string

const (
	SourcePubMed        Source = "PubMed"
	SourceScopus        Source = "Scopus"
	SourceWebOfScience  Source = "WebOfScience"
	SourceIEEEXplore    Source = "IEEEXplore"
	SourceGoogleScholar Source = "GoogleScholar"
	SourceSciELO        Source = "SciELO"
)

// AllSources lists every source in pipeline invocation order.
var AllSources = []Source{
	SourcePubMed,
	SourceScopus,
	SourceWebOfScience,
	SourceIEEEXplore,
	SourceGoogleScholar,
	SourceSciELO,
}

// Slug returns the short lowercase name used in file names and config keys.
func (s Source) Slug() string {
	switch s {
	case SourcePubMed:
		return "pubmed"
	case SourceScopus:
		return "scopus"
	case SourceWebOfScience:
		return "wos"
	case SourceIEEEXplore:
		return "ieee"
	case SourceGoogleScholar:
		return "scholar"
	case SourceSciELO:
		return "scielo"
	default:
		return strings.ToLower(string(s))
	}
}

// ParseSource maps a slug or display name to a Source.
func ParseSource(name string) (Source, error) {
	name = strings.TrimSpace(name)
	for _, s := range AllSources {
		if strings.EqualFold(name, s.Slug()) || strings.EqualFold(name, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown source %q", name)
}

// ArticleRecord is the canonical shape every provider response is mapped into.
// PubDate keeps the provider's native string until the transform stage.
type ArticleRecord struct {
	// ID is the provider-native identifier, or NotAvailable.
	ID string `json:"id" yaml:"id"`

	Title   string `json:"title" yaml:"title"`
	Journal string `json:"journal" yaml:"journal"`

	// Authors is a comma-space-joined list of display names.
	Authors string `json:"authors" yaml:"authors"`

	PubDate string `json:"pub_date" yaml:"pub_date"`
	Source  Source `json:"source" yaml:"source"`
}

// Batch is an ordered sequence of records sharing a common origin.
type Batch []ArticleRecord

// ProcessedRecord is a cleaned record with a parsed calendar publication date.
type ProcessedRecord struct {
	ID      string    `json:"id" yaml:"id"`
	Title   string    `json:"title" yaml:"title"`
	Journal string    `json:"journal" yaml:"journal"`
	Authors string    `json:"authors" yaml:"authors"`
	PubDate time.Time `json:"pub_date" yaml:"pub_date"`
	Source  Source    `json:"source" yaml:"source"`
}
