// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/article-harvest/internal/store"
	"github.com/pdiddy/article-harvest/pkg/types"
)

// ExportEntry is one article in an export file. Dates are written as
// YYYY-MM-DD.
type ExportEntry struct {
	ID      string       `json:"id" yaml:"id"`
	Title   string       `json:"title" yaml:"title"`
	Journal string       `json:"journal" yaml:"journal"`
	Authors []string     `json:"authors" yaml:"authors"`
	PubDate string       `json:"pub_date" yaml:"pub_date"`
	Source  types.Source `json:"source" yaml:"source"`
}

const exportLimit = 1000000

// ExportYAML writes matching articles to catalogDir/export.yaml and returns
// the path.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.catalogDir, "export.yaml")
	return path, store.WriteFile(path, data)
}

// ExportJSON writes matching articles to catalogDir/export.json and returns
// the path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.catalogDir, "export.json")
	return path, store.WriteFile(path, data)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	opts.MaxResults = exportLimit
	recs, err := s.Query(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(recs))
	for i, r := range recs {
		entries[i] = ExportEntry{
			ID:      r.ID,
			Title:   r.Title,
			Journal: r.Journal,
			Authors: SplitAuthors(r.Authors),
			PubDate: r.PubDate.Format(dateLayout),
			Source:  r.Source,
		}
	}
	return entries, nil
}
