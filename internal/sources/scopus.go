// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// Scopus queries the Elsevier Scopus Search API.
type Scopus struct {
	base
}

// Fetch runs query and returns up to maxResults entries. Scopus reports an
// empty result set as a single entry carrying an "error" member; that entry
// yields no record.
func (s *Scopus) Fetch(ctx context.Context, query string, maxResults int) types.Batch {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.warnEmpty("empty query")
	}
	if !s.requireKey() {
		return types.Batch{}
	}
	limit := s.limit(maxResults)

	params := url.Values{
		"query":      {query},
		"count":      {strconv.Itoa(limit)},
		"start":      {"0"},
		"httpAccept": {"application/json"},
	}
	header := http.Header{"X-ELS-APIKey": {s.cfg.APIKey}}

	body, ok := s.getJSON(ctx, "search", baseURL(s.cfg, types.ScopusBaseURL)+"?"+params.Encode(), header, "search-results")
	if !ok {
		return s.warnEmpty("search failed")
	}

	var entries []any
	for _, e := range asList(child(body, "search-results")["entry"]) {
		if obj, ok := e.(map[string]any); ok {
			if _, isErr := obj["error"]; isErr {
				continue
			}
		}
		entries = append(entries, e)
	}

	batch := s.normalizeItems(entries, limit)
	s.logger.Info().Int("records", len(batch)).Msg("scopus fetch complete")
	return batch
}

// baseURL returns the configured endpoint or the provider default.
func baseURL(cfg types.SourceConfig, fallback string) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	return fallback
}
