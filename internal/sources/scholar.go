// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// scholarPageSize is the largest page SerpAPI's google_scholar engine serves.
const scholarPageSize = 20

// GoogleScholar queries Google Scholar through SerpAPI's JSON endpoint.
// Scholar has no official API.
type GoogleScholar struct {
	base
}

// Fetch runs query and returns up to maxResults organic results, paging
// through SerpAPI with start until the limit or a short page is reached.
func (g *GoogleScholar) Fetch(ctx context.Context, query string, maxResults int) types.Batch {
	query = strings.TrimSpace(query)
	if query == "" {
		return g.warnEmpty("empty query")
	}
	if !g.requireKey() {
		return types.Batch{}
	}
	limit := g.limit(maxResults)

	var items []any
	for len(items) < limit {
		num := min(limit-len(items), scholarPageSize)
		params := url.Values{
			"engine":  {"google_scholar"},
			"q":       {query},
			"num":     {strconv.Itoa(num)},
			"start":   {strconv.Itoa(len(items))},
			"api_key": {g.cfg.APIKey},
		}

		body, ok := g.getJSON(ctx, "search", baseURL(g.cfg, types.ScholarBaseURL)+"?"+params.Encode(), nil, "organic_results")
		if !ok {
			if len(items) == 0 {
				return g.warnEmpty("search failed")
			}
			g.logger.Warn().Int("start", len(items)).Msg("scholar page failed; keeping earlier pages")
			break
		}

		page := asList(body["organic_results"])
		items = append(items, page...)
		if len(page) < num {
			break
		}
	}

	batch := g.normalizeItems(items, limit)
	g.logger.Info().Int("records", len(batch)).Msg("scholar fetch complete")
	return batch
}
