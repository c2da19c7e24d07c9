// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// IEEEXplore queries the IEEE Xplore Metadata Search API.
type IEEEXplore struct {
	base
}

// Fetch runs query and returns up to maxResults articles.
func (x *IEEEXplore) Fetch(ctx context.Context, query string, maxResults int) types.Batch {
	query = strings.TrimSpace(query)
	if query == "" {
		return x.warnEmpty("empty query")
	}
	if !x.requireKey() {
		return types.Batch{}
	}
	limit := x.limit(maxResults)

	params := url.Values{
		"apikey":      {x.cfg.APIKey},
		"format":      {"json"},
		"max_records": {strconv.Itoa(limit)},
		"querytext":   {query},
	}

	body, ok := x.getJSON(ctx, "search", baseURL(x.cfg, types.IEEEBaseURL)+"?"+params.Encode(), nil, "articles")
	if !ok {
		return x.warnEmpty("search failed")
	}

	batch := x.normalizeItems(asList(body["articles"]), limit)
	x.logger.Info().Int("records", len(batch)).Msg("ieee fetch complete")
	return batch
}
