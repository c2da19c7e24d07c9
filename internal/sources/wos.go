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

// WebOfScience queries the Clarivate Web of Science API.
type WebOfScience struct {
	base
}

// Fetch runs query and returns up to maxResults records.
func (w *WebOfScience) Fetch(ctx context.Context, query string, maxResults int) types.Batch {
	query = strings.TrimSpace(query)
	if query == "" {
		return w.warnEmpty("empty query")
	}
	if !w.requireKey() {
		return types.Batch{}
	}
	limit := w.limit(maxResults)

	params := url.Values{
		"databaseId":  {"WOS"},
		"usrQuery":    {query},
		"count":       {strconv.Itoa(limit)},
		"firstRecord": {"1"},
	}
	header := http.Header{"X-ApiKey": {w.cfg.APIKey}}

	body, ok := w.getJSON(ctx, "query", baseURL(w.cfg, types.WoSBaseURL)+"?"+params.Encode(), header, "Data")
	if !ok {
		return w.warnEmpty("query failed")
	}

	batch := w.normalizeItems(wosRecords(body), limit)
	w.logger.Info().Int("records", len(batch)).Msg("wos fetch complete")
	return batch
}

// wosRecords finds the record list under Data. The expanded API nests it as
// Data.Records.records.REC; the flat shape keeps a list at Data.Records.
func wosRecords(body map[string]any) []any {
	data := child(body, "Data")
	switch recs := data["Records"].(type) {
	case []any:
		return recs
	case map[string]any:
		return asList(child(recs, "records")["REC"])
	default:
		return nil
	}
}
