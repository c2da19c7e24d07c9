// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/url"

	"github.com/pdiddy/article-harvest/internal/normalize"
	"github.com/pdiddy/article-harvest/pkg/types"
)

// defaultSciELOCollection is the Brazilian collection code.
const defaultSciELOCollection = "scl"

// SciELO fetches articles from the ArticleMeta API one PID at a time. Its
// query is a comma- or space-separated list of article PIDs.
type SciELO struct {
	base
}

// Fetch retrieves each PID in query, up to maxResults. A PID that fails
// after retries is skipped.
func (s *SciELO) Fetch(ctx context.Context, query string, maxResults int) types.Batch {
	pids := splitIdentifiers(query)
	if len(pids) == 0 {
		return s.warnEmpty("no PIDs in query")
	}
	limit := s.limit(maxResults)
	if len(pids) > limit {
		pids = pids[:limit]
	}

	collection := s.cfg.Collection
	if collection == "" {
		collection = defaultSciELOCollection
	}

	pace := newPacer(s.cfg.RequestDelay)
	batch := make(types.Batch, 0, len(pids))
	for _, pid := range pids {
		if err := pace.Wait(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("article loop interrupted")
			break
		}
		params := url.Values{"code": {pid}, "collection": {collection}}
		body, ok := s.getJSON(ctx, "article", baseURL(s.cfg, types.SciELOBaseURL)+"?"+params.Encode(), nil, "article")
		pace.Done()
		if !ok {
			s.logger.Warn().Str("pid", pid).Msg("skipping PID")
			continue
		}
		batch = append(batch, normalize.Normalize(withCode(body, pid), s.src))
	}

	s.logger.Info().Int("pids", len(pids)).Int("records", len(batch)).Msg("scielo fetch complete")
	return batch
}

// withCode returns body with a top-level "code" so the record id is always
// the requested PID.
func withCode(body map[string]any, pid string) map[string]any {
	if c, ok := body["code"].(string); ok && c != "" {
		return body
	}
	out := make(map[string]any, len(body)+1)
	for k, v := range body {
		out[k] = v
	}
	out["code"] = pid
	return out
}
