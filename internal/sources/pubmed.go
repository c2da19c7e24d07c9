// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/article-harvest/internal/normalize"
	"github.com/pdiddy/article-harvest/pkg/types"
)

// PubMed queries NCBI E-utilities in two phases: esearch returns matching
// PMIDs, then one esummary request per PMID returns its metadata.
type PubMed struct {
	base
}

// Fetch runs an esearch for query and summarizes up to maxResults PMIDs.
// A failed esummary drops only that PMID.
func (p *PubMed) Fetch(ctx context.Context, query string, maxResults int) types.Batch {
	query = strings.TrimSpace(query)
	if query == "" {
		return p.warnEmpty("empty query")
	}
	limit := p.limit(maxResults)

	ids, ok := p.search(ctx, query, limit)
	if !ok {
		return p.warnEmpty("esearch failed")
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	pace := newPacer(p.cfg.RequestDelay)
	batch := make(types.Batch, 0, len(ids))
	for _, id := range ids {
		if err := pace.Wait(ctx); err != nil {
			p.logger.Warn().Err(err).Msg("esummary loop interrupted")
			break
		}
		item, ok := p.summary(ctx, id)
		pace.Done()
		if !ok {
			p.logger.Warn().Str("pmid", id).Msg("skipping PMID without summary")
			continue
		}
		batch = append(batch, normalize.Normalize(item, p.src))
	}

	p.logger.Info().Int("ids", len(ids)).Int("records", len(batch)).Msg("pubmed fetch complete")
	return batch
}

func (p *PubMed) search(ctx context.Context, query string, limit int) ([]string, bool) {
	params := p.params()
	params.Set("term", query)
	params.Set("retmax", strconv.Itoa(limit))

	body, ok := p.getJSON(ctx, "esearch", p.endpoint("esearch.fcgi", params), nil, "esearchresult")
	if !ok {
		return nil, false
	}

	var ids []string
	for _, v := range asList(child(body, "esearchresult")["idlist"]) {
		if s, ok := v.(string); ok && s != "" {
			ids = append(ids, s)
		}
	}
	return ids, true
}

func (p *PubMed) summary(ctx context.Context, id string) (map[string]any, bool) {
	params := p.params()
	params.Set("id", id)

	body, ok := p.getJSON(ctx, "esummary", p.endpoint("esummary.fcgi", params), nil, "result")
	if !ok {
		return nil, false
	}
	item := child(child(body, "result"), id)
	if item == nil {
		return nil, false
	}
	if _, has := item["uid"]; !has {
		withID := make(map[string]any, len(item)+1)
		for k, v := range item {
			withID[k] = v
		}
		withID["uid"] = id
		item = withID
	}
	return item, true
}

func (p *PubMed) params() url.Values {
	v := url.Values{
		"db":      {"pubmed"},
		"retmode": {"json"},
	}
	if p.cfg.APIKey != "" {
		v.Set("api_key", p.cfg.APIKey)
	}
	return v
}

func (p *PubMed) endpoint(tool string, params url.Values) string {
	root := p.cfg.BaseURL
	if root == "" {
		root = types.PubMedBaseURL
	}
	return strings.TrimRight(root, "/") + "/" + tool + "?" + params.Encode()
}
