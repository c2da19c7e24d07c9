// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources implements one adapter per bibliographic provider. Each
// adapter issues retry-wrapped HTTP requests, feeds the items through the
// normalizer and returns a Batch. Adapters never return errors: every failure
// degrades to an empty (or shorter) batch and a logged warning.
package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/article-harvest/internal/httputil"
	"github.com/pdiddy/article-harvest/internal/normalize"
	"github.com/pdiddy/article-harvest/pkg/types"
)

// Adapter fetches one batch of records from a single provider.
type Adapter interface {
	// Source returns the provider this adapter stamps on every record.
	Source() types.Source

	// Fetch runs query, already written in the provider's syntax, and
	// returns at most maxResults records.
	Fetch(ctx context.Context, query string, maxResults int) types.Batch
}

// Deps holds the collaborators shared by every adapter.
type Deps struct {
	Client    *http.Client
	Policy    httputil.Policy
	Logger    zerolog.Logger
	UserAgent string
}

// New builds the adapter for src from its configuration.
func New(src types.Source, cfg types.SourceConfig, deps Deps) (Adapter, error) {
	b := newBase(src, cfg, deps)
	switch src {
	case types.SourcePubMed:
		return &PubMed{base: b}, nil
	case types.SourceScopus:
		return &Scopus{base: b}, nil
	case types.SourceWebOfScience:
		return &WebOfScience{base: b}, nil
	case types.SourceIEEEXplore:
		return &IEEEXplore{base: b}, nil
	case types.SourceGoogleScholar:
		return &GoogleScholar{base: b}, nil
	case types.SourceSciELO:
		return &SciELO{base: b}, nil
	default:
		return nil, fmt.Errorf("no adapter for source %q", src)
	}
}

// Enabled builds the adapters of every enabled source in pipeline order.
func Enabled(cfg types.ExtractionConfig, deps Deps) []Adapter {
	var out []Adapter
	for _, src := range types.AllSources {
		sc := cfg.Source(src)
		if !sc.Enabled {
			continue
		}
		a, err := New(src, sc, deps)
		if err != nil {
			deps.Logger.Warn().Err(err).Msg("skipping source")
			continue
		}
		out = append(out, a)
	}
	return out
}

// base carries the plumbing common to all adapters.
type base struct {
	src       types.Source
	cfg       types.SourceConfig
	client    *http.Client
	policy    httputil.Policy
	logger    zerolog.Logger
	userAgent string
}

func newBase(src types.Source, cfg types.SourceConfig, deps Deps) base {
	client := deps.Client
	if client == nil {
		client = http.DefaultClient
	}
	ua := deps.UserAgent
	if ua == "" {
		ua = types.DefaultUserAgent
	}
	return base{
		src:       src,
		cfg:       cfg,
		client:    client,
		policy:    deps.Policy,
		logger:    deps.Logger.With().Str("source", src.Slug()).Logger(),
		userAgent: ua,
	}
}

// Source returns the provider this adapter serves.
func (b *base) Source() types.Source { return b.src }

// getJSON performs a retry-wrapped GET and returns the decoded body when it
// carries key. ok is false once the policy is exhausted.
func (b *base) getJSON(ctx context.Context, call, rawURL string, header http.Header, key string) (map[string]any, bool) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		b.logger.Warn().Err(err).Str("call", call).Msg("building request")
		return nil, false
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", b.userAgent)
	req.Header.Set("Accept", "application/json")

	name := b.src.Slug() + "." + call
	return httputil.Do(ctx, b.policy, name, func(ctx context.Context) (map[string]any, error) {
		return httputil.GetJSON(ctx, b.client, req, key)
	})
}

// requireKey logs and reports false when the provider needs a key that is
// not configured.
func (b *base) requireKey() bool {
	if b.cfg.APIKey != "" {
		return true
	}
	b.logger.Warn().Msg("no API key configured, skipping source")
	return false
}

// normalizeItems maps list entries through the normalizer, skipping entries
// that are not JSON objects, and stops at maxResults.
func (b *base) normalizeItems(items []any, maxResults int) types.Batch {
	batch := make(types.Batch, 0, min(len(items), maxResults))
	for _, it := range items {
		if len(batch) >= maxResults {
			break
		}
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		batch = append(batch, normalize.Normalize(obj, b.src))
	}
	return batch
}

// limit resolves the effective result cap.
func (b *base) limit(maxResults int) int {
	if maxResults > 0 {
		return maxResults
	}
	if b.cfg.MaxResults > 0 {
		return b.cfg.MaxResults
	}
	return types.DefaultMaxResults
}

// warnEmpty logs the degraded outcome of a failed fetch.
func (b *base) warnEmpty(reason string) types.Batch {
	b.logger.Warn().Str("reason", reason).Msg("source returned no records")
	return types.Batch{}
}

// asList returns v as a JSON array, wrapping a lone object.
func asList(v any) []any {
	switch t := v.(type) {
	case []any:
		return t
	case map[string]any:
		return []any{t}
	default:
		return nil
	}
}

// child returns obj[key] as an object.
func child(obj map[string]any, key string) map[string]any {
	m, _ := obj[key].(map[string]any)
	return m
}

// splitIdentifiers splits a comma- or whitespace-separated identifier list.
func splitIdentifiers(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t' || r == '\r'
	})
}
