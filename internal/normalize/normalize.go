// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize maps provider-specific response items into the canonical
// ArticleRecord. Every provider is described by an ordered table of candidate
// field paths; the first candidate that yields a non-empty value wins and
// absent fields become types.NotAvailable. All functions are pure.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// Path descends through nested JSON objects, one key per element.
type Path []string

// P builds a Path from dotted notation. Keys containing dots (none of the
// supported providers use them) must be built with a Path literal.
func P(dotted string) Path {
	return strings.Split(dotted, ".")
}

// AuthorRule locates an author field. A list value is flattened: string
// entries are taken as-is, object entries contribute the first non-empty
// NameKeys value. A string value is taken verbatim.
type AuthorRule struct {
	Path     Path
	NameKeys []string
}

// Mapping is the lookup table for one provider.
type Mapping struct {
	ID      []Path
	Title   []Path
	Journal []Path
	PubDate []Path
	Authors []AuthorRule

	// FormatDate rewrites the resolved date string. Nil leaves it unchanged.
	FormatDate func(string) string

	// Derive returns a copy of the raw item with computed keys added. Nil
	// means the raw item is used directly.
	Derive func(map[string]any) map[string]any
}

// Normalize maps one raw response item from src into an ArticleRecord. The
// record's Source is always src. Unknown sources yield an all-sentinel record.
func Normalize(raw map[string]any, src types.Source) types.ArticleRecord {
	m, ok := mappings[src]
	if !ok {
		return types.ArticleRecord{
			ID: types.NotAvailable, Title: types.NotAvailable, Journal: types.NotAvailable,
			Authors: types.NotAvailable, PubDate: types.NotAvailable, Source: src,
		}
	}
	return Apply(m, raw, src)
}

// Apply maps raw through an explicit mapping table.
func Apply(m Mapping, raw map[string]any, src types.Source) types.ArticleRecord {
	item := raw
	if m.Derive != nil {
		item = m.Derive(raw)
	}

	date := orSentinel(Lookup(item, m.PubDate))
	if m.FormatDate != nil && date != types.NotAvailable {
		date = m.FormatDate(date)
	}

	return types.ArticleRecord{
		ID:      orSentinel(Lookup(item, m.ID)),
		Title:   orSentinel(Lookup(item, m.Title)),
		Journal: orSentinel(Lookup(item, m.Journal)),
		Authors: orSentinel(Authors(item, m.Authors)),
		PubDate: date,
		Source:  src,
	}
}

// Lookup returns the text of the first candidate path present in item.
func Lookup(item map[string]any, candidates []Path) (string, bool) {
	for _, p := range candidates {
		v, ok := resolve(item, p)
		if !ok {
			continue
		}
		if s, ok := text(v); ok {
			return s, true
		}
	}
	return "", false
}

// Authors flattens the first matching author rule into "A, B, C".
func Authors(item map[string]any, rules []AuthorRule) (string, bool) {
	for _, r := range rules {
		v, ok := resolve(item, r.Path)
		if !ok {
			continue
		}
		var names []string
		switch t := v.(type) {
		case []any:
			for _, entry := range t {
				if name, ok := authorName(entry, r.NameKeys); ok {
					names = append(names, name)
				}
			}
		default:
			if s, ok := text(t); ok {
				names = append(names, s)
			}
		}
		if len(names) > 0 {
			return strings.Join(names, ", "), true
		}
	}
	return "", false
}

func authorName(entry any, keys []string) (string, bool) {
	obj, isObj := entry.(map[string]any)
	if !isObj {
		return scalar(entry)
	}
	for _, k := range keys {
		if s, ok := text(obj[k]); ok {
			return s, true
		}
	}
	return "", false
}

// resolve walks p through nested objects.
func resolve(item map[string]any, p Path) (any, bool) {
	var cur any = item
	for _, key := range p {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// text reduces a JSON value to a non-empty string. Lists yield their first
// element and objects their "_" member, the ISIS-JSON convention for a
// field's main subfield.
func text(v any) (string, bool) {
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return "", false
		}
		return text(t[0])
	case map[string]any:
		inner, ok := t["_"]
		if !ok {
			return "", false
		}
		return text(inner)
	default:
		return scalar(v)
	}
}

func scalar(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case int64:
		s = strconv.FormatInt(t, 10)
	case bool:
		return "", false
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func orSentinel(s string, ok bool) string {
	if !ok {
		return types.NotAvailable
	}
	return s
}
