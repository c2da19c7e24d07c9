// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
)

// topN bounds the journal and author rankings.
const topN = 10

// Count is one row of a grouped tally.
type Count struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// Stats summarizes the indexed corpus.
type Stats struct {
	Total          int     `json:"total" yaml:"total"`
	UniqueSources  int     `json:"unique_sources" yaml:"unique_sources"`
	UniqueJournals int     `json:"unique_journals" yaml:"unique_journals"`
	UniqueAuthors  int     `json:"unique_authors" yaml:"unique_authors"`
	BySource       []Count `json:"by_source" yaml:"by_source"`
	ByYear         []Count `json:"by_year" yaml:"by_year"`
	TopJournals    []Count `json:"top_journals" yaml:"top_journals"`
	TopAuthors     []Count `json:"top_authors" yaml:"top_authors"`
}

// Stats computes corpus totals and rankings.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*), count(DISTINCT source), count(DISTINCT journal),
			(SELECT count(DISTINCT name) FROM article_authors)
		 FROM articles`,
	).Scan(&st.Total, &st.UniqueSources, &st.UniqueJournals, &st.UniqueAuthors)
	if err != nil {
		return Stats{}, fmt.Errorf("counting articles: %w", err)
	}

	groups := []struct {
		dst   *[]Count
		query string
	}{
		{&st.BySource, `SELECT source, count(*) AS n FROM articles GROUP BY source ORDER BY n DESC, source`},
		{&st.ByYear, `SELECT CAST(year AS TEXT), count(*) FROM articles GROUP BY year ORDER BY year`},
		{&st.TopJournals, fmt.Sprintf(`SELECT journal, count(*) AS n FROM articles GROUP BY journal ORDER BY n DESC, journal LIMIT %d`, topN)},
		{&st.TopAuthors, fmt.Sprintf(`SELECT name, count(*) AS n FROM article_authors GROUP BY name ORDER BY n DESC, name LIMIT %d`, topN)},
	}
	for _, g := range groups {
		counts, err := s.counts(ctx, g.query)
		if err != nil {
			return Stats{}, err
		}
		*g.dst = counts
	}
	return st, nil
}

func (s *Store) counts(ctx context.Context, query string) ([]Count, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("grouping articles: %w", err)
	}
	defer rows.Close()

	var out []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
