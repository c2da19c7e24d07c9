// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// QueryOptions filters catalog queries. Zero fields do not filter.
type QueryOptions struct {
	Source types.Source
	Year   int

	// Title matches a case-insensitive substring.
	Title string

	// Author matches one author name exactly.
	Author string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Query returns matching articles ordered by date, newest first.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]types.ProcessedRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)
	qb.WriteString(`SELECT a.id, a.title, a.journal, a.authors, a.pub_date, a.source FROM articles a WHERE 1=1`)
	if opts.Source != "" {
		qb.WriteString(` AND a.source = ?`)
		args = append(args, string(opts.Source))
	}
	if opts.Year != 0 {
		qb.WriteString(` AND a.year = ?`)
		args = append(args, opts.Year)
	}
	if opts.Title != "" {
		qb.WriteString(` AND lower(a.title) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(opts.Title))+"%")
	}
	if opts.Author != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM article_authors w WHERE w.article_rowid = a.rowid AND w.name = ?)`)
		args = append(args, opts.Author)
	}
	qb.WriteString(` ORDER BY a.pub_date DESC, a.rowid LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var out []types.ProcessedRecord
	for rows.Next() {
		var (
			r      types.ProcessedRecord
			date   string
			source string
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Journal, &r.Authors, &date, &source); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		r.PubDate, err = time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parsing stored date %q: %w", date, err)
		}
		r.Source = types.Source(source)
		out = append(out, r)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
