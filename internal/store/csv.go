// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// WriteCSV writes batch to path with a header row.
func WriteCSV(path string, batch types.Batch) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(Columns); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
		for _, r := range batch {
			row := []string{r.ID, r.Title, r.Journal, r.Authors, r.PubDate, string(r.Source)}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing CSV row %s: %w", r.ID, err)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return fmt.Errorf("flushing CSV: %w", err)
		}
		return nil
	})
}

// ReadCSV reads a batch written by WriteCSV. Columns are matched by header
// name, so extra columns are ignored.
func ReadCSV(path string) (types.Batch, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header of %s: %w", path, err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("CSV %s lacks column %q", path, c)
		}
	}

	batch := types.Batch{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV %s: %w", path, err)
		}
		batch = append(batch, types.ArticleRecord{
			ID:      row[idx["id"]],
			Title:   row[idx["title"]],
			Journal: row[idx["journal"]],
			Authors: row[idx["authors"]],
			PubDate: row[idx["pub_date"]],
			Source:  types.Source(row[idx["source"]]),
		})
	}
	return batch, nil
}
