// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/pdiddy/article-harvest/pkg/types"
)

// RawSchema describes raw and combined files; pub_date keeps the provider's
// native string.
var RawSchema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.BinaryTypes.String},
	{Name: "title", Type: arrow.BinaryTypes.String},
	{Name: "journal", Type: arrow.BinaryTypes.String},
	{Name: "authors", Type: arrow.BinaryTypes.String},
	{Name: "pub_date", Type: arrow.BinaryTypes.String},
	{Name: "source", Type: arrow.BinaryTypes.String},
}, nil)

// ProcessedSchema describes the processed file; pub_date is a calendar date.
var ProcessedSchema = arrow.NewSchema([]arrow.Field{
	{Name: "id", Type: arrow.BinaryTypes.String},
	{Name: "title", Type: arrow.BinaryTypes.String},
	{Name: "journal", Type: arrow.BinaryTypes.String},
	{Name: "authors", Type: arrow.BinaryTypes.String},
	{Name: "pub_date", Type: arrow.FixedWidthTypes.Date32},
	{Name: "source", Type: arrow.BinaryTypes.String},
}, nil)

// readBatchRows bounds the record size produced while scanning a table.
const readBatchRows = 4096

// WriteParquet writes batch to path using RawSchema.
func WriteParquet(path string, batch types.Batch) error {
	return writeRecord(path, RawSchema, func(b *array.RecordBuilder) {
		for _, r := range batch {
			appendStrings(b, r.ID, r.Title, r.Journal, r.Authors)
			b.Field(4).(*array.StringBuilder).Append(r.PubDate)
			b.Field(5).(*array.StringBuilder).Append(string(r.Source))
		}
	})
}

// WriteProcessedParquet writes recs to path using ProcessedSchema.
func WriteProcessedParquet(path string, recs []types.ProcessedRecord) error {
	return writeRecord(path, ProcessedSchema, func(b *array.RecordBuilder) {
		for _, r := range recs {
			appendStrings(b, r.ID, r.Title, r.Journal, r.Authors)
			b.Field(4).(*array.Date32Builder).Append(arrow.Date32FromTime(r.PubDate))
			b.Field(5).(*array.StringBuilder).Append(string(r.Source))
		}
	})
}

func appendStrings(b *array.RecordBuilder, id, title, journal, authors string) {
	b.Field(0).(*array.StringBuilder).Append(id)
	b.Field(1).(*array.StringBuilder).Append(title)
	b.Field(2).(*array.StringBuilder).Append(journal)
	b.Field(3).(*array.StringBuilder).Append(authors)
}

func writeRecord(path string, schema *arrow.Schema, fill func(*array.RecordBuilder)) error {
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	fill(b)
	rec := b.NewRecord()
	defer rec.Release()

	return writeAtomic(path, func(w io.Writer) error {
		props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
		fw, err := pqarrow.NewFileWriter(schema, w, props, pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema()))
		if err != nil {
			return fmt.Errorf("creating parquet writer: %w", err)
		}
		if err := fw.Write(rec); err != nil {
			fw.Close()
			return fmt.Errorf("writing parquet %s: %w", path, err)
		}
		if err := fw.Close(); err != nil {
			return fmt.Errorf("finalizing parquet %s: %w", path, err)
		}
		return nil
	})
}

// ReadParquet reads a raw or combined file into a Batch.
func ReadParquet(ctx context.Context, path string) (types.Batch, error) {
	batch := types.Batch{}
	err := scan(ctx, path, func(rec arrow.Record, cols columnSet) error {
		dates, ok := rec.Column(cols.pubDate).(stringValues)
		if !ok {
			return fmt.Errorf("parquet %s: pub_date is %s, want string", path, rec.Column(cols.pubDate).DataType())
		}
		for i := 0; i < int(rec.NumRows()); i++ {
			batch = append(batch, types.ArticleRecord{
				ID:      cols.str(rec, cols.id, i),
				Title:   cols.str(rec, cols.title, i),
				Journal: cols.str(rec, cols.journal, i),
				Authors: cols.str(rec, cols.authors, i),
				PubDate: valueAt(dates, i),
				Source:  types.Source(cols.str(rec, cols.source, i)),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batch, nil
}

// ReadProcessedParquet reads the processed file. Rows with a null date are
// skipped.
func ReadProcessedParquet(ctx context.Context, path string) ([]types.ProcessedRecord, error) {
	var out []types.ProcessedRecord
	err := scan(ctx, path, func(rec arrow.Record, cols columnSet) error {
		dates, ok := rec.Column(cols.pubDate).(*array.Date32)
		if !ok {
			return fmt.Errorf("parquet %s: pub_date is %s, want date32", path, rec.Column(cols.pubDate).DataType())
		}
		for i := 0; i < int(rec.NumRows()); i++ {
			if dates.IsNull(i) {
				continue
			}
			out = append(out, types.ProcessedRecord{
				ID:      cols.str(rec, cols.id, i),
				Title:   cols.str(rec, cols.title, i),
				Journal: cols.str(rec, cols.journal, i),
				Authors: cols.str(rec, cols.authors, i),
				PubDate: dates.Value(i).ToTime(),
				Source:  types.Source(cols.str(rec, cols.source, i)),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// stringValues is satisfied by both String and LargeString arrays.
type stringValues interface {
	Value(i int) string
	IsNull(i int) bool
}

func valueAt(a stringValues, i int) string {
	if a.IsNull(i) {
		return ""
	}
	return a.Value(i)
}

// columnSet holds column positions resolved by name.
type columnSet struct {
	id, title, journal, authors, pubDate, source int
}

func (c columnSet) str(rec arrow.Record, col, row int) string {
	a, ok := rec.Column(col).(stringValues)
	if !ok {
		return ""
	}
	return valueAt(a, row)
}

func resolveColumns(schema *arrow.Schema) (columnSet, error) {
	pos := make([]int, len(Columns))
	for i, name := range Columns {
		idx := schema.FieldIndices(name)
		if len(idx) == 0 {
			return columnSet{}, fmt.Errorf("column %q not found", name)
		}
		pos[i] = idx[0]
	}
	return columnSet{id: pos[0], title: pos[1], journal: pos[2], authors: pos[3], pubDate: pos[4], source: pos[5]}, nil
}

// scan reads the whole file at path and calls fn per record batch.
func scan(ctx context.Context, path string, fn func(arrow.Record, columnSet) error) error {
	f, err := openInput(path)
	if err != nil {
		return err
	}
	defer f.Close()

	mem := memory.DefaultAllocator
	tbl, err := pqarrow.ReadTable(ctx, f, parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return fmt.Errorf("reading parquet %s: %w", path, err)
	}
	defer tbl.Release()

	cols, err := resolveColumns(tbl.Schema())
	if err != nil {
		return fmt.Errorf("parquet %s: %w", path, err)
	}

	tr := array.NewTableReader(tbl, readBatchRows)
	defer tr.Release()
	for tr.Next() {
		if err := fn(tr.Record(), cols); err != nil {
			return err
		}
	}
	return tr.Err()
}
