// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-harvest/pkg/types"
)

func sampleBatch() types.Batch {
	return types.Batch{
		{ID: "1", Title: "Mobile apps, a review", Journal: "J Med", Authors: "Smith J, Doe A", PubDate: "2020 Jan 1", Source: types.SourcePubMed},
		{ID: "N/A", Title: `Quote "inside"`, Journal: "N/A", Authors: "N/A", PubDate: "2005-08", Source: types.SourceSciELO},
	}
}

// --- CSV ---

func TestCSV_WriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw", "pubmed_articles.csv")
	require.NoError(t, WriteCSV(path, sampleBatch()))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, sampleBatch(), got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id,title,journal,authors,pub_date,source\n")
}

func TestCSV_EmptyBatchWritesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, WriteCSV(path, nil))
	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestReadCSV_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,title\n1,x\n"), 0o644))
	_, err := ReadCSV(path)
	assert.ErrorContains(t, err, "journal")
}

// --- Parquet ---

func TestParquet_WriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all_articles.parquet")
	require.NoError(t, WriteParquet(path, sampleBatch()))

	got, err := ReadParquet(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, sampleBatch(), got)
}

func TestProcessedParquet_WriteRead(t *testing.T) {
	recs := []types.ProcessedRecord{
		{ID: "1", Title: "A", Journal: "J", Authors: "X", PubDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Source: types.SourcePubMed},
		{ID: "2", Title: "B", Journal: "K", Authors: "Y", PubDate: time.Date(2005, 8, 1, 0, 0, 0, 0, time.UTC), Source: types.SourceSciELO},
	}
	path := filepath.Join(t.TempDir(), "processed", "articles.parquet")
	require.NoError(t, WriteProcessedParquet(path, recs))

	got, err := ReadProcessedParquet(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, recs[0].ID, got[0].ID)
	assert.True(t, recs[1].PubDate.Equal(got[1].PubDate), "got %v", got[1].PubDate)
	assert.Equal(t, types.SourceSciELO, got[1].Source)
}

func TestReadProcessedParquet_RejectsRawFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.parquet")
	require.NoError(t, WriteParquet(path, sampleBatch()))
	_, err := ReadProcessedParquet(context.Background(), path)
	assert.ErrorContains(t, err, "date32")
}

func TestReadParquet_MissingFile(t *testing.T) {
	_, err := ReadParquet(context.Background(), filepath.Join(t.TempDir(), "absent.parquet"))
	assert.ErrorIs(t, err, ErrMissingFile)

	_, err = ReadProcessedParquet(context.Background(), filepath.Join(t.TempDir(), "absent.parquet"))
	assert.ErrorIs(t, err, ErrMissingFile)
}

// --- Atomic writes ---

func TestWrite_ReplacesExistingAndLeavesNoTemp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, WriteCSV(path, sampleBatch()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.csv", entries[0].Name())

	got, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	assert.False(t, Exists(path))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.True(t, Exists(path))
	assert.False(t, Exists(dir))
}
