// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package transform

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-harvest/internal/store"
	"github.com/pdiddy/article-harvest/pkg/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// --- CleanText ---

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  padded  ", "padded"},
		{"line\nbreak", "line break"},
		{"crlf\r\nbreak\rhere", "crlf break here"},
		{"Effects of <i>in vivo</i> apps", "Effects of in vivo apps"},
		{"H<sub>2</sub>O &amp; health", "H2O & health"},
		{"p < 0.05 in trials", "p < 0.05 in trials"},
		{"BMI<Obesity in teens", "BMI<Obesity in teens"},
		{"Scores where a <b and c", "Scores where a <b and c"},
		{"x<3 apps", "x<3 apps"},
		{"Apps <!-- draft --> for care", "Apps <!-- draft --> for care"},
		{`Use of <span class="x">apps</span>`, `Use of <span class="x">apps</span>`},
		{"<title>Head</title> body", "<title>Head</title> body"},
		{"<I>Mixed</I> case", "Mixed case"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in), "input %q", tt.in)
	}
}

// --- ParseDate ---

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2020-03-15", day(2020, 3, 15), true},
		{"2005-08", day(2005, 8, 1), true},
		{"2020 Jan 5", day(2020, 1, 5), true},
		{"2019 Dec", day(2019, 12, 1), true},
		{"2022", day(2022, 1, 1), true},
		{"2020 Jan-Feb", day(2020, 1, 1), true},
		{" 2021-06-01 ", day(2021, 6, 1), true},
		{"not-a-date", time.Time{}, false},
		{"N/A", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in, types.DefaultDateLayouts)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

// --- Clean ---

func TestClean_DropsInvalidDate(t *testing.T) {
	batch := types.Batch{
		{ID: "1", Title: "A", Journal: "J", Authors: "X", PubDate: "2020-01-01", Source: types.SourcePubMed},
		{ID: "2", Title: "B", Journal: "J", Authors: "Y", PubDate: "not-a-date", Source: types.SourcePubMed},
	}
	recs, rep := Clean(batch, types.DefaultDateLayouts)
	require.Len(t, recs, 1)
	assert.Equal(t, "1", recs[0].ID)
	assert.Equal(t, 1, rep.InvalidDate)
	assert.Equal(t, Report{Input: 2, InvalidDate: 1, Output: 1}, rep)
}

func TestClean_TitleUniqueness(t *testing.T) {
	batch := types.Batch{
		{ID: "1", Title: "Health Apps Review", Journal: "J", Authors: "X", PubDate: "2020", Source: types.SourcePubMed},
		{ID: "2", Title: "  health   apps\nreview ", Journal: "K", Authors: "Y", PubDate: "2021", Source: types.SourceSciELO},
		{ID: "3", Title: "Other", Journal: "K", Authors: "Y", PubDate: "2021", Source: types.SourceSciELO},
	}
	recs, rep := Clean(batch, types.DefaultDateLayouts)
	require.Len(t, recs, 2)
	assert.Equal(t, "1", recs[0].ID)
	assert.Equal(t, "3", recs[1].ID)
	assert.Equal(t, 1, rep.Duplicate)

	keys := map[string]bool{}
	for _, r := range recs {
		k := TitleKey(r.Title)
		assert.False(t, keys[k], "duplicate title key %q", k)
		keys[k] = true
	}
}

func TestClean_MissingFields(t *testing.T) {
	batch := types.Batch{
		{ID: "1", Title: " ", Journal: "J", Authors: "X", PubDate: "2020"},
		{ID: "2", Title: "N/A", Journal: "J", Authors: "X", PubDate: "2020"},
		{ID: "3", Title: "T", Journal: "", Authors: "X", PubDate: "2020"},
		{ID: "4", Title: "T2", Journal: "N/A", Authors: "N/A", PubDate: "2020"},
	}
	recs, rep := Clean(batch, types.DefaultDateLayouts)
	require.Len(t, recs, 1)
	assert.Equal(t, "4", recs[0].ID)
	assert.Equal(t, 3, rep.MissingField)
}

func TestClean_CleansTextAndKeepsInput(t *testing.T) {
	batch := types.Batch{
		{ID: " 7 ", Title: "<b>Bold</b>\ntitle", Journal: " J ", Authors: "A,\r\nB", PubDate: "2020 Mar 3", Source: types.SourceIEEEXplore},
	}
	orig := batch[0]
	recs, _ := Clean(batch, types.DefaultDateLayouts)
	require.Len(t, recs, 1)
	assert.Equal(t, types.ProcessedRecord{
		ID: "7", Title: "Bold title", Journal: "J", Authors: "A, B",
		PubDate: day(2020, 3, 3), Source: types.SourceIEEEXplore,
	}, recs[0])
	assert.Equal(t, orig, batch[0])
}

// --- Run ---

func TestRun_ToleratesMissingInputs(t *testing.T) {
	dir := t.TempDir()
	pubmed := filepath.Join(dir, "pubmed_articles.parquet")
	scielo := filepath.Join(dir, "scielo_articles.parquet")
	out := filepath.Join(dir, "processed", "articles.parquet")

	require.NoError(t, store.WriteParquet(pubmed, types.Batch{
		{ID: "1", Title: "A", Journal: "J", Authors: "X", PubDate: "2020 Jan 2", Source: types.SourcePubMed},
		{ID: "2", Title: "a", Journal: "J", Authors: "X", PubDate: "2020", Source: types.SourcePubMed},
		{ID: "3", Title: "C", Journal: "J", Authors: "X", PubDate: "bad", Source: types.SourcePubMed},
	}))

	sum, err := Run(context.Background(), types.TransformConfig{
		Inputs: []string{pubmed, scielo},
		Output: out,
	}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{pubmed}, sum.Read)
	assert.Equal(t, []string{scielo}, sum.Missing)
	assert.Equal(t, Report{Input: 3, InvalidDate: 1, Duplicate: 1, Output: 1}, sum.Report)

	recs, err := store.ReadProcessedParquet(context.Background(), out)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, day(2020, 1, 2).Equal(recs[0].PubDate))
}

func TestRun_NoInputs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "articles.parquet")
	_, err := Run(context.Background(), types.TransformConfig{
		Inputs: []string{filepath.Join(dir, "absent.parquet")},
		Output: out,
	}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoInput)
	assert.False(t, store.Exists(out))
}
