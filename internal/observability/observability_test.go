// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/article-harvest/internal/httputil"
	"github.com/pdiddy/article-harvest/pkg/types"
)

// --- Logger ---

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(types.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info().Msg("hidden")
	runLogger := WithRun(logger, "run-1")
	runLogger.Warn().Str("source", "pubmed").Msg("shown")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "warn", entry["level"])
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(types.LoggingConfig{Format: "console"}, &buf)
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.NotContains(t, buf.String(), `"message"`)
}

// --- Metrics ---

func TestMetrics_InstrumentCountsFailures(t *testing.T) {
	m := NewMetrics("test")
	var forwarded int
	p := httputil.Policy{
		MaxAttempts: 3,
		Logger:      zerolog.Nop(),
		Sleep:       func(context.Context, time.Duration) error { return nil },
		OnFailure:   func(string, int, error) { forwarded++ },
	}
	p = m.Instrument(p)

	httputil.Do(context.Background(), p, "scopus.search", func(context.Context) (int, error) {
		return 0, errors.New("down")
	})

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestFailures.WithLabelValues("scopus", "search")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RetriesExhausted.WithLabelValues("scopus")))
	assert.Equal(t, 3, forwarded)
}

func TestMetrics_RecordAndWriteTextfile(t *testing.T) {
	m := NewMetrics("harvest")
	m.RecordFetch(types.SourcePubMed, 12, 2*time.Second)
	m.RecordFetch(types.SourceSciELO, 3, time.Second)
	m.RecordConsolidation(14, 1)

	assert.Equal(t, 12.0, testutil.ToFloat64(m.RecordsFetched.WithLabelValues("pubmed")))
	assert.Equal(t, 14.0, testutil.ToFloat64(m.RecordsConsolidated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DuplicatesRemoved))

	path := filepath.Join(t.TempDir(), "metrics", "harvest.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `harvest_source_records_fetched_total{source="scielo"} 3`)
	assert.Contains(t, string(data), "harvest_last_run_timestamp_seconds")
}

func TestSplitCall(t *testing.T) {
	src, call := splitCall("pubmed.esummary")
	assert.Equal(t, "pubmed", src)
	assert.Equal(t, "esummary", call)

	src, call = splitCall("bare")
	assert.Equal(t, "bare", src)
	assert.Empty(t, call)
}
