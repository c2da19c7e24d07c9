// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdiddy/article-harvest/internal/httputil"
	"github.com/pdiddy/article-harvest/pkg/types"
)

// Metrics holds the counters of one extraction run. Each Metrics owns its
// registry, so runs and tests never collide on the default one.
type Metrics struct {
	Registry *prometheus.Registry

	// RecordsFetched counts records returned per source.
	RecordsFetched *prometheus.CounterVec

	// RequestFailures counts failed attempts per source and call.
	RequestFailures *prometheus.CounterVec

	// RetriesExhausted counts calls that used up every attempt, per source.
	RetriesExhausted *prometheus.CounterVec

	// DuplicatesRemoved counts records dropped by id deduplication.
	DuplicatesRemoved prometheus.Counter

	// RecordsConsolidated is the size of the combined corpus.
	RecordsConsolidated prometheus.Gauge

	// FetchDuration observes per-source fetch time in seconds.
	FetchDuration *prometheus.HistogramVec

	// LastRun is the Unix time the run finished.
	LastRun prometheus.Gauge
}

// NewMetrics registers the run metrics under namespace on a fresh registry.
func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RecordsFetched: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "records_fetched_total",
			Help:      "Records returned by each source adapter.",
		}, []string{"source"}),
		RequestFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "request_failures_total",
			Help:      "Failed request attempts, including ones later retried.",
		}, []string{"source", "call"}),
		RetriesExhausted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "retries_exhausted_total",
			Help:      "Calls that failed on every attempt.",
		}, []string{"source"}),
		DuplicatesRemoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "consolidate",
			Name:      "duplicates_removed_total",
			Help:      "Records dropped because their id was already seen.",
		}),
		RecordsConsolidated: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "consolidate",
			Name:      "records",
			Help:      "Records in the combined corpus.",
		}),
		FetchDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetch_duration_seconds",
			Help:      "Wall time of each source fetch.",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300},
		}, []string{"source"}),
		LastRun: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last extraction run finished.",
		}),
	}
}

// Instrument returns a copy of p whose hooks feed this Metrics. Call names
// are "<slug>.<call>" as issued by the source adapters.
func (m *Metrics) Instrument(p httputil.Policy) httputil.Policy {
	prevFailure, prevExhausted := p.OnFailure, p.OnExhausted
	p.OnFailure = func(name string, attempt int, err error) {
		src, call := splitCall(name)
		m.RequestFailures.WithLabelValues(src, call).Inc()
		if prevFailure != nil {
			prevFailure(name, attempt, err)
		}
	}
	p.OnExhausted = func(name string) {
		src, _ := splitCall(name)
		m.RetriesExhausted.WithLabelValues(src).Inc()
		if prevExhausted != nil {
			prevExhausted(name)
		}
	}
	return p
}

// RecordFetch records the outcome of one adapter fetch.
func (m *Metrics) RecordFetch(src types.Source, records int, elapsed time.Duration) {
	m.RecordsFetched.WithLabelValues(src.Slug()).Add(float64(records))
	m.FetchDuration.WithLabelValues(src.Slug()).Observe(elapsed.Seconds())
}

// RecordConsolidation records the combined corpus size and dedup drops.
func (m *Metrics) RecordConsolidation(records, removed int) {
	m.RecordsConsolidated.Set(float64(records))
	m.DuplicatesRemoved.Add(float64(removed))
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	m.LastRun.SetToCurrentTime()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

func splitCall(name string) (source, call string) {
	source, call, found := strings.Cut(name, ".")
	if !found {
		return name, ""
	}
	return source, call
}
