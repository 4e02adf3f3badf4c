package metrics

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"dganalyzer/internal/store"
)

var (
	latestTimestampDesc = prometheus.NewDesc(
		"dganalyzer_latest_analysis_timestamp_seconds",
		"Ingestion time of the stored analysis as a Unix timestamp",
		[]string{"dataset"},
		nil,
	)

	ingestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dganalyzer_ingest_total",
			Help: "Total analysis submissions by outcome",
		},
		[]string{"outcome"},
	)

	fetchAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dgviewer_fetch_attempts_total",
			Help: "Total latest-analysis fetch attempts by outcome",
		},
		[]string{"outcome"},
	)

	cacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dgviewer_cache_lookups_total",
			Help: "Total viewer cache lookups by result",
		},
		[]string{"result"},
	)
)

// LatestCollector is a custom Prometheus collector that reads the stored
// analysis on each scrape.
type LatestCollector struct {
	store store.Store
}

// Describe sends the metric descriptor to the channel.
func (c *LatestCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- latestTimestampDesc
}

// Collect emits the timestamp of the stored record, if any.
func (c *LatestCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec, err := c.store.Read(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			slog.Error("failed to collect latest analysis metric", "error", err)
		}
		return
	}
	ch <- prometheus.MustNewConstMetric(
		latestTimestampDesc,
		prometheus.GaugeValue,
		float64(rec.Timestamp.UnixNano())/1e9,
		rec.Dataset,
	)
}

var (
	apiOnce    sync.Once
	viewerOnce sync.Once
)

// InitAPI registers the API service metrics. Must be called once at startup.
func InitAPI(st store.Store) {
	apiOnce.Do(func() {
		prometheus.MustRegister(ingestTotal)
		prometheus.MustRegister(&LatestCollector{store: st})
	})
}

// InitViewer registers the viewer metrics.
func InitViewer() {
	viewerOnce.Do(func() {
		prometheus.MustRegister(fetchAttemptsTotal, cacheLookupsTotal)
	})
}

// RecordIngest counts a submission outcome.
func RecordIngest(outcome string) {
	ingestTotal.WithLabelValues(outcome).Inc()
}

// RecordFetchAttempt counts one attempt against the latest endpoint.
func RecordFetchAttempt(outcome string) {
	fetchAttemptsTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup counts a viewer cache hit or miss.
func RecordCacheLookup(result string) {
	cacheLookupsTotal.WithLabelValues(result).Inc()
}
