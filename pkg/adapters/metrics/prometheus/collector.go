// Package prometheus implements the MetricsCollector port.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	fetchesTotal   *prometheus.CounterVec
	fetchDuration  *prometheus.HistogramVec
	snapshotsSaved *prometheus.CounterVec
	recordCount    *prometheus.GaugeVec
	pollTicks      prometheus.Counter

	workerPoolIdle    prometheus.Gauge
	workerPoolBusy    prometheus.Gauge
	workerPoolStopped prometheus.Gauge
}

// NewCollector creates a new Prometheus metrics collector
func NewCollector() *Collector {
	return &Collector{
		fetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ibbtraffic_fetches_total",
				Help: "Total number of traffic API fetches",
			},
			[]string{"endpoint", "outcome"},
		),
		fetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ibbtraffic_fetch_duration_seconds",
				Help:    "Traffic API fetch duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"endpoint"},
		),
		snapshotsSaved: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ibbtraffic_snapshots_saved_total",
				Help: "Total number of snapshots written to storage",
			},
			[]string{"endpoint"},
		),
		recordCount: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ibbtraffic_snapshot_records",
				Help: "Number of records in the most recent snapshot",
			},
			[]string{"endpoint"},
		),
		pollTicks: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ibbtraffic_poll_ticks_total",
				Help: "Total number of poll loop ticks",
			},
		),
		workerPoolIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ibbtraffic_worker_pool_idle",
				Help: "Number of idle fetch workers",
			},
		),
		workerPoolBusy: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ibbtraffic_worker_pool_busy",
				Help: "Number of busy fetch workers",
			},
		),
		workerPoolStopped: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ibbtraffic_worker_pool_stopped",
				Help: "Number of stopped fetch workers",
			},
		),
	}
}

// RecordFetch records the outcome and duration of one fetch.
func (c *Collector) RecordFetch(endpoint, outcome string, duration time.Duration) {
	c.fetchesTotal.WithLabelValues(endpoint, outcome).Inc()
	c.fetchDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordSnapshotSaved records a snapshot written to storage.
func (c *Collector) RecordSnapshotSaved(endpoint string, records int) {
	c.snapshotsSaved.WithLabelValues(endpoint).Inc()
	c.recordCount.WithLabelValues(endpoint).Set(float64(records))
}

// RecordPollTick records one poll loop tick.
func (c *Collector) RecordPollTick() {
	c.pollTicks.Inc()
}

// RecordWorkerPoolStatus records worker pool status.
func (c *Collector) RecordWorkerPoolStatus(idle, busy, stopped int) {
	c.workerPoolIdle.Set(float64(idle))
	c.workerPoolBusy.Set(float64(busy))
	c.workerPoolStopped.Set(float64(stopped))
}
