// Package metrics provides Prometheus metrics for the idea store
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the idea store
type Metrics struct {
	// Store operation metrics
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec
	CorruptRecordsTotal    *prometheus.CounterVec

	// Collection metrics
	IdeasTotal    prometheus.Gauge
	CommentsTotal prometheus.Gauge
	VotesTotal    prometheus.Gauge

	// Vote metrics
	VoteTogglesTotal *prometheus.CounterVec

	// Allocator metrics
	IDAllocationsTotal prometheus.Counter

	// Server metrics
	ServerUptimeSeconds prometheus.Gauge
	ServerStartTime     time.Time
}

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Default returns the process-wide metrics instance, creating and
// registering it on first use. Metrics register against the default
// Prometheus registry exactly once.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = newMetrics()
	})
	return defaultMetrics
}

func newMetrics() *Metrics {
	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	m.StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideastore_store_operations_total",
			Help: "Total number of store operations",
		},
		[]string{"collection", "operation", "status"},
	)

	m.StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ideastore_store_operation_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"collection", "operation"},
	)

	m.CorruptRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideastore_corrupt_records_total",
			Help: "Total number of record files that failed to parse",
		},
		[]string{"collection"},
	)

	m.IdeasTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ideastore_ideas_total",
			Help: "Total number of idea documents on disk",
		},
	)

	m.CommentsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ideastore_comments_total",
			Help: "Total number of comment documents on disk",
		},
	)

	m.VotesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ideastore_votes_total",
			Help: "Total number of recorded votes across all ideas",
		},
	)

	m.VoteTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideastore_vote_toggles_total",
			Help: "Total number of vote toggle operations",
		},
		[]string{"direction"},
	)

	m.IDAllocationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ideastore_id_allocations_total",
			Help: "Total number of idea IDs handed out",
		},
	)

	m.ServerUptimeSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ideastore_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
	)

	go m.updateUptime()

	return m
}

// updateUptime periodically updates the server uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.ServerUptimeSeconds.Set(time.Since(m.ServerStartTime).Seconds())
	}
}

// RecordStoreOperation records a single collection operation
func (m *Metrics) RecordStoreOperation(collection, operation, status string, duration time.Duration) {
	m.StoreOperationsTotal.WithLabelValues(collection, operation, status).Inc()
	m.StoreOperationDuration.WithLabelValues(collection, operation).Observe(duration.Seconds())
}

// RecordCorruptRecord records a record file that failed to parse
func (m *Metrics) RecordCorruptRecord(collection string) {
	m.CorruptRecordsTotal.WithLabelValues(collection).Inc()
}

// RecordVoteToggle records a vote toggle; direction is "added" or "removed"
func (m *Metrics) RecordVoteToggle(direction string) {
	m.VoteTogglesTotal.WithLabelValues(direction).Inc()
}

// RecordIDAllocation records a handed-out idea ID
func (m *Metrics) RecordIDAllocation() {
	m.IDAllocationsTotal.Inc()
}

// UpdateCollectionStats updates the on-disk collection gauges
func (m *Metrics) UpdateCollectionStats(ideas, comments int64) {
	m.IdeasTotal.Set(float64(ideas))
	m.CommentsTotal.Set(float64(comments))
}

// UpdateVoteStats updates the recorded-vote gauge
func (m *Metrics) UpdateVoteStats(votes int64) {
	m.VotesTotal.Set(float64(votes))
}
