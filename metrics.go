package productcluster

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    clusterCounter   prometheus.Counter
//	    clusterHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordCluster(images, groups int, duration time.Duration, err error) {
//	    p.clusterCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordExtractBatch is called after each batch extraction.
	// count is the number of images attempted, failed is the number that
	// failed, duration is the total time taken.
	RecordExtractBatch(count, failed int, duration time.Duration)

	// RecordCluster is called after each full clustering run.
	// images is the batch size, groups the number of groups produced,
	// err is nil if successful.
	RecordCluster(images, groups int, duration time.Duration, err error)

	// RecordMutation is called after each group mutation.
	// op names the mutation ("split", "merge", ...), err is nil if applied.
	RecordMutation(op string, err error)

	// RecordProviderCall is called after each semantic provider call.
	RecordProviderCall(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordExtractBatch(int, int, time.Duration)        {}
func (NoopMetricsCollector) RecordCluster(int, int, time.Duration, error)      {}
func (NoopMetricsCollector) RecordMutation(string, error)                      {}
func (NoopMetricsCollector) RecordProviderCall(time.Duration, error)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ExtractBatchCount    atomic.Int64
	ExtractBatchImages   atomic.Int64
	ExtractBatchFailed   atomic.Int64
	ClusterCount         atomic.Int64
	ClusterErrors        atomic.Int64
	ClusterImages        atomic.Int64
	ClusterGroups        atomic.Int64
	ClusterTotalNanos    atomic.Int64
	MutationCount        atomic.Int64
	MutationErrors       atomic.Int64
	ProviderCallCount    atomic.Int64
	ProviderCallErrors   atomic.Int64
	ProviderTotalNanos   atomic.Int64
}

// RecordExtractBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExtractBatch(count, failed int, duration time.Duration) {
	b.ExtractBatchCount.Add(1)
	b.ExtractBatchImages.Add(int64(count))
	b.ExtractBatchFailed.Add(int64(failed))
}

// RecordCluster implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCluster(images, groups int, duration time.Duration, err error) {
	b.ClusterCount.Add(1)
	b.ClusterImages.Add(int64(images))
	b.ClusterGroups.Add(int64(groups))
	b.ClusterTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ClusterErrors.Add(1)
	}
}

// RecordMutation implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMutation(op string, err error) {
	b.MutationCount.Add(1)
	if err != nil {
		b.MutationErrors.Add(1)
	}
}

// RecordProviderCall implements MetricsCollector.
func (b *BasicMetricsCollector) RecordProviderCall(duration time.Duration, err error) {
	b.ProviderCallCount.Add(1)
	b.ProviderTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ProviderCallErrors.Add(1)
	}
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	ExtractBatchCount  int64
	ExtractBatchImages int64
	ExtractBatchFailed int64
	ClusterCount       int64
	ClusterErrors      int64
	ClusterImages      int64
	ClusterGroups      int64
	ClusterAvgNanos    int64
	MutationCount      int64
	MutationErrors     int64
	ProviderCallCount  int64
	ProviderCallErrors int64
	ProviderAvgNanos   int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ExtractBatchCount:  b.ExtractBatchCount.Load(),
		ExtractBatchImages: b.ExtractBatchImages.Load(),
		ExtractBatchFailed: b.ExtractBatchFailed.Load(),
		ClusterCount:       b.ClusterCount.Load(),
		ClusterErrors:      b.ClusterErrors.Load(),
		ClusterImages:      b.ClusterImages.Load(),
		ClusterGroups:      b.ClusterGroups.Load(),
		ClusterAvgNanos:    avgNanos(b.ClusterTotalNanos.Load(), b.ClusterCount.Load()),
		MutationCount:      b.MutationCount.Load(),
		MutationErrors:     b.MutationErrors.Load(),
		ProviderCallCount:  b.ProviderCallCount.Load(),
		ProviderCallErrors: b.ProviderCallErrors.Load(),
		ProviderAvgNanos:   avgNanos(b.ProviderTotalNanos.Load(), b.ProviderCallCount.Load()),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}
