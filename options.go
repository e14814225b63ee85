package productcluster

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/carousel-labs/productcluster/semantic"
)

const (
	// DefaultCacheSize is the FeatureSet cache capacity in entries.
	DefaultCacheSize = 1024

	// DefaultCacheTTL is how long a cached FeatureSet stays valid.
	DefaultCacheTTL = 24 * time.Hour

	// DefaultProviderTimeout bounds each semantic provider call.
	DefaultProviderTimeout = 5 * time.Second
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	provider         semantic.Provider
	providerTimeout  time.Duration
	providerLimiter  *rate.Limiter
	cacheSize        int
	cacheTTL         time.Duration
	concurrency      int
}

// Option configures Clusterer constructor behavior.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := productcluster.NewJSONLogger(slog.LevelInfo)
//	pc := productcluster.New(productcluster.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &productcluster.BasicMetricsCollector{}
//	pc := productcluster.New(productcluster.WithMetricsCollector(metrics))
//	// ... use pc ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.ClusterCount, stats.ClusterAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithSemanticProvider configures the external label provider backing the
// semantic signal. Without one the engine runs fully degraded: the semantic
// signal is scored neutral for every pair.
func WithSemanticProvider(p semantic.Provider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithProviderTimeout bounds each semantic provider call. A call exceeding
// the timeout degrades that image's semantic signal instead of stalling the
// batch.
func WithProviderTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.providerTimeout = d
		}
	}
}

// WithProviderRateLimit throttles semantic provider calls with the given
// limiter. Useful against metered APIs.
func WithProviderRateLimit(limiter *rate.Limiter) Option {
	return func(o *options) {
		o.providerLimiter = limiter
	}
}

// WithCacheSize sets the FeatureSet cache capacity in entries.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithCacheTTL sets how long cached FeatureSets stay valid.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.cacheTTL = ttl
		}
	}
}

// WithConcurrency caps the number of in-flight extractions and pairwise
// scoring workers. Defaults to GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
