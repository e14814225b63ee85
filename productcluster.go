package productcluster

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/carousel-labs/productcluster/cache"
	"github.com/carousel-labs/productcluster/cluster"
	"github.com/carousel-labs/productcluster/feature"
	"github.com/carousel-labs/productcluster/graph"
	"github.com/carousel-labs/productcluster/model"
	"github.com/carousel-labs/productcluster/semantic"
)

// Clusterer groups batches of product photographs by physical item. It owns
// the FeatureSet cache, so repeated runs over overlapping batches reuse
// extracted features. A single Clusterer is safe for concurrent use.
type Clusterer struct {
	cache       *cache.Cache[feature.ContentHash, *feature.Set]
	extractor   *feature.Extractor
	provider    semantic.Provider
	concurrency int
	logger      *Logger
	metrics     MetricsCollector
}

// New creates a Clusterer. Without WithSemanticProvider the engine runs
// fully degraded: the semantic signal scores neutral for every pair.
func New(optFns ...Option) *Clusterer {
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		providerTimeout:  DefaultProviderTimeout,
		cacheSize:        DefaultCacheSize,
		cacheTTL:         DefaultCacheTTL,
		concurrency:      runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.logger == nil {
		opts.logger = NoopLogger()
	}
	if opts.metricsCollector == nil {
		opts.metricsCollector = NoopMetricsCollector{}
	}

	provider := opts.provider
	if provider != nil {
		provider = &instrumentedProvider{next: provider, metrics: opts.metricsCollector}
		if opts.providerLimiter != nil {
			provider = semantic.WithRateLimit(provider, opts.providerLimiter)
		}
	}

	c := &Clusterer{
		cache:       cache.New[feature.ContentHash, *feature.Set](opts.cacheSize, opts.cacheTTL),
		provider:    provider,
		concurrency: opts.concurrency,
		logger:      opts.logger,
		metrics:     opts.metricsCollector,
	}

	extractorOpts := []feature.ExtractorOption{}
	if provider != nil {
		extractorOpts = append(extractorOpts,
			feature.WithProvider(provider),
			feature.WithProviderTimeout(opts.providerTimeout),
		)
	}
	c.extractor = feature.NewExtractor(c.cache, extractorOpts...)
	return c
}

// Cluster runs the full pipeline over one batch: extraction, pairwise
// signal fusion, similarity graph construction, and grouping. Per-image
// decode failures exclude only that image; a failing semantic provider
// degrades the result instead of failing it. Only an invalid configuration,
// an empty batch, or context cancellation returns an error.
func (c *Clusterer) Cluster(ctx context.Context, images []model.Image, cfg model.Config) (*cluster.Result, error) {
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		err = translateError(err)
		c.logger.LogCluster(ctx, len(images), 0, 0, time.Since(start), err)
		c.metrics.RecordCluster(len(images), 0, time.Since(start), err)
		return nil, err
	}
	if len(images) == 0 {
		c.metrics.RecordCluster(0, 0, time.Since(start), ErrEmptyBatch)
		return nil, ErrEmptyBatch
	}

	log := c.logger.WithBatchSize(len(images)).WithThreshold(cfg.Threshold)

	if !cfg.Enabled {
		ids := make([]model.ImageID, len(images))
		for i, img := range images {
			ids[i] = img.ID
		}
		g, err := graph.NewFromEdges(ids, nil, cfg.Threshold)
		if err != nil {
			return nil, translateError(err)
		}
		result := cluster.NewResult(g, cfg, cluster.WithElapsed(time.Since(start)))
		log.LogCluster(ctx, len(images), 0, len(images), time.Since(start), nil)
		c.metrics.RecordCluster(len(images), 0, time.Since(start), nil)
		return result, nil
	}

	fetchLabels := cfg.UseSemanticProvider && c.provider != nil

	hits0, misses0 := c.cache.Stats()
	extractStart := time.Now()
	batch, err := c.extractor.ExtractBatch(ctx, images, c.concurrency, fetchLabels)
	if err != nil {
		err = translateError(err)
		log.LogCluster(ctx, len(images), 0, 0, time.Since(start), err)
		c.metrics.RecordCluster(len(images), 0, time.Since(start), err)
		return nil, err
	}
	log.LogExtractBatch(ctx, len(images), len(batch.Failures), batch.Degraded, time.Since(extractStart))
	c.metrics.RecordExtractBatch(len(images), len(batch.Failures), time.Since(extractStart))

	g, err := graph.Build(ctx, batch.Sets, cfg, c.concurrency)
	if err != nil {
		err = translateError(err)
		log.LogGraphBuild(ctx, len(batch.Sets), 0, cfg.Threshold, err)
		c.metrics.RecordCluster(len(images), 0, time.Since(start), err)
		return nil, err
	}
	log.LogGraphBuild(ctx, g.NodeCount(), g.EdgeCount(), cfg.Threshold, nil)

	failures := make([]cluster.ImageFailure, 0, len(batch.Failures))
	for _, f := range batch.Failures {
		failures = append(failures, cluster.ImageFailure{ID: f.ID, Err: translateError(f.Err)})
	}

	hits1, misses1 := c.cache.Stats()
	degraded := batch.Degraded || (cfg.Enabled && cfg.UseSemanticProvider && c.provider == nil)

	result := cluster.NewResult(g, cfg,
		cluster.WithFailures(failures),
		cluster.WithDegraded(degraded),
		cluster.WithCacheStats(cluster.CacheStats{Hits: hits1 - hits0, Misses: misses1 - misses0}),
		cluster.WithElapsed(time.Since(start)),
		cluster.WithObserver(func(op string, err error) {
			log.LogMutation(context.Background(), op, err)
			c.metrics.RecordMutation(op, err)
		}),
	)

	groups := result.Groups()
	log.LogCluster(ctx, len(images), len(groups), len(result.Ungrouped()), time.Since(start), nil)
	c.metrics.RecordCluster(len(images), len(groups), time.Since(start), nil)
	return result, nil
}

// SaveCache writes a snapshot of the FeatureSet cache. Loading it into a
// fresh Clusterer warms extraction for a later run of the same images.
func (c *Clusterer) SaveCache(ctx context.Context, w io.Writer) error {
	err := c.cache.Snapshot(w)
	c.logger.LogSnapshot(ctx, c.cache.Len(), err)
	return err
}

// LoadCache restores a snapshot written by SaveCache. Entries that expired
// since the snapshot are dropped.
func (c *Clusterer) LoadCache(ctx context.Context, r io.Reader) error {
	err := c.cache.LoadSnapshot(r)
	c.logger.LogSnapshot(ctx, c.cache.Len(), err)
	return err
}

// CacheStats returns lifetime FeatureSet cache activity.
func (c *Clusterer) CacheStats() cluster.CacheStats {
	hits, misses := c.cache.Stats()
	return cluster.CacheStats{Hits: hits, Misses: misses}
}

// instrumentedProvider feeds provider call outcomes into the metrics
// collector.
type instrumentedProvider struct {
	next    semantic.Provider
	metrics MetricsCollector
}

func (p *instrumentedProvider) Labels(ctx context.Context, data []byte) ([]model.Label, error) {
	start := time.Now()
	labels, err := p.next.Labels(ctx, data)
	p.metrics.RecordProviderCall(time.Since(start), err)
	return labels, err
}
