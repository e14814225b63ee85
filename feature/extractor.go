package feature

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/carousel-labs/productcluster/cache"
	"github.com/carousel-labs/productcluster/model"
	"github.com/carousel-labs/productcluster/semantic"
)

// DefaultProviderTimeout bounds each semantic provider call.
const DefaultProviderTimeout = 5 * time.Second

// Extractor derives FeatureSets from raw image bytes, backed by a
// content-addressed cache. It is safe for concurrent use.
type Extractor struct {
	cache           *cache.Cache[ContentHash, *Set]
	provider        semantic.Provider
	providerTimeout time.Duration
	group           singleflight.Group
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithProvider wires a semantic label provider. Without one, labels stay
// unresolved and the semantic signal scores neutral.
func WithProvider(p semantic.Provider) ExtractorOption {
	return func(e *Extractor) { e.provider = p }
}

// WithProviderTimeout overrides the per-call provider timeout.
func WithProviderTimeout(d time.Duration) ExtractorOption {
	return func(e *Extractor) { e.providerTimeout = d }
}

// NewExtractor creates an Extractor over the given FeatureSet cache.
// The cache is owned by the caller; sharing it across extractors is safe.
func NewExtractor(c *cache.Cache[ContentHash, *Set], optFns ...ExtractorOption) *Extractor {
	e := &Extractor{
		cache:           c,
		providerTimeout: DefaultProviderTimeout,
	}
	for _, fn := range optFns {
		fn(e)
	}
	return e
}

// CacheStats returns the cumulative hit/miss counters of the backing cache.
func (e *Extractor) CacheStats() (hits, misses int64) {
	return e.cache.Stats()
}

// Extract returns the FeatureSet for img, computing and caching it on a miss.
// When fetchLabels is set and a provider is wired, semantic labels are
// resolved as part of extraction; a provider failure leaves the labels
// unresolved but never fails the image.
//
// Concurrent calls for identical bytes collapse into one computation.
func (e *Extractor) Extract(ctx context.Context, img model.Image, fetchLabels bool) (*Set, error) {
	h := HashBytes(img.Data)

	if s, ok := e.cache.Get(h); ok {
		return e.maybeResolveLabels(ctx, s, img.Data, fetchLabels), nil
	}

	v, err, _ := e.group.Do(string(h[:]), func() (any, error) {
		if s, ok := e.cache.Get(h); ok {
			return s, nil
		}
		s, err := e.derive(img, h)
		if err != nil {
			return nil, err
		}
		e.cache.Set(h, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return e.maybeResolveLabels(ctx, v.(*Set), img.Data, fetchLabels), nil
}

// derive runs the pure pixel pipeline: sniff, decode, normalize, derive.
func (e *Extractor) derive(img model.Image, h ContentHash) (*Set, error) {
	if DetectFormat(img.Data) == "" {
		return nil, &ErrUnsupportedFormat{ID: img.ID}
	}
	decoded, err := decode(img.Data)
	if err != nil {
		return nil, &ErrInvalidImage{ID: img.ID, cause: err}
	}

	b := decoded.Bounds()
	frame := canonicalFrame(decoded)
	luma := lumaPlane(frame)
	full, border := histograms(frame)

	return &Set{
		Hash:            h,
		SourceWidth:     b.Dx(),
		SourceHeight:    b.Dy(),
		AspectRatio:     float64(b.Dx()) / float64(b.Dy()),
		Luma:            luma,
		EdgeMap:         edgeMap(luma),
		Histogram:       full,
		BorderHistogram: border,
	}, nil
}

// maybeResolveLabels attaches semantic labels to a Set that does not have
// them yet. Published Sets are immutable, so a labeled copy replaces the
// cache entry instead of mutating in place.
func (e *Extractor) maybeResolveLabels(ctx context.Context, s *Set, data []byte, fetchLabels bool) *Set {
	if !fetchLabels || e.provider == nil || s.LabelsResolved {
		return s
	}

	provider := semantic.WithTimeout(e.provider, e.providerTimeout)
	labels, err := provider.Labels(ctx, data)
	if err != nil {
		return s
	}

	labeled := *s
	labeled.Labels = labels
	labeled.LabelsResolved = true
	e.cache.Set(s.Hash, &labeled)
	return &labeled
}

// Failure records one image excluded from a batch and why.
type Failure struct {
	ID  model.ImageID
	Err error
}

// BatchResult is the outcome of extracting a whole batch. Per-image failures
// exclude only that image; they never abort the batch.
type BatchResult struct {
	// Sets maps each successfully extracted image id to its FeatureSet.
	Sets map[model.ImageID]*Set

	// Failures lists excluded images, ordered by id.
	Failures []Failure

	// Degraded is set when labels were requested but at least one image
	// came back without resolved labels.
	Degraded bool
}

// ExtractBatch extracts all images concurrently with at most concurrency
// in-flight extractions. Only a cancelled context aborts the batch; per-image
// errors are collected into the result.
func (e *Extractor) ExtractBatch(ctx context.Context, images []model.Image, concurrency int, fetchLabels bool) (*BatchResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	res := &BatchResult{Sets: make(map[model.ImageID]*Set, len(images))}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, img := range images {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := e.Extract(ctx, img, fetchLabels)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failures = append(res.Failures, Failure{ID: img.ID, Err: err})
				return nil
			}
			res.Sets[img.ID] = s
			if fetchLabels && !s.LabelsResolved {
				res.Degraded = true
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(res.Failures, func(i, j int) bool {
		return res.Failures[i].ID < res.Failures[j].ID
	})
	return res, nil
}
