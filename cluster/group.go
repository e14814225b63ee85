package cluster

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/carousel-labs/productcluster/model"
)

// Group is one product group. Membership is a bitmap over batch LocalIDs;
// the Result's graph maps them back to ImageIDs.
type Group struct {
	ID             string
	Primary        model.ImageID
	Members        *roaring.Bitmap
	Confidence     float64
	Name           string
	ManualOverride bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GroupView is the read-only copy of a group handed to callers.
type GroupView struct {
	ID             string
	Primary        model.ImageID
	Images         []model.ImageID
	Confidence     float64
	Name           string
	ManualOverride bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Size returns the number of member images.
func (v GroupView) Size() int { return len(v.Images) }

// ImageFailure records one image excluded during extraction and why.
type ImageFailure struct {
	ID  model.ImageID
	Err error
}

// CacheStats is the FeatureSet cache activity observed during one run.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// HitRate returns hits/(hits+misses), or 0 for an idle cache.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
