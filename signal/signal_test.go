package signal

import (
	"context"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carousel-labs/productcluster/cache"
	"github.com/carousel-labs/productcluster/feature"
	"github.com/carousel-labs/productcluster/model"
	"github.com/carousel-labs/productcluster/testutil"
)

func setFor(t *testing.T, data []byte) *feature.Set {
	t.Helper()
	e := feature.NewExtractor(cache.New[feature.ContentHash, *feature.Set](8, 0))
	s, err := e.Extract(context.Background(), model.Image{ID: "test", Data: data}, false)
	require.NoError(t, err)
	return s
}

func darkProduct(width, height int) testutil.ImageSpec {
	return testutil.ImageSpec{
		Width:      width,
		Height:     height,
		Body:       color.NRGBA{R: 40, G: 40, B: 120, A: 255},
		Background: color.NRGBA{R: 200, G: 200, B: 200, A: 255},
		Stripes:    2,
	}
}

func TestSignalsOnIdenticalImages(t *testing.T) {
	s := setFor(t, testutil.PNGProduct(testutil.WhiteOnGray(200, 200)))

	assert.InDelta(t, 1.0, SpatialScore(s, s), 1e-6)
	assert.InDelta(t, 1.0, FeatureScore(s, s), 1e-6)
	assert.InDelta(t, 1.0, BackgroundScore(s, s), 1e-6)
	assert.InDelta(t, 1.0, CompositionScore(s, s), 1e-6)
}

func TestSignalsSymmetricAndBounded(t *testing.T) {
	a := setFor(t, testutil.PNGProduct(testutil.WhiteOnGray(200, 200)))
	b := setFor(t, testutil.PNGProduct(darkProduct(180, 240)))

	for _, k := range Kinds() {
		fn, err := Provider(k)
		require.NoError(t, err)

		ab := fn(a, b)
		ba := fn(b, a)
		assert.InDelta(t, ab, ba, 1e-9, "%v must be symmetric", k)
		assert.GreaterOrEqual(t, ab, 0.0, "%v", k)
		assert.LessOrEqual(t, ab, 1.0, "%v", k)
	}
}

func TestSimilarImagesOutscoreDifferentOnes(t *testing.T) {
	rng := testutil.NewRNG(11)
	base := testutil.ProductImage(testutil.WhiteOnGray(200, 200))

	a := setFor(t, testutil.EncodePNG(base))
	near := setFor(t, testutil.EncodePNG(testutil.Perturb(rng, base, 2)))
	far := setFor(t, testutil.PNGProduct(darkProduct(180, 240)))

	assert.Greater(t, SpatialScore(a, near), SpatialScore(a, far))
	assert.Greater(t, FeatureScore(a, near), FeatureScore(a, far))
}

func TestProviderUnknownKind(t *testing.T) {
	_, err := Provider(Kind(99))
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "spatial", Spatial.String())
	assert.Equal(t, "background", Background.String())
	assert.Contains(t, Kind(99).String(), "Unknown")
}

func TestSemanticScoreNeutralCases(t *testing.T) {
	resolved := &feature.Set{LabelsResolved: true, Labels: []model.Label{{Name: "Shoe", Confidence: 90}}}
	unresolved := &feature.Set{}

	assert.Equal(t, NeutralScore, SemanticScore(resolved, unresolved))
	assert.Equal(t, NeutralScore, SemanticScore(unresolved, unresolved))

	emptyA := &feature.Set{LabelsResolved: true}
	emptyB := &feature.Set{LabelsResolved: true}
	assert.Equal(t, NeutralScore, SemanticScore(emptyA, emptyB))
}

func TestSemanticScoreJaccard(t *testing.T) {
	a := &feature.Set{LabelsResolved: true, Labels: []model.Label{
		{Name: "Shoe", Confidence: 80},
		{Name: "Footwear", Confidence: 60},
	}}
	b := &feature.Set{LabelsResolved: true, Labels: []model.Label{
		{Name: "Shoe", Confidence: 60},
	}}

	// intersection min(80,60)=60; union max(80,60)+60=140
	assert.InDelta(t, 60.0/140.0, SemanticScore(a, b), 1e-9)

	assert.InDelta(t, 1.0, SemanticScore(a, a), 1e-9)

	disjoint := &feature.Set{LabelsResolved: true, Labels: []model.Label{{Name: "Mug", Confidence: 95}}}
	assert.Zero(t, SemanticScore(a, disjoint))
}

func TestSemanticScoreDuplicateNames(t *testing.T) {
	a := &feature.Set{LabelsResolved: true, Labels: []model.Label{
		{Name: "Shoe", Confidence: 50},
		{Name: "Shoe", Confidence: 90},
	}}
	b := &feature.Set{LabelsResolved: true, Labels: []model.Label{
		{Name: "Shoe", Confidence: 90},
	}}
	assert.InDelta(t, 1.0, SemanticScore(a, b), 1e-9, "duplicates keep the highest confidence")
}

func TestFuseWeightedSum(t *testing.T) {
	a := setFor(t, testutil.PNGProduct(testutil.WhiteOnGray(200, 200)))
	b := setFor(t, testutil.PNGProduct(darkProduct(180, 240)))

	w := model.SignalWeights{Spatial: 0.5, Feature: 0.3, Semantic: 0.0, Composition: 0.1, Background: 0.1}
	fused, breakdown := Fuse(a, b, w)

	want := 0.5*breakdown.Spatial + 0.3*breakdown.Feature +
		0.1*breakdown.Composition + 0.1*breakdown.Background
	assert.InDelta(t, want, fused, 1e-9)
	assert.GreaterOrEqual(t, fused, 0.0)
	assert.LessOrEqual(t, fused, 1.0)
}

func TestFuseIdenticalNearOne(t *testing.T) {
	s := setFor(t, testutil.PNGProduct(testutil.WhiteOnGray(200, 200)))

	// Semantic is excluded: without a provider it scores neutral.
	w := model.SignalWeights{Spatial: 0.4, Feature: 0.4, Semantic: 0, Composition: 0.1, Background: 0.1}
	fused, _ := Fuse(s, s, w)
	assert.InDelta(t, 1.0, fused, 1e-6)
}
