package semantic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/carousel-labs/productcluster/model"
)

func TestStaticProvider(t *testing.T) {
	data := []byte("shoe bytes")
	p := NewStatic(map[string][]model.Label{
		Key(data): {{Name: "Shoe", Confidence: 92}},
	})

	labels, err := p.Labels(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "Shoe", labels[0].Name)

	labels, err = p.Labels(context.Background(), []byte("unknown"))
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestStaticProviderErr(t *testing.T) {
	p := NewStatic(nil)
	p.Err = errors.New("outage")

	_, err := p.Labels(context.Background(), []byte("x"))
	assert.Error(t, err)
}

func TestWithTimeout(t *testing.T) {
	p := NewStatic(map[string][]model.Label{
		Key([]byte("x")): {{Name: "Mug", Confidence: 80}},
	})

	fast := WithTimeout(p, time.Second)
	labels, err := fast.Labels(context.Background(), []byte("x"))
	require.NoError(t, err)
	assert.Len(t, labels, 1)

	p.Delay = 200 * time.Millisecond
	slow := WithTimeout(p, 10*time.Millisecond)
	_, err = slow.Labels(context.Background(), []byte("x"))
	require.Error(t, err)

	var ue *ErrUnavailable
	require.ErrorAs(t, err, &ue, "timeout surfaces as unavailability")
	assert.ErrorIs(t, errors.Unwrap(ue), context.DeadlineExceeded)
}

func TestWithTimeoutWrapsProviderError(t *testing.T) {
	p := NewStatic(nil)
	p.Err = errors.New("backend down")

	_, err := WithTimeout(p, time.Second).Labels(context.Background(), []byte("x"))
	var ue *ErrUnavailable
	assert.ErrorAs(t, err, &ue)
}

func TestUnavailableWrap(t *testing.T) {
	assert.NoError(t, Unavailable(nil))

	wrapped := Unavailable(errors.New("plain"))
	var ue *ErrUnavailable
	require.ErrorAs(t, wrapped, &ue)
	assert.Contains(t, wrapped.Error(), "unavailable")
}

func TestWithRateLimit(t *testing.T) {
	p := NewStatic(map[string][]model.Label{
		Key([]byte("x")): {{Name: "Bag", Confidence: 85}},
	})
	limited := WithRateLimit(p, rate.NewLimiter(rate.Inf, 1))

	labels, err := limited.Labels(context.Background(), []byte("x"))
	require.NoError(t, err)
	assert.Len(t, labels, 1)
}

func TestWithRateLimitHonorsCancellation(t *testing.T) {
	p := NewStatic(nil)
	// One token per hour: the second call has to wait and should observe
	// the cancelled context instead.
	limited := WithRateLimit(p, rate.NewLimiter(rate.Every(time.Hour), 1))

	_, err := limited.Labels(context.Background(), []byte("x"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = limited.Labels(ctx, []byte("x"))
	assert.Error(t, err)
}

func TestKeyStable(t *testing.T) {
	assert.Equal(t, Key([]byte("abc")), Key([]byte("abc")))
	assert.NotEqual(t, Key([]byte("abc")), Key([]byte("abd")))
	assert.Len(t, Key(nil), 64)
}
