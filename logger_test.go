package productcluster

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerScopedFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, nil))

	logger.WithBatchSize(4).WithThreshold(0.7).
		LogCluster(context.Background(), 4, 1, 1, 0, nil)

	out := buf.String()
	assert.Contains(t, out, "batch_size=4")
	assert.Contains(t, out, "threshold=0.7")
	assert.Contains(t, out, "clustering completed")
}

func TestClusterLogsBatchFields(t *testing.T) {
	var buf bytes.Buffer
	pc := New(WithLogger(NewLogger(slog.NewTextHandler(&buf, nil))))

	_, err := pc.Cluster(context.Background(), shoeBatch(), pixelConfig())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "batch_size=4")
	assert.Contains(t, out, "threshold=0.7")
}
