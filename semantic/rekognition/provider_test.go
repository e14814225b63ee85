package rekognition

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsrekognition "github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	lastInput *awsrekognition.DetectLabelsInput
	output    *awsrekognition.DetectLabelsOutput
	err       error
}

func (f *fakeClient) DetectLabels(ctx context.Context, params *awsrekognition.DetectLabelsInput, optFns ...func(*awsrekognition.Options)) (*awsrekognition.DetectLabelsOutput, error) {
	f.lastInput = params
	return f.output, f.err
}

func TestLabelsMapsResponse(t *testing.T) {
	client := &fakeClient{output: &awsrekognition.DetectLabelsOutput{
		Labels: []types.Label{
			{Name: aws.String("Shoe"), Confidence: aws.Float32(96.5)},
			{Name: aws.String("Footwear"), Confidence: aws.Float32(88.0)},
			{Name: nil, Confidence: aws.Float32(99.0)}, // skipped
		},
	}}
	p := New(client)

	labels, err := p.Labels(context.Background(), []byte("jpeg bytes"))
	require.NoError(t, err)

	require.Len(t, labels, 2)
	assert.Equal(t, "Shoe", labels[0].Name)
	assert.InDelta(t, 96.5, labels[0].Confidence, 1e-3)
	assert.Equal(t, "Footwear", labels[1].Name)
}

func TestLabelsRequestParameters(t *testing.T) {
	client := &fakeClient{output: &awsrekognition.DetectLabelsOutput{}}
	p := New(client)

	_, err := p.Labels(context.Background(), []byte("payload"))
	require.NoError(t, err)

	require.NotNil(t, client.lastInput)
	assert.Equal(t, []byte("payload"), client.lastInput.Image.Bytes)
	assert.Equal(t, int32(DefaultMaxLabels), aws.ToInt32(client.lastInput.MaxLabels))
	assert.Equal(t, float32(DefaultMinConfidence), aws.ToFloat32(client.lastInput.MinConfidence))
}

func TestLabelsOptionsOverride(t *testing.T) {
	client := &fakeClient{output: &awsrekognition.DetectLabelsOutput{}}
	p := New(client, WithMaxLabels(5), WithMinConfidence(90))

	_, err := p.Labels(context.Background(), []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, int32(5), aws.ToInt32(client.lastInput.MaxLabels))
	assert.Equal(t, float32(90), aws.ToFloat32(client.lastInput.MinConfidence))
}

func TestLabelsPropagatesError(t *testing.T) {
	client := &fakeClient{err: errors.New("throttled")}
	p := New(client)

	_, err := p.Labels(context.Background(), []byte("payload"))
	assert.Error(t, err)
}
