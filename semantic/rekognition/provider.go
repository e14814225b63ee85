package rekognition

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/carousel-labs/productcluster/model"
)

// DefaultMaxLabels and DefaultMinConfidence match the production tuning of
// the label pipeline this adapter replaces.
const (
	DefaultMaxLabels     = 15
	DefaultMinConfidence = 75.0
)

// Client is the subset of the Rekognition API the provider uses.
// *rekognition.Client satisfies it; tests substitute a fake.
type Client interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Provider calls DetectLabels with image bytes and maps the response to
// model labels.
type Provider struct {
	client        Client
	maxLabels     int32
	minConfidence float32
}

// Option configures a Provider.
type Option func(*Provider)

// WithMaxLabels caps the number of labels requested per image.
func WithMaxLabels(n int32) Option {
	return func(p *Provider) { p.maxLabels = n }
}

// WithMinConfidence sets the minimum label confidence (percent) requested.
func WithMinConfidence(c float32) Option {
	return func(p *Provider) { p.minConfidence = c }
}

// New creates a Provider around an existing Rekognition client.
func New(client Client, optFns ...Option) *Provider {
	p := &Provider{
		client:        client,
		maxLabels:     DefaultMaxLabels,
		minConfidence: DefaultMinConfidence,
	}
	for _, fn := range optFns {
		fn(p)
	}
	return p
}

// NewFromConfig creates a Provider from an AWS SDK config.
func NewFromConfig(cfg aws.Config, optFns ...Option) *Provider {
	return New(rekognition.NewFromConfig(cfg), optFns...)
}

// NewFromDefaultConfig creates a Provider using the ambient AWS configuration
// (environment, shared config files, instance metadata).
func NewFromDefaultConfig(ctx context.Context, optFns ...Option) (*Provider, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, optFns...), nil
}

// Labels implements semantic.Provider.
func (p *Provider) Labels(ctx context.Context, data []byte) ([]model.Label, error) {
	out, err := p.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(p.maxLabels),
		MinConfidence: aws.Float32(p.minConfidence),
	})
	if err != nil {
		return nil, err
	}

	labels := make([]model.Label, 0, len(out.Labels))
	for _, l := range out.Labels {
		if l.Name == nil {
			continue
		}
		labels = append(labels, model.Label{
			Name:       aws.ToString(l.Name),
			Confidence: float64(aws.ToFloat32(l.Confidence)),
		})
	}
	return labels, nil
}
