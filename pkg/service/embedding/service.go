package embedding

import (
	"context"
	"math"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/domain/model"
)

// Sentinel errors for the embedding service
var (
	// ErrUnavailable indicates the embedding backend could not be reached
	// or failed; callers degrade to baseline-only behavior.
	ErrUnavailable = goerr.New("embedding service unavailable")

	// ErrZeroVector indicates the backend returned a vector with zero norm,
	// which cannot be compared by inner product.
	ErrZeroVector = goerr.New("embedding has zero norm")
)

// VectorSource is the narrow slice of an LLM client needed to produce
// embeddings. gollem.LLMClient satisfies it.
type VectorSource interface {
	GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error)
}

// Client generates L2-normalized embedding vectors from text
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

type client struct {
	source    VectorSource
	dimension int
	timeout   time.Duration
}

// Option is a functional option for client configuration
type Option func(*client)

// WithDimension overrides the embedding dimension
func WithDimension(d int) Option {
	return func(c *client) {
		c.dimension = d
	}
}

// WithTimeout overrides the per-call timeout
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		c.timeout = d
	}
}

// New creates an embedding client backed by the provided vector source
func New(source VectorSource, opts ...Option) (Client, error) {
	if source == nil {
		return nil, goerr.New("vector source is required")
	}

	c := &client{
		source:    source,
		dimension: model.EmbeddingDimension,
		timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *client) Dimension() int {
	return c.dimension
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (c *client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.source.GenerateEmbedding(ctx, c.dimension, texts)
	if err != nil {
		return nil, goerr.Wrap(ErrUnavailable, "failed to generate embeddings",
			goerr.V("cause", err.Error()),
			goerr.V("count", len(texts)))
	}
	if len(raw) != len(texts) {
		return nil, goerr.Wrap(ErrUnavailable, "embedding count mismatch",
			goerr.V("requested", len(texts)),
			goerr.V("returned", len(raw)))
	}

	vectors := make([][]float32, len(raw))
	for i, v := range raw {
		if len(v) != c.dimension {
			return nil, goerr.Wrap(ErrUnavailable, "unexpected embedding dimension",
				goerr.V("expected", c.dimension),
				goerr.V("actual", len(v)))
		}
		normalized, err := normalize(v)
		if err != nil {
			return nil, goerr.Wrap(err, "cannot normalize embedding", goerr.V("position", i))
		}
		vectors[i] = normalized
	}

	return vectors, nil
}

// normalize divides the vector by its Euclidean norm so that inner product
// equals cosine similarity.
func normalize(v []float64) ([]float32, error) {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	norm := math.Sqrt(sum)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, ErrZeroVector
	}

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x / norm)
	}
	return out, nil
}
