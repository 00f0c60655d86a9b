package index

import (
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/domain/model"
)

// Snapshot is an immutable in-memory vector index with its position-aligned
// metadata. Vectors are expected to be L2-normalized, so the inner product
// against a normalized query equals cosine similarity. A snapshot is never
// mutated after construction; concurrent reads need no locking.
type Snapshot struct {
	dimension int
	vectors   [][]float32
	records   []model.IndexedRecord
}

// Builder accumulates aligned vector/record pairs for a new snapshot
type Builder struct {
	dimension int
	vectors   [][]float32
	records   []model.IndexedRecord
}

// NewBuilder creates a builder for snapshots of the given vector dimension
func NewBuilder(dimension int) (*Builder, error) {
	if dimension <= 0 {
		return nil, goerr.New("invalid vector dimension", goerr.V("dimension", dimension))
	}
	return &Builder{dimension: dimension}, nil
}

// Add appends a vector and its record, preserving positional alignment.
// The record's ordinal is assigned from its position.
func (b *Builder) Add(vector []float32, record model.IndexedRecord) error {
	if len(vector) != b.dimension {
		return goerr.Wrap(ErrDimensionMismatch, "vector dimension mismatch",
			goerr.V("expected", b.dimension),
			goerr.V("actual", len(vector)))
	}

	record.Ordinal = len(b.records)
	b.vectors = append(b.vectors, vector)
	b.records = append(b.records, record)
	return nil
}

// Len returns the number of pairs added so far
func (b *Builder) Len() int {
	return len(b.records)
}

// Snapshot seals the builder into an immutable snapshot
func (b *Builder) Snapshot() *Snapshot {
	return &Snapshot{
		dimension: b.dimension,
		vectors:   b.vectors,
		records:   b.records,
	}
}

// Len returns the number of stored vectors
func (s *Snapshot) Len() int {
	return len(s.vectors)
}

// Dimension returns the vector dimension
func (s *Snapshot) Dimension() int {
	return s.dimension
}

// Records returns the stored metadata records in insertion order
func (s *Snapshot) Records() []model.IndexedRecord {
	return s.records
}

// Search scores the query against every stored vector by inner product and
// returns the top-k records by descending score. Ties are broken by lower
// insertion ordinal so that an unchanged index always returns the same
// order for the same query.
func (s *Snapshot) Search(query []float32, k int) model.RetrievedContext {
	if k <= 0 || len(s.vectors) == 0 || len(query) != s.dimension {
		return nil
	}

	scores := make([]float64, len(s.vectors))
	for i, v := range s.vectors {
		scores[i] = dot(v, query)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		return a < b
	})

	if k > len(order) {
		k = len(order)
	}

	result := make(model.RetrievedContext, 0, k)
	for _, idx := range order[:k] {
		result = append(result, model.RetrievedRecord{
			Record: s.records[idx],
			Score:  scores[idx],
		})
	}
	return result
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
