package retrieval

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/domain/model"
	"github.com/quotelab/premia/pkg/repository/index"
	"github.com/quotelab/premia/pkg/service/embedding"
)

// DefaultTopK is the number of records retrieved when the caller does not
// specify k.
const DefaultTopK = 8

// Service retrieves the stored records most similar to a query profile.
// It never mutates the store.
type Service struct {
	store    *index.Store
	embedder embedding.Client
}

// New creates a retrieval service over the given store and embedder
func New(store *index.Store, embedder embedding.Client) (*Service, error) {
	if store == nil {
		return nil, goerr.New("index store is required")
	}
	if embedder == nil {
		return nil, goerr.New("embedding client is required")
	}
	return &Service{store: store, embedder: embedder}, nil
}

// Retrieve embeds the query profile and returns the top-k stored records by
// descending similarity. An empty or not-loaded store yields an empty
// context with no error; an embedding failure is returned as an error for
// the caller to recover from with an empty context.
func (s *Service) Retrieve(ctx context.Context, profile model.ApplicantProfile, k int) (model.RetrievedContext, error) {
	snap, ok := s.store.Snapshot()
	if !ok || snap.Len() == 0 {
		return nil, nil
	}

	if k <= 0 {
		k = DefaultTopK
	}

	query, err := s.embedder.Embed(ctx, profile.QueryText())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query profile")
	}
	if len(query) != snap.Dimension() {
		return nil, goerr.Wrap(index.ErrDimensionMismatch, "query dimension differs from index",
			goerr.V("query", len(query)),
			goerr.V("index", snap.Dimension()))
	}

	return snap.Search(query, k), nil
}

// Status reports the state of the underlying index store
func (s *Service) Status() model.IndexStatus {
	return s.store.Status()
}
