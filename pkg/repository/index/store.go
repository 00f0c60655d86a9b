package index

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/domain/model"
	"github.com/quotelab/premia/pkg/utils/logging"
)

// Store holds the current index snapshot for the process. Readers capture
// the snapshot once per request; Load/Reload build a full replacement in
// memory and swap the reference atomically, so in-flight requests keep
// using the old snapshot and no partial state is ever visible.
type Store struct {
	storage ArtifactStorage

	snap     atomic.Pointer[Snapshot]
	notReady atomic.Pointer[string]
	reloadMu sync.Mutex
}

// New creates a store backed by the given artifact storage. The store
// starts empty; call Load to read the persisted artifacts.
func New(storage ArtifactStorage) *Store {
	s := &Store{storage: storage}
	reason := "index not loaded yet"
	s.notReady.Store(&reason)
	return s
}

// Load reads both artifacts, cross-checks their counts and dimensions, and
// swaps in the resulting snapshot. Concurrent Load calls are serialized;
// readers are never blocked. On failure the previous snapshot (if any)
// stays in place and the not-ready reason is recorded.
func (s *Store) Load(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		reason := loadFailureReason(err)
		s.notReady.Store(&reason)
		return err
	}

	s.snap.Store(snap)
	s.notReady.Store(nil)

	logging.From(ctx).Info("index snapshot loaded",
		"vectors", snap.Len(),
		"dimension", snap.Dimension(),
	)
	return nil
}

func (s *Store) loadSnapshot(ctx context.Context) (*Snapshot, error) {
	vectorData, err := s.storage.Get(ctx, VectorArtifact)
	if err != nil {
		return nil, err
	}
	metaData, err := s.storage.Get(ctx, MetadataArtifact)
	if err != nil {
		return nil, err
	}

	dimension, vectors, err := decodeVectors(vectorData)
	if err != nil {
		return nil, err
	}
	meta, err := decodeMetadata(metaData)
	if err != nil {
		return nil, err
	}

	if meta.Count != len(vectors) {
		return nil, goerr.Wrap(ErrIndexCorrupt, "vector and metadata counts disagree",
			goerr.V("vectors", len(vectors)),
			goerr.V("metadata", meta.Count))
	}
	if meta.Dimension != dimension {
		return nil, goerr.Wrap(ErrIndexCorrupt, "vector and metadata dimensions disagree",
			goerr.V("vectorDim", dimension),
			goerr.V("metadataDim", meta.Dimension))
	}

	return &Snapshot{
		dimension: dimension,
		vectors:   vectors,
		records:   meta.Records,
	}, nil
}

// Write persists a snapshot to the artifact storage. It does not swap the
// in-memory reference; ingestion runs offline and serving processes pick
// the new artifacts up via Load.
func (s *Store) Write(ctx context.Context, snap *Snapshot) error {
	vectorData, err := encodeVectors(snap.dimension, snap.vectors)
	if err != nil {
		return err
	}
	metaData, err := encodeMetadata(snap.dimension, snap.records)
	if err != nil {
		return err
	}

	// Metadata goes last: a reader pairing old metadata with new vectors
	// is caught by the count cross-check at load time.
	if err := s.storage.Put(ctx, VectorArtifact, vectorData); err != nil {
		return err
	}
	if err := s.storage.Put(ctx, MetadataArtifact, metaData); err != nil {
		return err
	}
	return nil
}

// Snapshot returns the current snapshot and whether one is loaded
func (s *Store) Snapshot() (*Snapshot, bool) {
	snap := s.snap.Load()
	return snap, snap != nil
}

// Status reports the current state of the store
func (s *Store) Status() model.IndexStatus {
	snap := s.snap.Load()
	if snap == nil {
		status := model.IndexStatus{Loaded: false}
		if reason := s.notReady.Load(); reason != nil {
			status.Reason = *reason
		}
		return status
	}

	return model.IndexStatus{
		Loaded:        true,
		TotalVectors:  snap.Len(),
		Dimension:     snap.Dimension(),
		MetadataCount: len(snap.Records()),
	}
}

func loadFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrArtifactNotFound):
		return "index artifacts are absent; run ingest to build them"
	case errors.Is(err, ErrIndexCorrupt):
		return "index artifacts are corrupt or misaligned"
	default:
		return "failed to load index: " + err.Error()
	}
}
