package index

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the vector index store
var (
	// ErrArtifactNotFound indicates a persisted artifact does not exist
	ErrArtifactNotFound = goerr.New("index artifact not found")

	// ErrIndexCorrupt indicates the vector blob and metadata disagree,
	// e.g. mismatched record counts or dimensions. Fatal at load time:
	// the store stays not-ready rather than serving a misaligned index.
	ErrIndexCorrupt = goerr.New("index artifacts are corrupt or misaligned")

	// ErrDimensionMismatch indicates a vector with the wrong dimension
	ErrDimensionMismatch = goerr.New("vector dimension mismatch")
)
