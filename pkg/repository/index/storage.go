package index

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

// ArtifactStorage abstracts where the two index artifacts are persisted.
// Implementations must make Put atomic per artifact: a reader never
// observes a half-written artifact.
type ArtifactStorage interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Put(ctx context.Context, name string, data []byte) error
}

// LocalStorage persists artifacts in a local directory. Writes go to a
// temporary file in the same directory followed by a rename.
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates a local directory artifact storage
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if dir == "" {
		return nil, goerr.New("index directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create index directory", goerr.V("dir", dir))
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrArtifactNotFound, "artifact file does not exist",
				goerr.V("name", name), goerr.V("dir", s.dir))
		}
		return nil, goerr.Wrap(err, "failed to read artifact", goerr.V("name", name))
	}
	return data, nil
}

func (s *LocalStorage) Put(ctx context.Context, name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp artifact", goerr.V("name", name))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to write temp artifact", goerr.V("name", name))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to close temp artifact", goerr.V("name", name))
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to commit artifact", goerr.V("name", name))
	}
	return nil
}
