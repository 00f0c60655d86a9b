package index

import (
	"context"
	"errors"
	"io"
	"path"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
)

// GCSStorage persists artifacts as objects in a Google Cloud Storage
// bucket. GCS object writes are atomic on Close, which satisfies the
// ArtifactStorage contract.
type GCSStorage struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSStorage creates a GCS-backed artifact storage
func NewGCSStorage(ctx context.Context, bucket, prefix string) (*GCSStorage, error) {
	if bucket == "" {
		return nil, goerr.New("GCS bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS client")
	}

	return &GCSStorage{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (s *GCSStorage) object(name string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(path.Join(s.prefix, name))
}

func (s *GCSStorage) Get(ctx context.Context, name string) ([]byte, error) {
	r, err := s.object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, goerr.Wrap(ErrArtifactNotFound, "artifact object does not exist",
				goerr.V("name", name), goerr.V("bucket", s.bucket))
		}
		return nil, goerr.Wrap(err, "failed to open artifact object", goerr.V("name", name))
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read artifact object", goerr.V("name", name))
	}
	return data, nil
}

func (s *GCSStorage) Put(ctx context.Context, name string, data []byte) error {
	w := s.object(name).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write artifact object", goerr.V("name", name))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to commit artifact object", goerr.V("name", name))
	}
	return nil
}

// Close releases the underlying GCS client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
