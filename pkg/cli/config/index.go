package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/repository/index"
	"github.com/quotelab/premia/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Index holds CLI flags for the index artifact storage backend
type Index struct {
	backend   string
	dir       string
	gcsBucket string
	gcsPrefix string
}

// Flags returns CLI flags for index storage configuration
func (x *Index) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "index-backend",
			Usage:       "Index artifact storage backend (local or gcs)",
			Value:       "local",
			Sources:     cli.EnvVars("PREMIA_INDEX_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "index-dir",
			Usage:       "Directory for index artifacts (local backend)",
			Value:       "index",
			Sources:     cli.EnvVars("PREMIA_INDEX_DIR"),
			Destination: &x.dir,
		},
		&cli.StringFlag{
			Name:        "index-gcs-bucket",
			Usage:       "GCS bucket for index artifacts (gcs backend)",
			Sources:     cli.EnvVars("PREMIA_INDEX_GCS_BUCKET"),
			Destination: &x.gcsBucket,
		},
		&cli.StringFlag{
			Name:        "index-gcs-prefix",
			Usage:       "Object name prefix within the GCS bucket",
			Sources:     cli.EnvVars("PREMIA_INDEX_GCS_PREFIX"),
			Destination: &x.gcsPrefix,
		},
	}
}

// Configure initializes the artifact storage based on the configured
// backend
func (x *Index) Configure(ctx context.Context) (index.ArtifactStorage, error) {
	switch x.backend {
	case "local":
		storage, err := index.NewLocalStorage(x.dir)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize local index storage")
		}
		logging.Default().Info("Using local index storage", "dir", x.dir)
		return storage, nil

	case "gcs":
		storage, err := index.NewGCSStorage(ctx, x.gcsBucket, x.gcsPrefix)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize GCS index storage")
		}
		logging.Default().Info("Using GCS index storage",
			"bucket", x.gcsBucket,
			"prefix", x.gcsPrefix,
		)
		return storage, nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid index backend", goerr.V("backend", x.backend))
	}
}
