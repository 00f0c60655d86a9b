package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/cli/config"
	"github.com/quotelab/premia/pkg/repository/index"
	"github.com/quotelab/premia/pkg/service/embedding"
	"github.com/quotelab/premia/pkg/usecase"
	"github.com/quotelab/premia/pkg/utils/logging"
	"github.com/quotelab/premia/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdIngest() *cli.Command {
	var csvPath string
	var concurrency int64
	var llmCfg config.LLM
	var idxCfg config.Index

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "csv",
			Usage:       "Path to the historical records CSV file",
			Required:    true,
			Sources:     cli.EnvVars("PREMIA_INGEST_CSV"),
			Destination: &csvPath,
		},
		&cli.Int64Flag{
			Name:        "concurrency",
			Usage:       "Maximum concurrent embedding calls",
			Value:       4,
			Sources:     cli.EnvVars("PREMIA_INGEST_CONCURRENCY"),
			Destination: &concurrency,
		},
	}

	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, idxCfg.Flags()...)

	return &cli.Command{
		Name:    "ingest",
		Aliases: []string{"i"},
		Usage:   "Build the vector index from a CSV of historical records",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}
			if llmClient == nil {
				return goerr.New("LLM configuration is required for ingestion")
			}

			storage, err := idxCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize index storage")
			}

			embedder, err := embedding.New(llmClient)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize embedding client")
			}

			ingest, err := usecase.NewIngest(embedder, index.New(storage),
				usecase.WithConcurrency(int(concurrency)))
			if err != nil {
				return goerr.Wrap(err, "failed to initialize ingestion pipeline")
			}

			// #nosec G304 - path is expected to be provided by CLI argument
			f, err := os.Open(csvPath)
			if err != nil {
				return goerr.Wrap(err, "failed to open CSV file", goerr.V("path", csvPath))
			}
			defer safe.Close(ctx, f)

			logger.Info("Starting ingestion", "csv", csvPath)

			report, err := ingest.Ingest(ctx, f)
			if err != nil {
				return goerr.Wrap(err, "ingestion failed")
			}

			logger.Info("Ingestion succeeded",
				"total", report.TotalRows,
				"ingested", report.Ingested,
				"skipped", report.Skipped,
				"dropped", report.Dropped,
				"dimension", report.Dimension,
			)
			return nil
		},
	}
}
