package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/cli/config"
	httpctrl "github.com/quotelab/premia/pkg/controller/http"
	"github.com/quotelab/premia/pkg/repository/index"
	"github.com/quotelab/premia/pkg/service/embedding"
	"github.com/quotelab/premia/pkg/service/pricing"
	"github.com/quotelab/premia/pkg/service/refine"
	"github.com/quotelab/premia/pkg/service/retrieval"
	"github.com/quotelab/premia/pkg/usecase"
	"github.com/quotelab/premia/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var topK int64
	var enableRefine bool
	var refineTolerance float64
	var refineTimeout time.Duration
	var llmCfg config.LLM
	var idxCfg config.Index
	var pricingCfg config.Pricing

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("PREMIA_ADDR"),
			Destination: &addr,
		},
		&cli.Int64Flag{
			Name:        "top-k",
			Usage:       "Number of similar records retrieved as quote context",
			Value:       retrieval.DefaultTopK,
			Sources:     cli.EnvVars("PREMIA_TOP_K"),
			Destination: &topK,
		},
		&cli.BoolFlag{
			Name:        "refine",
			Usage:       "Enable LLM refinement of the baseline premium",
			Sources:     cli.EnvVars("PREMIA_REFINE"),
			Destination: &enableRefine,
		},
		&cli.FloatFlag{
			Name:        "refine-tolerance",
			Usage:       "Allowed fractional deviation of a refined amount from the baseline",
			Value:       0.15,
			Sources:     cli.EnvVars("PREMIA_REFINE_TOLERANCE"),
			Destination: &refineTolerance,
		},
		&cli.DurationFlag{
			Name:        "refine-timeout",
			Usage:       "Timeout for a single refinement call",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("PREMIA_REFINE_TIMEOUT"),
			Destination: &refineTimeout,
		},
	}

	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, idxCfg.Flags()...)
	flags = append(flags, pricingCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the quote HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			matrix, err := pricingCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load pricing configuration")
			}
			calculator, err := pricing.NewCalculator(matrix)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize calculator")
			}

			ucOpts := []usecase.Option{
				usecase.WithTopK(int(topK)),
			}

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize LLM client")
			}

			if llmClient != nil {
				storage, err := idxCfg.Configure(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize index storage")
				}

				store := index.New(storage)
				if err := store.Load(ctx); err != nil {
					// A missing or corrupt index is surfaced as not-ready;
					// the server keeps serving baseline-only quotes.
					logging.Default().Warn("index not loaded, serving baseline-only quotes",
						"error", err.Error())
				}

				embedder, err := embedding.New(llmClient)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize embedding client")
				}
				retrievalSvc, err := retrieval.New(store, embedder)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize retrieval service")
				}
				ucOpts = append(ucOpts, usecase.WithRetrieval(retrievalSvc))

				if enableRefine {
					generator, err := refine.NewGollemGenerator(llmClient)
					if err != nil {
						return goerr.Wrap(err, "failed to initialize generator")
					}
					refiner, err := refine.New(generator,
						refine.WithTolerance(refineTolerance),
						refine.WithTimeout(refineTimeout),
					)
					if err != nil {
						return goerr.Wrap(err, "failed to initialize refinement service")
					}
					ucOpts = append(ucOpts, usecase.WithRefiner(refiner))
					logging.Default().Info("LLM refinement enabled",
						"tolerance", refineTolerance,
						"timeout", refineTimeout,
					)
				}
			} else {
				logging.Default().Info("LLM not configured, retrieval and refinement disabled")
			}

			uc := usecase.New(calculator, ucOpts...)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
