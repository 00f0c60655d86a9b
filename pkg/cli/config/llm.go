package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// LLM holds configuration for the LLM client used for embeddings and
// quote refinement
type LLM struct {
	projectID string
	location  string
}

// Flags returns CLI flags for LLM configuration
func (x *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("PREMIA_GEMINI_PROJECT"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("PREMIA_GEMINI_LOCATION"),
			Destination: &x.location,
		},
	}
}

// LogAttrs returns log attributes for the LLM configuration
func (x *LLM) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", x.projectID),
		slog.String("location", x.location),
	}
}

// Configure creates a new LLM client from the configured flags.
// Returns nil if projectID is not configured (retrieval and refinement
// will be disabled).
func (x *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if x.projectID == "" {
		return nil, nil
	}

	client, err := gemini.New(ctx, x.projectID, x.location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	return client, nil
}
