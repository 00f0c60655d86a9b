package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/quotelab/premia/pkg/service/pricing"
	"github.com/quotelab/premia/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Pricing holds CLI flags for cost matrix configuration
type Pricing struct {
	configPath string
}

// Flags returns CLI flags for pricing configuration
func (x *Pricing) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "pricing-config",
			Usage:       "Path to a TOML cost matrix file (optional, defaults to the built-in matrix)",
			Sources:     cli.EnvVars("PREMIA_PRICING_CONFIG"),
			Destination: &x.configPath,
		},
	}
}

// Configure returns the cost matrix: the built-in default, optionally
// overridden by a TOML file. The file only needs to set the fields it
// wants to change.
func (x *Pricing) Configure() (pricing.Matrix, error) {
	matrix := pricing.DefaultMatrix()

	if x.configPath != "" {
		// #nosec G304 - path is expected to be provided by CLI argument
		data, err := os.ReadFile(x.configPath)
		if err != nil {
			return pricing.Matrix{}, goerr.Wrap(err, "failed to read pricing config",
				goerr.V("path", x.configPath))
		}
		if err := toml.Unmarshal(data, &matrix); err != nil {
			return pricing.Matrix{}, goerr.Wrap(err, "failed to parse pricing config",
				goerr.V("path", x.configPath))
		}
		logging.Default().Info("Loaded pricing config", "path", x.configPath)
	}

	if err := matrix.Validate(); err != nil {
		return pricing.Matrix{}, goerr.Wrap(err, "pricing config validation failed")
	}

	return matrix, nil
}
