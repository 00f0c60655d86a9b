package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/quotelab/premia/pkg/service/pricing"
)

func TestPricingConfigureDefault(t *testing.T) {
	var cfg Pricing

	matrix, err := cfg.Configure()
	gt.NoError(t, err).Required()
	gt.Value(t, matrix).Equal(pricing.DefaultMatrix())
}

func TestPricingConfigureOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.toml")
	content := `rate_per_thousand_inr = 22.0
min_yearly_inr = 4000.0
`
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o644)).Required()

	cfg := Pricing{configPath: path}
	matrix, err := cfg.Configure()
	gt.NoError(t, err).Required()

	// Overridden fields change, the rest keep their defaults
	gt.Number(t, matrix.RatePerThousandINR).Equal(22.0)
	gt.Number(t, matrix.MinYearlyINR).Equal(4000.0)
	gt.Number(t, matrix.MinSumInsuredINR).Equal(pricing.DefaultMatrix().MinSumInsuredINR)
	gt.Array(t, matrix.AgeBrackets).Length(len(pricing.DefaultMatrix().AgeBrackets))
}

func TestPricingConfigureInvalidOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.toml")
	gt.NoError(t, os.WriteFile(path, []byte("rate_per_thousand_inr = -1.0\n"), 0o644)).Required()

	cfg := Pricing{configPath: path}
	_, err := cfg.Configure()
	gt.Error(t, err)
}

func TestPricingConfigureMissingFile(t *testing.T) {
	cfg := Pricing{configPath: filepath.Join(t.TempDir(), "absent.toml")}
	_, err := cfg.Configure()
	gt.Error(t, err)
}

func TestPricingConfigureMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.toml")
	gt.NoError(t, os.WriteFile(path, []byte("rate_per_thousand_inr = [broken"), 0o644)).Required()

	cfg := Pricing{configPath: path}
	_, err := cfg.Configure()
	gt.Error(t, err)
}
