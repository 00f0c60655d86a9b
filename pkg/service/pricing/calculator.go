package pricing

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/domain/model"
)

// Calculator computes deterministic baseline premiums from the cost matrix.
// It is a pure function of its input: identical profiles always yield
// identical amounts, and absent fields resolve to the same factors as
// explicitly set defaults.
type Calculator struct {
	matrix Matrix
}

// NewCalculator creates a calculator after validating the matrix
func NewCalculator(matrix Matrix) (*Calculator, error) {
	if err := matrix.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid cost matrix")
	}
	return &Calculator{matrix: matrix}, nil
}

// Matrix returns the cost matrix in use
func (c *Calculator) Matrix() Matrix {
	return c.matrix
}

// YearlyBaseline computes the deterministic annual premium for a profile.
// It is total: any profile, however sparse, yields a positive amount.
func (c *Calculator) YearlyBaseline(profile model.ApplicantProfile) float64 {
	np := profile.Normalized()

	sumInsured := np.SumInsuredINR
	if sumInsured < c.matrix.MinSumInsuredINR {
		sumInsured = c.matrix.MinSumInsuredINR
	}

	base := float64(sumInsured) / 1000.0 * c.matrix.RatePerThousandINR

	// All adjustments are multiplicative and therefore commute; the order
	// below is fixed for readability only.
	premium := base
	premium *= c.matrix.ageFactor(np.Age)
	premium *= c.matrix.tobaccoFactor(np.TobaccoUse)
	if np.HasPreExisting {
		premium *= c.matrix.PreExistingFactor
	}
	premium *= c.matrix.planTypeFactor(np.PlanType)
	premium *= 1.0 + float64(np.Members-1)*c.matrix.MemberStep
	premium *= c.matrix.locationFactor(np.Location)

	if premium < c.matrix.MinYearlyINR {
		premium = c.matrix.MinYearlyINR
	}
	return model.RoundINR(premium)
}

// Breakdown derives the per-installment amounts from a yearly figure.
// Each amount is the yearly figure divided by the installments per year,
// loaded by the configured surcharge for modes shorter than yearly, and
// rounded independently.
func (c *Calculator) Breakdown(yearly float64) model.PremiumBreakdown {
	return model.PremiumBreakdown{
		YearlyINR:     model.RoundINR(yearly),
		HalfYearlyINR: c.installment(yearly, 2),
		QuarterlyINR:  c.installment(yearly, 4),
		MonthlyINR:    c.installment(yearly, 12),
	}
}

// Baseline computes the full deterministic breakdown for a profile
func (c *Calculator) Baseline(profile model.ApplicantProfile) model.PremiumBreakdown {
	return c.Breakdown(c.YearlyBaseline(profile))
}

func (c *Calculator) installment(yearly float64, perYear int) float64 {
	amount := yearly / float64(perYear) * (1.0 + c.matrix.InstallmentLoading)
	return model.RoundINR(amount)
}
