package pricing

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/domain/types"
)

// AgeBracket is one row of the age rate-factor category: profiles with
// age <= MaxAge that did not match an earlier bracket take Factor.
type AgeBracket struct {
	MaxAge int     `toml:"max_age"`
	Factor float64 `toml:"factor"`
}

// Matrix is the cost matrix: the base rate plus one rate-factor category
// per applicant attribute. Every category is exhaustive — lookups for
// values outside the configured rows resolve to an explicit default factor,
// never to a skipped adjustment — so the premium is always the product of
// exactly one factor per category.
type Matrix struct {
	// RatePerThousandINR is the annual base rate per 1000 INR of cover
	RatePerThousandINR float64 `toml:"rate_per_thousand_inr"`

	// MinSumInsuredINR is the floor applied to non-positive or absent
	// sum insured values
	MinSumInsuredINR int64 `toml:"min_sum_insured_inr"`

	// MinYearlyINR is the minimum yearly premium
	MinYearlyINR float64 `toml:"min_yearly_inr"`

	// InstallmentLoading is the surcharge fraction applied to each
	// per-installment amount for modes shorter than yearly
	InstallmentLoading float64 `toml:"installment_loading"`

	// AgeBrackets must be sorted by strictly increasing MaxAge; ages above
	// the last bracket take OverAgeFactor
	AgeBrackets   []AgeBracket `toml:"age_bracket"`
	OverAgeFactor float64      `toml:"over_age_factor"`

	TobaccoFactors map[types.TobaccoUse]float64 `toml:"tobacco_factors"`

	// PreExistingFactor applies when any pre-existing condition is present
	PreExistingFactor float64 `toml:"pre_existing_factor"`

	PlanTypeFactors map[types.PlanType]float64 `toml:"plan_type_factors"`

	// MemberStep is the additional fraction of the premium per insured
	// member beyond the first. Kept below 1.0 so each additional member
	// costs less than a full single-member premium.
	MemberStep float64 `toml:"member_step"`

	// MetroCities is the high-cost-of-care location tier; any other
	// location takes the default tier factor 1.0
	MetroCities []string `toml:"metro_cities"`
	MetroFactor float64  `toml:"metro_factor"`
}

// DefaultMatrix returns the reference cost matrix
func DefaultMatrix() Matrix {
	return Matrix{
		RatePerThousandINR: 18.0,
		MinSumInsuredINR:   100000,
		MinYearlyINR:       3000,
		InstallmentLoading: 0,
		AgeBrackets: []AgeBracket{
			{MaxAge: 25, Factor: 0.90},
			{MaxAge: 35, Factor: 1.00},
			{MaxAge: 45, Factor: 1.20},
			{MaxAge: 55, Factor: 1.45},
			{MaxAge: 65, Factor: 1.80},
		},
		OverAgeFactor: 2.20,
		TobaccoFactors: map[types.TobaccoUse]float64{
			types.TobaccoUseNo:         1.00,
			types.TobaccoUseOccasional: 1.10,
			types.TobaccoUseYes:        1.25,
		},
		PreExistingFactor: 1.10,
		PlanTypeFactors: map[types.PlanType]float64{
			types.PlanTypeIndividual: 1.00,
			types.PlanTypeFamily:     1.20,
		},
		MemberStep: 0.08,
		MetroCities: []string{
			"Mumbai", "Delhi", "Bengaluru", "Bangalore",
			"Chennai", "Kolkata", "Hyderabad", "Pune",
		},
		MetroFactor: 1.08,
	}
}

// Validate checks the matrix for consistency
func (m *Matrix) Validate() error {
	if m.RatePerThousandINR <= 0 {
		return goerr.New("rate per thousand must be positive",
			goerr.V("rate", m.RatePerThousandINR))
	}
	if m.MinSumInsuredINR <= 0 {
		return goerr.New("minimum sum insured must be positive",
			goerr.V("min", m.MinSumInsuredINR))
	}
	if m.MinYearlyINR < 0 {
		return goerr.New("minimum yearly premium must not be negative",
			goerr.V("min", m.MinYearlyINR))
	}
	if m.InstallmentLoading < 0 {
		return goerr.New("installment loading must not be negative",
			goerr.V("loading", m.InstallmentLoading))
	}
	if m.MemberStep < 0 || m.MemberStep >= 1 {
		return goerr.New("member step must be in [0, 1)",
			goerr.V("step", m.MemberStep))
	}

	if len(m.AgeBrackets) == 0 {
		return goerr.New("at least one age bracket is required")
	}
	prev := -1
	for i, b := range m.AgeBrackets {
		if b.MaxAge <= prev {
			return goerr.New("age brackets must be strictly increasing",
				goerr.V("index", i), goerr.V("maxAge", b.MaxAge))
		}
		if b.Factor <= 0 {
			return goerr.New("age bracket factor must be positive",
				goerr.V("index", i), goerr.V("factor", b.Factor))
		}
		prev = b.MaxAge
	}
	if m.OverAgeFactor <= 0 {
		return goerr.New("over-age factor must be positive",
			goerr.V("factor", m.OverAgeFactor))
	}

	for use, f := range m.TobaccoFactors {
		if f <= 0 {
			return goerr.New("tobacco factor must be positive",
				goerr.V("use", use), goerr.V("factor", f))
		}
	}
	for plan, f := range m.PlanTypeFactors {
		if f <= 0 {
			return goerr.New("plan type factor must be positive",
				goerr.V("plan", plan), goerr.V("factor", f))
		}
	}
	if m.PreExistingFactor <= 0 {
		return goerr.New("pre-existing factor must be positive",
			goerr.V("factor", m.PreExistingFactor))
	}
	if m.MetroFactor <= 0 {
		return goerr.New("metro factor must be positive",
			goerr.V("factor", m.MetroFactor))
	}

	return nil
}

func (m *Matrix) ageFactor(age int) float64 {
	for _, b := range m.AgeBrackets {
		if age <= b.MaxAge {
			return b.Factor
		}
	}
	return m.OverAgeFactor
}

func (m *Matrix) tobaccoFactor(use types.TobaccoUse) float64 {
	if f, ok := m.TobaccoFactors[use.Normalize()]; ok {
		return f
	}
	return 1.0
}

func (m *Matrix) planTypeFactor(plan types.PlanType) float64 {
	if f, ok := m.PlanTypeFactors[plan.Normalize()]; ok {
		return f
	}
	return 1.0
}

func (m *Matrix) locationFactor(location string) float64 {
	for _, city := range m.MetroCities {
		if city == location {
			return m.MetroFactor
		}
	}
	return 1.0
}
