package pricing_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/quotelab/premia/pkg/service/pricing"
)

func TestDefaultMatrixIsValid(t *testing.T) {
	matrix := pricing.DefaultMatrix()
	gt.NoError(t, matrix.Validate())
}

func TestMatrixValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*pricing.Matrix)
	}{
		{
			name:   "zero base rate",
			mutate: func(m *pricing.Matrix) { m.RatePerThousandINR = 0 },
		},
		{
			name:   "negative minimum yearly",
			mutate: func(m *pricing.Matrix) { m.MinYearlyINR = -1 },
		},
		{
			name:   "zero minimum sum insured",
			mutate: func(m *pricing.Matrix) { m.MinSumInsuredINR = 0 },
		},
		{
			name:   "negative installment loading",
			mutate: func(m *pricing.Matrix) { m.InstallmentLoading = -0.01 },
		},
		{
			name:   "member step at one",
			mutate: func(m *pricing.Matrix) { m.MemberStep = 1.0 },
		},
		{
			name:   "no age brackets",
			mutate: func(m *pricing.Matrix) { m.AgeBrackets = nil },
		},
		{
			name: "age brackets out of order",
			mutate: func(m *pricing.Matrix) {
				m.AgeBrackets = []pricing.AgeBracket{
					{MaxAge: 45, Factor: 1.2},
					{MaxAge: 35, Factor: 1.0},
				}
			},
		},
		{
			name: "zero bracket factor",
			mutate: func(m *pricing.Matrix) {
				m.AgeBrackets = []pricing.AgeBracket{{MaxAge: 35, Factor: 0}}
			},
		},
		{
			name:   "zero over-age factor",
			mutate: func(m *pricing.Matrix) { m.OverAgeFactor = 0 },
		},
		{
			name:   "zero pre-existing factor",
			mutate: func(m *pricing.Matrix) { m.PreExistingFactor = 0 },
		},
		{
			name:   "zero metro factor",
			mutate: func(m *pricing.Matrix) { m.MetroFactor = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matrix := pricing.DefaultMatrix()
			tt.mutate(&matrix)
			gt.Error(t, matrix.Validate())
		})
	}
}
