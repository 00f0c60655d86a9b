package model

import (
	"math"

	"github.com/quotelab/premia/pkg/domain/types"
)

// PremiumBreakdown holds the yearly premium and the per-installment amounts
// derived from it. With a zero installment loading the installments sum back
// to the yearly figure within rounding tolerance; with a non-zero loading
// they intentionally do not.
type PremiumBreakdown struct {
	YearlyINR     float64 `json:"yearlyINR"`
	HalfYearlyINR float64 `json:"halfYearlyINR"`
	QuarterlyINR  float64 `json:"quarterlyINR"`
	MonthlyINR    float64 `json:"monthlyINR"`
}

// AmountFor returns the per-installment amount matching the given payment
// mode, used as the headline figure of a quote.
func (b PremiumBreakdown) AmountFor(mode types.PaymentMode) float64 {
	switch mode.Normalize() {
	case types.PaymentModeHalfYearly:
		return b.HalfYearlyINR
	case types.PaymentModeQuarterly:
		return b.QuarterlyINR
	case types.PaymentModeMonthly:
		return b.MonthlyINR
	default:
		return b.YearlyINR
	}
}

// RoundINR rounds an amount to 2 decimal places using round-half-up.
func RoundINR(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
