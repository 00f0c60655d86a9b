package usecase

import (
	"context"

	"github.com/quotelab/premia/pkg/domain/model"
	"github.com/quotelab/premia/pkg/utils/logging"
)

// QuoteResponse is the boundary payload returned to the request layer.
// TotalPayableINR is the per-installment figure matching the requested
// payment mode.
type QuoteResponse struct {
	TotalPayableINR float64 `json:"totalPayableINR"`
	YearlyINR       float64 `json:"yearlyINR"`
	HalfYearlyINR   float64 `json:"halfYearlyINR"`
	QuarterlyINR    float64 `json:"quarterlyINR"`
	MonthlyINR      float64 `json:"monthlyINR"`
}

// ComputeQuote produces a premium quote for the profile. Retrieval and
// refinement trouble never fail the quote: retrieval degrades to an empty
// context and refinement falls back to the baseline, so the operation is
// total for any structurally valid profile.
func (uc *UseCases) ComputeQuote(ctx context.Context, profile model.ApplicantProfile) (*QuoteResponse, error) {
	logger := logging.From(ctx)

	yearly := uc.calculator.YearlyBaseline(profile)

	var rc model.RetrievedContext
	if uc.retrieval != nil {
		retrieved, err := uc.retrieval.Retrieve(ctx, profile, uc.topK)
		if err != nil {
			logger.Warn("retrieval unavailable, continuing with empty context",
				"error", err.Error())
		} else {
			rc = retrieved
		}
	}

	if uc.refiner != nil {
		yearly = uc.refiner.Refine(ctx, yearly, rc, profile.Normalized())
	}

	// Per-term amounts are recomputed from whichever yearly figure is
	// final so they stay consistent with a refined total.
	breakdown := uc.calculator.Breakdown(yearly)

	return &QuoteResponse{
		TotalPayableINR: breakdown.AmountFor(profile.PaymentMode),
		YearlyINR:       breakdown.YearlyINR,
		HalfYearlyINR:   breakdown.HalfYearlyINR,
		QuarterlyINR:    breakdown.QuarterlyINR,
		MonthlyINR:      breakdown.MonthlyINR,
	}, nil
}

// IndexStatus reports the state of the vector index store, or a not-ready
// state when retrieval is not configured.
func (uc *UseCases) IndexStatus(ctx context.Context) model.IndexStatus {
	if uc.retrieval == nil {
		return model.IndexStatus{
			Loaded: false,
			Reason: "retrieval is not configured; embedding backend is unavailable",
		}
	}
	return uc.retrieval.Status()
}
