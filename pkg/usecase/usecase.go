package usecase

import (
	"github.com/quotelab/premia/pkg/service/pricing"
	"github.com/quotelab/premia/pkg/service/refine"
	"github.com/quotelab/premia/pkg/service/retrieval"
)

// UseCases composes the quote computation engine: the deterministic
// baseline calculator, the optional retrieval context layer, and the
// optional bounded refinement step.
type UseCases struct {
	calculator *pricing.Calculator
	retrieval  *retrieval.Service
	refiner    *refine.Service
	topK       int
}

// Option is a functional option for UseCases
type Option func(*UseCases)

// WithRetrieval enables the retrieval-augmented context layer
func WithRetrieval(svc *retrieval.Service) Option {
	return func(uc *UseCases) {
		uc.retrieval = svc
	}
}

// WithRefiner enables the bounded numeric refinement step
func WithRefiner(svc *refine.Service) Option {
	return func(uc *UseCases) {
		uc.refiner = svc
	}
}

// WithTopK sets the number of context records retrieved per quote
func WithTopK(k int) Option {
	return func(uc *UseCases) {
		uc.topK = k
	}
}

// New creates the quote engine use cases. Retrieval and refinement are
// optional; without them quotes are baseline-only.
func New(calculator *pricing.Calculator, opts ...Option) *UseCases {
	uc := &UseCases{
		calculator: calculator,
		topK:       retrieval.DefaultTopK,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}
