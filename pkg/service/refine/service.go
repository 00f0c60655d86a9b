package refine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/quotelab/premia/pkg/domain/model"
	"github.com/quotelab/premia/pkg/utils/logging"
)

// Generator is the narrow request/response interface the adapter depends
// on. Any text-generation backend satisfies it; the gollem implementation
// below is the default.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, schema *gollem.Parameter) (string, error)
}

// Service nudges a baseline premium within a bounded tolerance using an
// external generation model. Every failure path falls back to the baseline;
// the adapter can never produce a figure outside the tolerance band and
// never fails the request.
type Service struct {
	generator Generator
	tolerance float64
	timeout   time.Duration
}

// Option is a functional option for Service configuration
type Option func(*Service)

// WithTolerance sets the allowed fractional deviation from the baseline
func WithTolerance(t float64) Option {
	return func(s *Service) {
		s.tolerance = t
	}
}

// WithTimeout sets the generation call timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

// New creates a refinement service over the given generator
func New(generator Generator, opts ...Option) (*Service, error) {
	if generator == nil {
		return nil, goerr.New("generator is required")
	}

	s := &Service{
		generator: generator,
		tolerance: 0.15,
		timeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.tolerance < 0 {
		return nil, goerr.New("tolerance must not be negative", goerr.V("tolerance", s.tolerance))
	}
	return s, nil
}

// llmAmount is the structured output expected from the generation model
type llmAmount struct {
	TotalPayableINR float64 `json:"totalPayableINR"`
}

// Refine asks the generation model for an adjusted yearly amount using the
// retrieved records as context. It returns the adjusted amount only when
// the output parses as a single finite non-negative number within the
// tolerance band around the baseline and the call finished within the
// timeout; otherwise it logs the reason and returns the baseline untouched.
// A single attempt is made, no retries.
func (s *Service) Refine(ctx context.Context, baseline float64, rc model.RetrievedContext, profile model.NormalizedProfile) float64 {
	logger := logging.From(ctx)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.generator.Generate(callCtx, systemPrompt, buildUserPrompt(baseline, rc, profile), responseSchema())
	if err != nil {
		logger.Warn("refinement rejected: generation call failed, using baseline",
			"error", err.Error(),
			"baseline", baseline,
		)
		return baseline
	}

	var amount llmAmount
	if err := json.Unmarshal([]byte(out), &amount); err != nil {
		logger.Warn("refinement rejected: output is not valid JSON, using baseline",
			"output", out,
			"baseline", baseline,
		)
		return baseline
	}

	refined := amount.TotalPayableINR
	if math.IsNaN(refined) || math.IsInf(refined, 0) || refined < 0 {
		logger.Warn("refinement rejected: amount is not a finite non-negative number, using baseline",
			"amount", refined,
			"baseline", baseline,
		)
		return baseline
	}

	if math.Abs(refined-baseline) > baseline*s.tolerance {
		logger.Warn("refinement rejected: amount outside tolerance band, using baseline",
			"amount", refined,
			"baseline", baseline,
			"tolerance", s.tolerance,
		)
		return baseline
	}

	return model.RoundINR(refined)
}

const systemPrompt = "You are a health insurance pricing assistant. " +
	"Given a deterministic baseline annual premium and similar historical records, " +
	"respond with a single adjusted annual premium amount in INR. " +
	"Stay close to the baseline; the adjustment must reflect only the historical records provided."

func buildUserPrompt(baseline float64, rc model.RetrievedContext, profile model.NormalizedProfile) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Baseline annual premium: ₹%.2f\n\n", baseline)

	fmt.Fprintf(&sb, "Applicant: age %d, plan %s, sum insured ₹%d, members %d\n\n",
		profile.Age, profile.PlanType, profile.SumInsuredINR, profile.Members)

	if len(rc) > 0 {
		sb.WriteString("Similar historical records:\n")
		for _, r := range rc {
			fmt.Fprintf(&sb, "- (similarity %.3f) %s\n", r.Score, r.Record.Snippet)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Respond with the adjusted total payable annual premium in INR.")
	return sb.String()
}

// responseSchema constrains the model to a single numeric field
func responseSchema() *gollem.Parameter {
	return &gollem.Parameter{
		Title:       "PremiumRefinement",
		Description: "Adjusted annual premium amount",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"totalPayableINR": {
				Type:        gollem.TypeNumber,
				Description: "The adjusted total payable annual premium in INR",
				Required:    true,
			},
		},
	}
}
