package refine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
	"github.com/quotelab/premia/pkg/domain/model"
	"github.com/quotelab/premia/pkg/service/refine"
)

// stubGenerator returns a canned output or error
type stubGenerator struct {
	output string
	err    error
	block  bool

	lastSystem string
	lastUser   string
	lastSchema *gollem.Parameter
}

func (s *stubGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string, schema *gollem.Parameter) (string, error) {
	s.lastSystem = systemPrompt
	s.lastUser = userPrompt
	s.lastSchema = schema

	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if s.err != nil {
		return "", s.err
	}
	return s.output, nil
}

func TestNewRequiresGenerator(t *testing.T) {
	_, err := refine.New(nil)
	gt.Error(t, err)
}

func TestNewRejectsNegativeTolerance(t *testing.T) {
	_, err := refine.New(&stubGenerator{}, refine.WithTolerance(-0.1))
	gt.Error(t, err)
}

func TestRefineAcceptsAmountWithinBand(t *testing.T) {
	gen := &stubGenerator{output: `{"totalPayableINR": 9500}`}
	svc, err := refine.New(gen)
	gt.NoError(t, err).Required()

	got := svc.Refine(context.Background(), 9000, nil, model.NormalizedProfile{})
	gt.Number(t, got).Equal(9500.0)
}

func TestRefineRejectsAmountOutsideBand(t *testing.T) {
	// Band around 9000 at the default tolerance is [7650, 10350]
	tests := []struct {
		name   string
		output string
	}{
		{name: "too high", output: `{"totalPayableINR": 10351}`},
		{name: "too low", output: `{"totalPayableINR": 7649}`},
		{name: "wildly off", output: `{"totalPayableINR": 90000}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := refine.New(&stubGenerator{output: tt.output})
			gt.NoError(t, err).Required()

			got := svc.Refine(context.Background(), 9000, nil, model.NormalizedProfile{})
			gt.Number(t, got).Equal(9000.0)
		})
	}
}

func TestRefineBandBoundaries(t *testing.T) {
	svc, err := refine.New(&stubGenerator{output: `{"totalPayableINR": 10350}`})
	gt.NoError(t, err).Required()

	// Exactly on the boundary is accepted
	got := svc.Refine(context.Background(), 9000, nil, model.NormalizedProfile{})
	gt.Number(t, got).Equal(10350.0)
}

func TestRefineRejectsInvalidOutputs(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{name: "not json", output: "about nine thousand"},
		{name: "wrong type", output: `{"totalPayableINR": "9000"}`},
		{name: "negative amount", output: `{"totalPayableINR": -10}`},
		{name: "empty object accepted as zero then rejected by band", output: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := refine.New(&stubGenerator{output: tt.output})
			gt.NoError(t, err).Required()

			got := svc.Refine(context.Background(), 9000, nil, model.NormalizedProfile{})
			gt.Number(t, got).Equal(9000.0)
		})
	}
}

func TestRefineGeneratorFailureFallsBack(t *testing.T) {
	svc, err := refine.New(&stubGenerator{err: errors.New("model unavailable")})
	gt.NoError(t, err).Required()

	got := svc.Refine(context.Background(), 9000, nil, model.NormalizedProfile{})
	gt.Number(t, got).Equal(9000.0)
}

func TestRefineTimeoutFallsBack(t *testing.T) {
	svc, err := refine.New(&stubGenerator{block: true}, refine.WithTimeout(10*time.Millisecond))
	gt.NoError(t, err).Required()

	start := time.Now()
	got := svc.Refine(context.Background(), 9000, nil, model.NormalizedProfile{})
	gt.Number(t, got).Equal(9000.0)
	gt.Bool(t, time.Since(start) < 5*time.Second).True()
}

func TestRefineNeverExceedsTolerance(t *testing.T) {
	// Whatever the model emits, the result stays within the band or falls
	// back to the baseline exactly.
	baseline := 9000.0
	tolerance := 0.15

	for _, amount := range []float64{0, 5000, 7649, 7650, 9000, 10350, 10351, 1e9} {
		gen := &stubGenerator{output: fmt.Sprintf(`{"totalPayableINR": %f}`, amount)}
		svc, err := refine.New(gen, refine.WithTolerance(tolerance))
		gt.NoError(t, err).Required()

		got := svc.Refine(context.Background(), baseline, nil, model.NormalizedProfile{})
		within := got >= baseline*(1-tolerance) && got <= baseline*(1+tolerance)
		gt.Bool(t, within || got == baseline).True()
	}
}

func TestRefinePromptIncludesContext(t *testing.T) {
	gen := &stubGenerator{output: `{"totalPayableINR": 9000}`}
	svc, err := refine.New(gen)
	gt.NoError(t, err).Required()

	rc := model.RetrievedContext{
		{
			Record: model.IndexedRecord{Snippet: "Age: 31; Premium: ₹9100", PremiumINR: 9100},
			Score:  0.97,
		},
	}
	profile := model.NormalizedProfile{Age: 30, SumInsuredINR: 500000, Members: 1}

	svc.Refine(context.Background(), 9000, rc, profile)

	gt.Value(t, gen.lastSystem).NotEqual("")
	gt.String(t, gen.lastUser).Contains("9000.00")
	gt.String(t, gen.lastUser).Contains("Age: 31; Premium: ₹9100")
	gt.Value(t, gen.lastSchema).NotNil()
	gt.Value(t, gen.lastSchema.Properties["totalPayableINR"].Required).Equal(true)
}
