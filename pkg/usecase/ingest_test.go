package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/quotelab/premia/pkg/repository/index"
	"github.com/quotelab/premia/pkg/service/embedding"
	"github.com/quotelab/premia/pkg/usecase"
)

// ingestEmbedder embeds every text to a unit vector, with optional per-text
// failure markers
type ingestEmbedder struct {
	zeroFor string
	err     error
}

func (s *ingestEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.zeroFor != "" && strings.Contains(text, s.zeroFor) {
		return nil, embedding.ErrZeroVector
	}
	return []float32{1, 0}, nil
}

func (s *ingestEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (s *ingestEmbedder) Dimension() int {
	return 2
}

func newIngestStore(t *testing.T) *index.Store {
	t.Helper()
	storage, err := index.NewLocalStorage(t.TempDir())
	gt.NoError(t, err).Required()
	return index.New(storage)
}

const sampleCSV = `Age,Gender,Location,Plan_Type,Sum_Insured,Height_cm,Weight_kg,Premium_INR
30,Male,Pune,Individual,500000,175,70,9000
45,Female,Mumbai,Family,1000000,160,62,21500
52,Male,Nagpur,Individual,300000,,,13400
`

func TestIngestHappyPath(t *testing.T) {
	store := newIngestStore(t)
	ingest, err := usecase.NewIngest(&ingestEmbedder{}, store)
	gt.NoError(t, err).Required()

	ctx := context.Background()
	report, err := ingest.Ingest(ctx, strings.NewReader(sampleCSV))
	gt.NoError(t, err).Required()

	gt.Number(t, report.TotalRows).Equal(3)
	gt.Number(t, report.Ingested).Equal(3)
	gt.Number(t, report.Skipped).Equal(0)
	gt.Number(t, report.Dropped).Equal(0)
	gt.Number(t, report.Dimension).Equal(2)

	// The artifacts are readable by a fresh load
	gt.NoError(t, store.Load(ctx)).Required()
	snap, ok := store.Snapshot()
	gt.Bool(t, ok).True()
	gt.Number(t, snap.Len()).Equal(3)

	first := snap.Records()[0]
	gt.String(t, first.Snippet).Contains("Age: 30")
	gt.String(t, first.Snippet).Contains("Location: Pune")
	gt.String(t, first.Snippet).Contains("BMI: 22.9")
	gt.String(t, first.Snippet).Contains("Premium: ₹9000")
	gt.Number(t, first.PremiumINR).Equal(9000.0)

	// Row without height/weight gets no BMI part
	third := snap.Records()[2]
	gt.Bool(t, strings.Contains(third.Snippet, "BMI")).False()
}

func TestIngestSkipsBadRows(t *testing.T) {
	csv := `Age,Premium_INR
30,9000
31,
32,not-a-number
33,-50
34,12500
`
	store := newIngestStore(t)
	ingest, err := usecase.NewIngest(&ingestEmbedder{}, store)
	gt.NoError(t, err).Required()

	report, err := ingest.Ingest(context.Background(), strings.NewReader(csv))
	gt.NoError(t, err).Required()

	gt.Number(t, report.TotalRows).Equal(5)
	gt.Number(t, report.Ingested).Equal(2)
	gt.Number(t, report.Skipped).Equal(3)
}

func TestIngestDropsZeroVectorRows(t *testing.T) {
	store := newIngestStore(t)
	ingest, err := usecase.NewIngest(&ingestEmbedder{zeroFor: "Age: 45"}, store)
	gt.NoError(t, err).Required()

	report, err := ingest.Ingest(context.Background(), strings.NewReader(sampleCSV))
	gt.NoError(t, err).Required()

	gt.Number(t, report.Ingested).Equal(2)
	gt.Number(t, report.Dropped).Equal(1)
}

func TestIngestMissingPremiumColumn(t *testing.T) {
	csv := `Age,Gender
30,Male
`
	store := newIngestStore(t)
	ingest, err := usecase.NewIngest(&ingestEmbedder{}, store)
	gt.NoError(t, err).Required()

	_, err = ingest.Ingest(context.Background(), strings.NewReader(csv))
	gt.Error(t, err)
}

func TestIngestEmbeddingFailureAborts(t *testing.T) {
	store := newIngestStore(t)
	ingest, err := usecase.NewIngest(&ingestEmbedder{err: errors.New("backend down")}, store)
	gt.NoError(t, err).Required()

	_, err = ingest.Ingest(context.Background(), strings.NewReader(sampleCSV))
	gt.Error(t, err)

	// Nothing was persisted
	gt.Error(t, store.Load(context.Background()))
}

func TestIngestAllRowsDropped(t *testing.T) {
	csv := `Age,Premium_INR
30,
31,zero
`
	store := newIngestStore(t)
	ingest, err := usecase.NewIngest(&ingestEmbedder{}, store)
	gt.NoError(t, err).Required()

	_, err = ingest.Ingest(context.Background(), strings.NewReader(csv))
	gt.Error(t, err)
}

func TestIngestEmptyCSV(t *testing.T) {
	store := newIngestStore(t)
	ingest, err := usecase.NewIngest(&ingestEmbedder{}, store)
	gt.NoError(t, err).Required()

	_, err = ingest.Ingest(context.Background(), strings.NewReader(""))
	gt.Error(t, err)
}

func TestNewIngestValidatesArguments(t *testing.T) {
	store := newIngestStore(t)

	_, err := usecase.NewIngest(nil, store)
	gt.Error(t, err)

	_, err = usecase.NewIngest(&ingestEmbedder{}, nil)
	gt.Error(t, err)
}
