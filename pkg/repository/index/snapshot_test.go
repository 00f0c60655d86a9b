package index_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/quotelab/premia/pkg/domain/model"
	"github.com/quotelab/premia/pkg/repository/index"
)

func buildSnapshot(t *testing.T, vectors [][]float32) *index.Snapshot {
	t.Helper()
	builder, err := index.NewBuilder(len(vectors[0]))
	gt.NoError(t, err).Required()

	for i, v := range vectors {
		record := model.IndexedRecord{
			RecordID:   model.NewRecordID(),
			Snippet:    "record",
			PremiumINR: float64(1000 * (i + 1)),
		}
		gt.NoError(t, builder.Add(v, record))
	}
	return builder.Snapshot()
}

func TestNewBuilderRejectsInvalidDimension(t *testing.T) {
	_, err := index.NewBuilder(0)
	gt.Error(t, err)

	_, err = index.NewBuilder(-1)
	gt.Error(t, err)
}

func TestBuilderAssignsOrdinals(t *testing.T) {
	snap := buildSnapshot(t, [][]float32{{1, 0}, {0, 1}, {1, 0}})

	records := snap.Records()
	gt.Array(t, records).Length(3)
	for i, r := range records {
		gt.Number(t, r.Ordinal).Equal(i)
	}
}

func TestBuilderRejectsDimensionMismatch(t *testing.T) {
	builder, err := index.NewBuilder(3)
	gt.NoError(t, err).Required()

	err = builder.Add([]float32{1, 0}, model.IndexedRecord{})
	gt.Error(t, err)
}

func TestSearchTopK(t *testing.T) {
	snap := buildSnapshot(t, [][]float32{
		{1, 0},     // ordinal 0, score 1.0 against {1,0}
		{0, 1},     // ordinal 1, score 0.0
		{0.6, 0.8}, // ordinal 2, score 0.6
	})

	got := snap.Search([]float32{1, 0}, 2)
	gt.Array(t, got).Length(2)
	gt.Number(t, got[0].Record.Ordinal).Equal(0)
	gt.Number(t, got[0].Score).Equal(1.0)
	gt.Number(t, got[1].Record.Ordinal).Equal(2)
}

func TestSearchTieBreaksByOrdinal(t *testing.T) {
	snap := buildSnapshot(t, [][]float32{
		{1, 0},
		{1, 0},
		{0, 1},
	})

	got := snap.Search([]float32{1, 0}, 3)
	gt.Array(t, got).Length(3)
	gt.Number(t, got[0].Record.Ordinal).Equal(0)
	gt.Number(t, got[1].Record.Ordinal).Equal(1)
	gt.Number(t, got[2].Record.Ordinal).Equal(2)
}

func TestSearchKLargerThanIndex(t *testing.T) {
	snap := buildSnapshot(t, [][]float32{{1, 0}, {0, 1}})

	got := snap.Search([]float32{1, 0}, 10)
	gt.Array(t, got).Length(2)
}

func TestSearchDegenerateInputs(t *testing.T) {
	snap := buildSnapshot(t, [][]float32{{1, 0}})

	gt.Value(t, snap.Search([]float32{1, 0}, 0)).Nil()
	gt.Value(t, snap.Search([]float32{1, 0}, -1)).Nil()
	gt.Value(t, snap.Search([]float32{1, 0, 0}, 1)).Nil()
}

func TestSearchDeterministic(t *testing.T) {
	snap := buildSnapshot(t, [][]float32{
		{0.6, 0.8},
		{0.8, 0.6},
		{1, 0},
		{0, 1},
	})

	query := []float32{0.7071, 0.7071}
	first := snap.Search(query, 4)
	for i := 0; i < 5; i++ {
		again := snap.Search(query, 4)
		gt.Array(t, again).Length(len(first))
		for j := range first {
			gt.Number(t, again[j].Record.Ordinal).Equal(first[j].Record.Ordinal)
			gt.Number(t, again[j].Score).Equal(first[j].Score)
		}
	}
}
