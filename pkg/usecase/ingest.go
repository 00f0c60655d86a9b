package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/quotelab/premia/pkg/domain/model"
	"github.com/quotelab/premia/pkg/repository/index"
	"github.com/quotelab/premia/pkg/service/embedding"
	"github.com/quotelab/premia/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// IngestUseCase builds the persisted vector index from tabular historical
// records. It runs offline; the serving process picks the artifacts up on
// its next load.
type IngestUseCase struct {
	embedder    embedding.Client
	store       *index.Store
	concurrency int
}

// IngestOption is a functional option for IngestUseCase
type IngestOption func(*IngestUseCase)

// WithConcurrency bounds the number of concurrent embedding calls
func WithConcurrency(n int) IngestOption {
	return func(uc *IngestUseCase) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

// NewIngest creates the ingestion pipeline
func NewIngest(embedder embedding.Client, store *index.Store, opts ...IngestOption) (*IngestUseCase, error) {
	if embedder == nil {
		return nil, goerr.New("embedding client is required")
	}
	if store == nil {
		return nil, goerr.New("index store is required")
	}

	uc := &IngestUseCase{
		embedder:    embedder,
		store:       store,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc, nil
}

// IngestReport summarizes one ingestion run
type IngestReport struct {
	TotalRows int
	Ingested  int
	Skipped   int // malformed rows or rows without a parseable premium
	Dropped   int // zero-norm embeddings
	Dimension int
}

type sourceRow struct {
	text    string
	premium float64
}

// Ingest reads CSV records, embeds each row's text representation, and
// persists the resulting index artifacts. Malformed rows are skipped and
// counted; an embedding service failure aborts the whole run so that no
// partial index is persisted.
func (uc *IngestUseCase) Ingest(ctx context.Context, r io.Reader) (*IngestReport, error) {
	logger := logging.From(ctx)
	report := &IngestReport{Dimension: uc.embedder.Dimension()}

	rows, skipped, err := readRows(r)
	if err != nil {
		return nil, err
	}
	report.TotalRows = len(rows) + skipped
	report.Skipped = skipped

	if len(rows) == 0 {
		return nil, goerr.New("no ingestible rows found", goerr.V("skipped", skipped))
	}

	// One embedding call per row, bounded concurrency. A nil slot marks a
	// row dropped for a zero-norm embedding; any other failure cancels the
	// group and aborts the run.
	vectors := make([][]float32, len(rows))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(uc.concurrency)
	for i, row := range rows {
		eg.Go(func() error {
			vec, err := uc.embedder.Embed(egCtx, row.text)
			if err != nil {
				if errors.Is(err, embedding.ErrZeroVector) {
					logger.Warn("dropping row with zero-norm embedding", "row", i)
					return nil
				}
				return goerr.Wrap(err, "embedding failed, aborting ingestion", goerr.V("row", i))
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	builder, err := index.NewBuilder(uc.embedder.Dimension())
	if err != nil {
		return nil, err
	}
	for i, vec := range vectors {
		if vec == nil {
			report.Dropped++
			continue
		}
		record := model.IndexedRecord{
			RecordID:   model.NewRecordID(),
			Snippet:    rows[i].text,
			PremiumINR: rows[i].premium,
		}
		if err := builder.Add(vec, record); err != nil {
			return nil, err
		}
	}

	if builder.Len() == 0 {
		return nil, goerr.New("all rows were dropped, nothing to persist",
			goerr.V("skipped", report.Skipped),
			goerr.V("dropped", report.Dropped))
	}

	if err := uc.store.Write(ctx, builder.Snapshot()); err != nil {
		return nil, goerr.Wrap(err, "failed to persist index artifacts")
	}

	report.Ingested = builder.Len()
	logger.Info("ingestion completed",
		"total", report.TotalRows,
		"ingested", report.Ingested,
		"skipped", report.Skipped,
		"dropped", report.Dropped,
		"dimension", report.Dimension,
	)
	return report, nil
}

// snippetFields is the fixed field order of the text representation built
// for each source row. Absent fields are omitted from the text rather than
// replaced by placeholders.
var snippetFields = []struct {
	column string
	label  string
}{
	{"Age", "Age"},
	{"Gender", "Gender"},
	{"Location", "Location"},
	{"Occupation", "Occupation"},
	{"Number_of_Insured_Members", "Family size"},
	{"Family_Details", "Family details"},
	{"Pre_existing_Conditions", "Pre-existing conditions"},
	{"Past_Medical_History", "Past medical history"},
	{"Family_Medical_History", "Family medical history"},
	{"Pregnancy_Status", "Pregnancy status"},
	{"Smoking_Tobacco_Use", "Smoking/tobacco"},
	{"Alcohol_Consumption", "Alcohol"},
	{"Exercise_Frequency", "Exercise"},
	{"Plan_Type", "Plan type"},
	{"Sum_Insured", "Sum insured"},
	{"Policy_Term_Years", "Policy term"},
	{"Premium_Payment_Mode", "Payment mode"},
}

func readRows(r io.Reader) ([]sourceRow, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to read CSV header")
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	if _, ok := columns["Premium_INR"]; !ok {
		return nil, 0, goerr.New("CSV is missing the Premium_INR column")
	}

	var rows []sourceRow
	var skipped int
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		premium, ok := parsePremium(fields, columns)
		if !ok {
			skipped++
			continue
		}

		rows = append(rows, sourceRow{
			text:    rowText(fields, columns),
			premium: premium,
		})
	}

	return rows, skipped, nil
}

func parsePremium(fields []string, columns map[string]int) (float64, bool) {
	raw := fieldValue(fields, columns, "Premium_INR")
	if raw == "" {
		return 0, false
	}
	premium, err := strconv.ParseFloat(raw, 64)
	if err != nil || premium <= 0 {
		return 0, false
	}
	return premium, true
}

func rowText(fields []string, columns map[string]int) string {
	var parts []string
	for _, f := range snippetFields {
		if v := fieldValue(fields, columns, f.column); v != "" {
			parts = append(parts, f.label+": "+v)
		}
	}

	// BMI is derived rather than copied so the snippet matches what a
	// query profile can express.
	if bmi, ok := deriveBMI(fields, columns); ok {
		parts = append(parts, fmt.Sprintf("BMI: %.1f", bmi))
	}

	if premium := fieldValue(fields, columns, "Premium_INR"); premium != "" {
		parts = append(parts, "Premium: ₹"+premium)
	}

	if len(parts) == 0 {
		return "Insurance record"
	}
	return strings.Join(parts, "; ")
}

func deriveBMI(fields []string, columns map[string]int) (float64, bool) {
	height, err1 := strconv.ParseFloat(fieldValue(fields, columns, "Height_cm"), 64)
	weight, err2 := strconv.ParseFloat(fieldValue(fields, columns, "Weight_kg"), 64)
	if err1 != nil || err2 != nil || height <= 0 || weight <= 0 {
		return 0, false
	}
	meters := height / 100.0
	return weight / (meters * meters), true
}

func fieldValue(fields []string, columns map[string]int, name string) string {
	idx, ok := columns[name]
	if !ok || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}
