// Package batch runs the classification pipeline over a CSV file of
// questions, writing a labeled CSV and a JSON summary.
package batch

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"classifier_server/core/domain"
	"classifier_server/core/service/classification"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options configures one batch run.
type Options struct {
	InputPath   string
	OutputPath  string
	SummaryPath string

	// IDColumn and TextColumn name the input CSV columns (defaults:
	// "id", "question").
	IDColumn   string
	TextColumn string
}

// Runner reads questions from CSV, classifies them, and writes the results.
type Runner struct {
	router   *classification.HybridRouter
	lexical  *classification.LexicalClassifier
	schedule *domain.PrioritySchedule
	log      zerolog.Logger
}

// NewRunner creates a batch runner.
func NewRunner(router *classification.HybridRouter, lexical *classification.LexicalClassifier, schedule *domain.PrioritySchedule, log zerolog.Logger) *Runner {
	return &Runner{
		router:   router,
		lexical:  lexical,
		schedule: schedule,
		log:      log.With().Str("component", "batch_runner").Logger(),
	}
}

// Run executes the full pipeline: read, classify, write. Rows with empty text
// are kept and labeled unknown; a malformed header or unreadable file aborts
// the run.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	if opts.IDColumn == "" {
		opts.IDColumn = "id"
	}
	if opts.TextColumn == "" {
		opts.TextColumn = "question"
	}

	records, rows, header, err := r.readInput(opts)
	if err != nil {
		return err
	}

	r.log.Info().Int("rows", len(records)).Str("input", opts.InputPath).Msg("starting batch classification")

	results, stats := r.router.ClassifyBatch(ctx, records)

	if err := r.writeOutput(opts, header, rows, records, results); err != nil {
		return err
	}

	if opts.SummaryPath != "" {
		if err := writeSummary(opts.SummaryPath, stats); err != nil {
			return err
		}
	}

	r.log.Info().
		Int("total", stats.Total).
		Int64("llm_calls", stats.LLMCalls).
		Float64("estimated_cost_usd", stats.EstimatedCostUSD).
		Str("output", opts.OutputPath).
		Msg("batch classification complete")

	return nil
}

// readInput parses the CSV and returns the records to classify alongside the
// original rows and header for pass-through.
func (r *Runner) readInput(opts Options) ([]domain.TextRecord, [][]string, []string, error) {
	f, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read input csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, nil, fmt.Errorf("input csv %q is empty", opts.InputPath)
	}

	header := all[0]
	idIdx := columnIndex(header, opts.IDColumn)
	textIdx := columnIndex(header, opts.TextColumn)
	if textIdx < 0 {
		return nil, nil, nil, fmt.Errorf("input csv: column %q not found in header %v", opts.TextColumn, header)
	}

	rows := all[1:]
	records := make([]domain.TextRecord, len(rows))
	for i, row := range rows {
		id := ""
		if idIdx >= 0 && idIdx < len(row) {
			id = strings.TrimSpace(row[idIdx])
		}
		if id == "" {
			id = uuid.New().String()
		}
		text := ""
		if textIdx < len(row) {
			text = row[textIdx]
		}
		records[i] = domain.TextRecord{ID: id, Text: text}
	}

	return records, rows, header, nil
}

// writeOutput writes the original rows with classification columns appended.
func (r *Runner) writeOutput(opts Options, header []string, rows [][]string, records []domain.TextRecord, results []domain.ClassificationResult) error {
	f, err := os.Create(opts.OutputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	outHeader := append(append([]string{}, header...),
		"classification", "source", "confidence",
		"crop_categories", "general_categories",
		"priority_tier", "priority_category",
	)
	if err := w.Write(outHeader); err != nil {
		return fmt.Errorf("write output header: %w", err)
	}

	for i, row := range rows {
		res := results[i]

		confidence := ""
		if res.Confidence != nil {
			confidence = strconv.FormatFloat(*res.Confidence, 'f', 2, 64)
		}

		assignment := r.lexical.ClassifyPrioritized(records[i], r.schedule)

		out := append(append([]string{}, row...),
			string(res.Label),
			string(res.Source),
			confidence,
			strings.Join(res.MatchedCropCategories, ";"),
			strings.Join(res.MatchedGeneralCategories, ";"),
			assignment.Tier,
			assignment.Category,
		)
		if err := w.Write(out); err != nil {
			return fmt.Errorf("write output row %d: %w", i+1, err)
		}
	}

	w.Flush()
	return w.Error()
}

func writeSummary(path string, stats *classification.BatchStats) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// columnIndex finds a header column by case-insensitive name, -1 if absent.
func columnIndex(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return i
		}
	}
	return -1
}
