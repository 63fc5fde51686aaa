// Package service orchestrates the statement import flow: analyze a
// file into a preview, parse it under a confirmed mapping, and commit
// the reviewed rows as expenses.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/pocketledger/internal/domain/categorization"
	"github.com/FACorreiaa/pocketledger/internal/domain/category"
	"github.com/FACorreiaa/pocketledger/internal/domain/expense"
	"github.com/FACorreiaa/pocketledger/internal/domain/import/normalizer"
	"github.com/FACorreiaa/pocketledger/internal/domain/import/parser"
	"github.com/FACorreiaa/pocketledger/internal/domain/import/sniffer"
)

const tracerName = "pocketledger/import"

// ErrTooManyRows is returned when a file holds more data rows than the
// configured import cap.
var ErrTooManyRows = errors.New("file exceeds the import row limit")

// Analysis is the first-step response: what the file looks like and
// which columns the client should pre-select.
type Analysis struct {
	Preview     *sniffer.Preview           `json:"preview"`
	Suggestions *sniffer.ColumnSuggestions `json:"suggestions"`
	// SignConventionHint tells the client which convention to default
	// to, derived from the negative-amount scan.
	SignConventionHint string `json:"sign_convention_hint"`
}

// ParseRequest is the second-step input after the user confirms columns.
type ParseRequest struct {
	Text       string               `json:"text"`
	Mapping    parser.ColumnMapping `json:"mapping"`
	SkipIncome bool                 `json:"skip_income"`
	// Convention is "bank" or "app"; empty defaults to app.
	Convention string `json:"convention"`
}

// UnmatchedCategory pairs an unknown label with close existing categories.
type UnmatchedCategory struct {
	Label       string                     `json:"label"`
	CloseByName []categorization.LabelMatch `json:"close_matches,omitempty"`
}

// ParseResponse is the reviewable parse result.
type ParseResponse struct {
	ValidRows           []parser.ExpenseRow `json:"valid_rows"`
	Errors              []parser.RowError   `json:"errors"`
	UnmatchedCategories []UnmatchedCategory `json:"unmatched_categories"`
	SkippedIncomeCount  int                 `json:"skipped_income_count"`
	// CategorySuggestions proposes a category per valid row index from
	// the user's keyword rules. Advisory only.
	CategorySuggestions map[int]*categorization.Suggestion `json:"category_suggestions,omitempty"`
}

// Resolution says what to do with one unmatched label on commit.
type Resolution struct {
	// Action is "assign", "create", or "skip".
	Action     string     `json:"action"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

// CommitRequest finalizes an import.
type CommitRequest struct {
	Filename           string                `json:"filename"`
	Rows               []parser.ExpenseRow   `json:"rows"`
	Resolutions        map[string]Resolution `json:"resolutions"`
	SkippedIncomeCount int                   `json:"skipped_income_count"`
	ErrorCount         int                   `json:"error_count"`
	TotalRows          int                   `json:"total_rows"`
}

// CommitResult reports what landed.
type CommitResult struct {
	JobID        uuid.UUID `json:"job_id"`
	ImportedRows int       `json:"imported_rows"`
}

// ImportService wires the pipeline to persistence.
type ImportService struct {
	categories *category.Repository
	expenses   *expense.Service
	jobs       *JobRepository
	suggester  *categorization.Service
	maxRows    int
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewImportService wires the pipeline. maxRows caps the data rows
// accepted per file; zero disables the cap.
func NewImportService(
	categories *category.Repository,
	expenses *expense.Service,
	jobs *JobRepository,
	suggester *categorization.Service,
	maxRows int,
	logger *slog.Logger,
) *ImportService {
	return &ImportService{
		categories: categories,
		expenses:   expenses,
		jobs:       jobs,
		suggester:  suggester,
		maxRows:    maxRows,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
	}
}

// Analyze builds the preview and column suggestions for an uploaded file.
func (s *ImportService) Analyze(ctx context.Context, userID uuid.UUID, text string) (*Analysis, error) {
	_, span := s.tracer.Start(ctx, "import.analyze")
	defer span.End()

	preview, err := sniffer.BuildPreview(text)
	if err != nil {
		return nil, err
	}
	if s.maxRows > 0 && preview.TotalRows > s.maxRows {
		return nil, fmt.Errorf("%w: %d rows, limit %d", ErrTooManyRows, preview.TotalRows, s.maxRows)
	}

	hint := "app"
	if preview.HasNegativeAmounts {
		hint = "bank"
	}
	span.SetAttributes(
		attribute.Int("import.total_rows", preview.TotalRows),
		attribute.Bool("import.has_negative_amounts", preview.HasNegativeAmounts),
	)

	return &Analysis{
		Preview:            preview,
		Suggestions:        sniffer.SuggestColumns(preview.Headers, preview.SampleRows),
		SignConventionHint: hint,
	}, nil
}

// Parse validates the file under the confirmed mapping and enriches the
// result with category suggestions for review.
func (s *ImportService) Parse(ctx context.Context, userID uuid.UUID, req ParseRequest) (*ParseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "import.parse")
	defer span.End()

	if err := s.checkRowCap(req.Text); err != nil {
		return nil, err
	}

	existing, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	names := make([]string, len(existing))
	candidates := make([]categorization.CategoryCandidate, len(existing))
	for i, c := range existing {
		names[i] = c.Name
		candidates[i] = categorization.CategoryCandidate{ID: c.ID, Name: c.Name}
	}

	result := parser.Parse(req.Text, names, req.Mapping, parser.Options{
		SkipIncome: req.SkipIncome,
		Convention: conventionFromString(req.Convention),
	})

	importRowsTotal.WithLabelValues("valid").Add(float64(len(result.ValidRows)))
	importRowsTotal.WithLabelValues("error").Add(float64(len(result.Errors)))
	importRowsTotal.WithLabelValues("skipped_income").Add(float64(result.SkippedIncomeCount))
	span.SetAttributes(
		attribute.Int("import.valid_rows", len(result.ValidRows)),
		attribute.Int("import.error_rows", len(result.Errors)),
	)

	resp := &ParseResponse{
		ValidRows:          result.ValidRows,
		Errors:             result.Errors,
		SkippedIncomeCount: result.SkippedIncomeCount,
	}

	for _, label := range result.UnmatchedCategories {
		resp.UnmatchedCategories = append(resp.UnmatchedCategories, UnmatchedCategory{
			Label:       label,
			CloseByName: categorization.SuggestForLabel(label, candidates, categorization.DefaultLabelThreshold, 3),
		})
	}

	resp.CategorySuggestions = s.suggestForRows(ctx, userID, result.ValidRows)
	return resp, nil
}

// suggestForRows proposes categories for rows that have none, from the
// user's keyword rules. Suggestion failures never fail a parse.
func (s *ImportService) suggestForRows(ctx context.Context, userID uuid.UUID, rows []parser.ExpenseRow) map[int]*categorization.Suggestion {
	if s.suggester == nil || len(rows) == 0 {
		return nil
	}

	descriptions := make([]string, len(rows))
	for i, row := range rows {
		descriptions[i] = row.Description
	}

	suggestions, err := s.suggester.SuggestBatch(ctx, userID, descriptions)
	if err != nil {
		s.logger.Warn("category suggestions unavailable", slog.Any("error", err))
		return nil
	}

	out := make(map[int]*categorization.Suggestion)
	for i, suggestion := range suggestions {
		if suggestion != nil && rows[i].CategoryName == "" {
			out[i] = suggestion
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Commit persists the reviewed rows inside a job record. The job is
// created pending first so a crash mid-commit leaves an inspectable
// trail instead of silent loss.
func (s *ImportService) Commit(ctx context.Context, userID uuid.UUID, req CommitRequest) (*CommitResult, error) {
	ctx, span := s.tracer.Start(ctx, "import.commit")
	defer span.End()
	timer := time.Now()

	job := &Job{
		UserID:        userID,
		Filename:      req.Filename,
		TotalRows:     req.TotalRows,
		SkippedIncome: req.SkippedIncomeCount,
		ErrorRows:     req.ErrorCount,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		importsTotal.WithLabelValues(JobFailed).Inc()
		return nil, err
	}

	resolution, err := s.buildResolution(ctx, userID, req.Resolutions)
	if err != nil {
		s.failJob(ctx, job.ID)
		return nil, err
	}

	existing, err := s.categories.List(ctx, userID)
	if err != nil {
		s.failJob(ctx, job.ID)
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	refs := make([]parser.CategoryRef, len(existing))
	for i, c := range existing {
		refs[i] = parser.CategoryRef{ID: c.ID, Name: c.Name}
	}

	insertable := parser.ResolveCategories(req.Rows, refs, resolution)

	expenses := make([]expense.Expense, 0, len(insertable))
	for _, row := range insertable {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			s.failJob(ctx, job.ID)
			return nil, fmt.Errorf("row has invalid date %q: %w", row.Date, err)
		}
		expenses = append(expenses, expense.Expense{
			CategoryID:  row.CategoryID,
			Description: row.Description,
			Amount:      decimal.NewFromFloat(row.Amount).Round(2),
			ExpenseDate: date,
		})
	}

	inserted, err := s.expenses.BulkCreate(ctx, userID, expenses)
	if err != nil {
		s.failJob(ctx, job.ID)
		importsTotal.WithLabelValues(JobFailed).Inc()
		return nil, fmt.Errorf("failed to insert imported expenses: %w", err)
	}

	if err := s.jobs.Finish(ctx, job.ID, JobCompleted, inserted); err != nil {
		// The expenses are in; report success but log the bookkeeping gap.
		s.logger.Error("import committed but job record not finalized",
			slog.String("job_id", job.ID.String()),
			slog.Any("error", err),
		)
	}

	importsTotal.WithLabelValues(JobCompleted).Inc()
	importDuration.Observe(time.Since(timer).Seconds())
	span.SetAttributes(attribute.Int("import.inserted_rows", inserted))

	s.logger.Info("import committed",
		slog.String("user_id", userID.String()),
		slog.String("job_id", job.ID.String()),
		slog.Int("imported_rows", inserted),
	)

	return &CommitResult{JobID: job.ID, ImportedRows: inserted}, nil
}

// buildResolution turns client resolutions into the parser's map,
// creating categories where asked.
func (s *ImportService) buildResolution(ctx context.Context, userID uuid.UUID, resolutions map[string]Resolution) (map[string]*uuid.UUID, error) {
	if len(resolutions) == 0 {
		return nil, nil
	}

	var toCreate []string
	for label, res := range resolutions {
		if res.Action == "create" {
			toCreate = append(toCreate, label)
		}
	}

	var createdIDs map[string]uuid.UUID
	if len(toCreate) > 0 {
		var err error
		createdIDs, err = s.categories.CreateMissing(ctx, userID, toCreate)
		if err != nil {
			return nil, err
		}
	}

	out := make(map[string]*uuid.UUID, len(resolutions))
	for label, res := range resolutions {
		switch res.Action {
		case "assign":
			if res.CategoryID == nil {
				return nil, fmt.Errorf("resolution for %q assigns no category", label)
			}
			id := *res.CategoryID
			out[label] = &id
		case "create":
			id := createdIDs[strings.ToLower(label)]
			out[label] = &id
		case "skip":
			out[label] = nil
		default:
			return nil, fmt.Errorf("unknown resolution action %q for %q", res.Action, label)
		}
	}
	return out, nil
}

func (s *ImportService) failJob(ctx context.Context, id uuid.UUID) {
	if err := s.jobs.Finish(ctx, id, JobFailed, 0); err != nil {
		s.logger.Error("failed to mark import job failed",
			slog.String("job_id", id.String()),
			slog.Any("error", err),
		)
	}
}

// History returns the user's recent import jobs.
func (s *ImportService) History(ctx context.Context, userID uuid.UUID, limit int) ([]Job, error) {
	return s.jobs.History(ctx, userID, limit)
}

// checkRowCap enforces the configured limit on data rows, not counting
// a detected header line.
func (s *ImportService) checkRowCap(text string) error {
	if s.maxRows <= 0 {
		return nil
	}
	lines := sniffer.SplitLines(text)
	rows := len(lines)
	if rows > 0 && sniffer.IsHeaderRow(lines[0]) {
		rows--
	}
	if rows > s.maxRows {
		return fmt.Errorf("%w: %d rows, limit %d", ErrTooManyRows, rows, s.maxRows)
	}
	return nil
}

func conventionFromString(raw string) normalizer.SignConvention {
	if raw == "bank" {
		return normalizer.BankStatementConvention
	}
	return normalizer.AppExportConvention
}
