package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/pocketledger/internal/domain/category"
	"github.com/FACorreiaa/pocketledger/internal/domain/expense"
	"github.com/FACorreiaa/pocketledger/internal/domain/import/parser"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T) (*ImportService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := testLogger()
	svc := NewImportService(
		category.NewRepository(mock),
		expense.NewService(expense.NewRepository(mock), logger),
		NewJobRepository(mock),
		nil,
		0,
		logger,
	)
	return svc, mock
}

func TestRowCap(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := testLogger()
	svc := NewImportService(
		category.NewRepository(mock),
		expense.NewService(expense.NewRepository(mock), logger),
		NewJobRepository(mock),
		nil,
		2,
		logger,
	)

	over := "Date,Description,Amount\n" +
		"2024-01-15,Coffee,-4.50\n" +
		"2024-01-16,Lunch,-12.00\n" +
		"2024-01-17,Dinner,-20.00\n"

	t.Run("analyze rejects a file over the cap", func(t *testing.T) {
		_, err := svc.Analyze(context.Background(), uuid.New(), over)
		assert.ErrorIs(t, err, ErrTooManyRows)
	})

	t.Run("parse rejects a file over the cap", func(t *testing.T) {
		_, err := svc.Parse(context.Background(), uuid.New(), ParseRequest{
			Text:    over,
			Mapping: parser.ColumnMapping{DateCol: 0, DescCol: 1, AmountCol: 2, CategoryCol: -1},
		})
		assert.ErrorIs(t, err, ErrTooManyRows)
	})

	t.Run("a file at the cap passes", func(t *testing.T) {
		at := "Date,Description,Amount\n" +
			"2024-01-15,Coffee,-4.50\n" +
			"2024-01-16,Lunch,-12.00\n"

		_, err := svc.Analyze(context.Background(), uuid.New(), at)
		assert.NoError(t, err)
	})
}

func TestAnalyze(t *testing.T) {
	svc, _ := newTestService(t)

	t.Run("bank file hints the bank convention", func(t *testing.T) {
		text := "Date,Description,Amount\n2024-01-15,Groceries,-45.50\n"

		analysis, err := svc.Analyze(context.Background(), uuid.New(), text)
		require.NoError(t, err)

		assert.Equal(t, "bank", analysis.SignConventionHint)
		assert.Equal(t, 1, analysis.Preview.TotalRows)
		assert.Equal(t, 0, analysis.Suggestions.DateCol)
		assert.Equal(t, 2, analysis.Suggestions.AmountCol)
	})

	t.Run("file without negatives hints the app convention", func(t *testing.T) {
		text := "Date,Description,Amount\n2024-01-15,Groceries,45.50\n"

		analysis, err := svc.Analyze(context.Background(), uuid.New(), text)
		require.NoError(t, err)
		assert.Equal(t, "app", analysis.SignConventionHint)
	})

	t.Run("empty file errors", func(t *testing.T) {
		_, err := svc.Analyze(context.Background(), uuid.New(), "\n")
		assert.Error(t, err)
	})
}

func expectCategoryList(mock pgxmock.PgxPoolIface, userID uuid.UUID, categories ...category.Category) {
	rows := pgxmock.NewRows([]string{"id", "user_id", "name", "color", "created_at", "updated_at"})
	now := time.Now()
	for _, c := range categories {
		rows.AddRow(c.ID, userID, c.Name, "#64748b", now, now)
	}
	mock.ExpectQuery(`SELECT id, user_id, name, color`).
		WithArgs(userID).
		WillReturnRows(rows)
}

func TestParse(t *testing.T) {
	svc, mock := newTestService(t)
	userID := uuid.New()
	foodID := uuid.New()

	expectCategoryList(mock, userID, category.Category{ID: foodID, Name: "Food"})

	text := "Date,Description,Amount,Category\n" +
		"2024-01-15,Groceries,-45.50,food\n" +
		"2024-01-16,Salary,+2000.00,\n" +
		"2024-01-17,Cinema,-12.00,Entertainment\n"

	resp, err := svc.Parse(context.Background(), userID, ParseRequest{
		Text:       text,
		Mapping:    parser.ColumnMapping{DateCol: 0, DescCol: 1, AmountCol: 2, CategoryCol: 3},
		SkipIncome: true,
		Convention: "bank",
	})
	require.NoError(t, err)

	assert.Len(t, resp.ValidRows, 2)
	assert.Equal(t, 1, resp.SkippedIncomeCount)
	assert.Empty(t, resp.Errors)

	require.Len(t, resp.UnmatchedCategories, 1)
	assert.Equal(t, "Entertainment", resp.UnmatchedCategories[0].Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommit(t *testing.T) {
	svc, mock := newTestService(t)
	userID := uuid.New()
	jobID := uuid.New()
	foodID := uuid.New()
	now := time.Now()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	rows := []parser.ExpenseRow{
		{Date: "2024-01-15", Description: "Groceries", CategoryName: "Food", Amount: 45.50, RowNumber: 2},
	}

	mock.ExpectQuery(`INSERT INTO import_jobs`).
		WithArgs(userID, "statement.csv", JobPending, 2, 1, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(jobID, now))

	expectCategoryList(mock, userID, category.Category{ID: foodID, Name: "Food"})

	mock.ExpectBegin()
	batch := mock.ExpectBatch()
	batch.ExpectExec(`INSERT INTO expenses`).
		WithArgs(userID, &foodID, "Groceries", decimal.NewFromFloat(45.50).Round(2), date).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	mock.ExpectExec(`UPDATE import_jobs`).
		WithArgs(jobID, JobCompleted, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	result, err := svc.Commit(context.Background(), userID, CommitRequest{
		Filename:           "statement.csv",
		Rows:               rows,
		TotalRows:          2,
		SkippedIncomeCount: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, jobID, result.JobID)
	assert.Equal(t, 1, result.ImportedRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommit_CreateResolution(t *testing.T) {
	svc, mock := newTestService(t)
	userID := uuid.New()
	jobID := uuid.New()
	newCatID := uuid.New()
	now := time.Now()
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	rows := []parser.ExpenseRow{
		{Date: "2024-01-15", Description: "Groceries", CategoryName: "Grocery", Amount: 45.50, RowNumber: 2},
	}

	mock.ExpectQuery(`INSERT INTO import_jobs`).
		WithArgs(userID, "statement.csv", JobPending, 1, 0, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(jobID, now))

	mock.ExpectQuery(`INSERT INTO categories`).
		WithArgs(userID, "Grocery").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(newCatID))

	expectCategoryList(mock, userID)

	mock.ExpectBegin()
	batch := mock.ExpectBatch()
	batch.ExpectExec(`INSERT INTO expenses`).
		WithArgs(userID, &newCatID, "Groceries", decimal.NewFromFloat(45.50).Round(2), date).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	mock.ExpectExec(`UPDATE import_jobs`).
		WithArgs(jobID, JobCompleted, 1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	result, err := svc.Commit(context.Background(), userID, CommitRequest{
		Filename:    "statement.csv",
		Rows:        rows,
		TotalRows:   1,
		Resolutions: map[string]Resolution{"Grocery": {Action: "create"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ImportedRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommit_UnknownResolutionFailsJob(t *testing.T) {
	svc, mock := newTestService(t)
	userID := uuid.New()
	jobID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO import_jobs`).
		WithArgs(userID, "statement.csv", JobPending, 1, 0, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(jobID, now))

	mock.ExpectExec(`UPDATE import_jobs`).
		WithArgs(jobID, JobFailed, 0).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	_, err := svc.Commit(context.Background(), userID, CommitRequest{
		Filename:    "statement.csv",
		Rows:        []parser.ExpenseRow{{Date: "2024-01-15", Description: "x", Amount: 1}},
		TotalRows:   1,
		Resolutions: map[string]Resolution{"Grocery": {Action: "rename"}},
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
