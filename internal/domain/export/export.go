// Package export renders a user's expenses as CSV or XLSX downloads.
// The CSV layout mirrors what the importer's app-export convention
// expects, so an exported file re-imports cleanly.
package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/pocketledger/internal/domain/expense"
)

const dateLayout = "2006-01-02"

// csvRow is the flat record gocsv marshals. Column order matches the
// importer's default mapping: date, description, amount, category.
type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
}

// Lister is the slice of the expense service the exporter needs.
type Lister interface {
	List(ctx context.Context, userID uuid.UUID, f expense.Filter) ([]expense.Expense, error)
}

// Service renders expense exports.
type Service struct {
	expenses Lister
}

func NewService(expenses Lister) *Service {
	return &Service{expenses: expenses}
}

func (s *Service) rows(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]csvRow, error) {
	items, err := s.expenses.List(ctx, userID, expense.Filter{From: from, To: to, Limit: 500})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses for export: %w", err)
	}

	rows := make([]csvRow, len(items))
	for i, e := range items {
		category := "Uncategorized"
		if e.CategoryName != nil && *e.CategoryName != "" {
			category = *e.CategoryName
		}
		rows[i] = csvRow{
			Date:        e.ExpenseDate.Format(dateLayout),
			Description: e.Description,
			Amount:      e.Amount.StringFixed(2),
			Category:    category,
		}
	}
	return rows, nil
}

// CSV renders the export as UTF-8 comma-separated text.
func (s *Service) CSV(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]byte, error) {
	rows, err := s.rows(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal csv: %w", err)
	}
	return out, nil
}

// XLSX renders the export as a single-sheet workbook.
func (s *Service) XLSX(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]byte, error) {
	rows, err := s.rows(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Expenses"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Description", "Amount", "Category"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		values := []any{row.Date, row.Description, row.Amount, row.Category}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
