// Package parser walks tokenized statement rows under a confirmed column
// mapping and produces the full parse result in one pass: valid expense
// rows, per-row errors, skipped income count, and the set of category
// labels that match none of the user's categories.
//
// Parsing is total over the input. A malformed row never aborts the file;
// every per-row problem is accumulated and returned, so the caller always
// sees the complete picture.
package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/FACorreiaa/pocketledger/internal/domain/import/normalizer"
	"github.com/FACorreiaa/pocketledger/internal/domain/import/sniffer"
)

// Validation bounds for a single expense row.
const (
	MaxDescriptionLen = 100
	MaxAmount         = 1_000_000
)

// ColumnMapping assigns spreadsheet roles to zero-based column indices.
// CategoryCol is -1 when the file has no category column. The mapping is
// immutable once parsing begins for a given run.
type ColumnMapping struct {
	DateCol     int
	DescCol     int
	AmountCol   int
	CategoryCol int
}

// Options controls the parse pass.
type Options struct {
	// SkipIncome drops rows classified as income without recording an
	// error; they are counted in SkippedIncomeCount instead.
	SkipIncome bool
	// Convention selects the sign semantics for income classification,
	// chosen by the caller from the preview's negative-amount scan.
	Convention normalizer.SignConvention
}

// ExpenseRow is one validated row, ready for category resolution. It is
// never persisted as-is; the resolver turns it into an insertable record.
type ExpenseRow struct {
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	CategoryName string  `json:"category_name"`
	Amount       float64 `json:"amount"`
	RowNumber    int     `json:"row_number"`
}

// RowError describes why a row was dropped. Field is one of "row", "date",
// "description", "amount".
type RowError struct {
	RowNumber int    `json:"row_number"`
	Field     string `json:"field"`
	Message   string `json:"message"`
	RawValue  string `json:"raw_value"`
}

// Result aggregates everything a parse pass produced. UnmatchedCategories
// is deduplicated case-insensitively but preserves first-seen casing.
type Result struct {
	ValidRows           []ExpenseRow `json:"valid_rows"`
	Errors              []RowError   `json:"errors"`
	UnmatchedCategories []string     `json:"unmatched_categories"`
	SkippedIncomeCount  int          `json:"skipped_income_count"`
}

type outcomeKind int

const (
	outcomeValid outcomeKind = iota
	outcomeSkippedBlank
	outcomeSkippedIncome
	outcomeError
)

// rowOutcome is the tagged per-row result accumulated by Parse.
type rowOutcome struct {
	kind outcomeKind
	row  ExpenseRow
	err  RowError
}

// Parse tokenizes the text with the detected delimiter, optionally skips a
// detected header line, and validates every remaining row against the
// mapping. Row numbers refer to the 1-based position among non-blank lines,
// header included, so errors correlate back to the source file.
func Parse(text string, categoryNames []string, mapping ColumnMapping, opts Options) *Result {
	result := &Result{
		ValidRows: []ExpenseRow{},
		Errors:    []RowError{},
	}

	lines := sniffer.SplitLines(text)
	if len(lines) == 0 {
		return result
	}

	delimiter := sniffer.DetectDelimiter(lines[0])

	start := 0
	if sniffer.IsHeaderRow(lines[0]) {
		start = 1
	}

	lookup := make(map[string]struct{}, len(categoryNames))
	for _, name := range categoryNames {
		lookup[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	unmatchedSeen := make(map[string]struct{})

	for i := start; i < len(lines); i++ {
		rowNumber := i + 1
		outcome := parseRow(lines[i], delimiter, mapping, opts, rowNumber, lookup)

		switch outcome.kind {
		case outcomeValid:
			name := outcome.row.CategoryName
			if name != "" {
				if _, matched := lookup[strings.ToLower(name)]; !matched {
					key := strings.ToLower(name)
					if _, seen := unmatchedSeen[key]; !seen {
						unmatchedSeen[key] = struct{}{}
						result.UnmatchedCategories = append(result.UnmatchedCategories, name)
					}
				}
			}
			result.ValidRows = append(result.ValidRows, outcome.row)
		case outcomeSkippedIncome:
			result.SkippedIncomeCount++
		case outcomeError:
			result.Errors = append(result.Errors, outcome.err)
		}
	}

	return result
}

func parseRow(line string, delimiter rune, mapping ColumnMapping, opts Options, rowNumber int, lookup map[string]struct{}) rowOutcome {
	fields := sniffer.ParseLine(line, delimiter)

	required := maxIndex(mapping) + 1
	if len(fields) < required {
		return errorOutcome(rowNumber, "row",
			fmt.Sprintf("must have at least %d columns", required), line)
	}

	// Bank exports commonly end with footer/metadata lines that have no
	// date; those are expected noise, not user mistakes.
	dateRaw := stripQuotes(fields[mapping.DateCol])
	if dateRaw == "" {
		return rowOutcome{kind: outcomeSkippedBlank}
	}

	date, ok := normalizer.ParseDate(dateRaw)
	if !ok {
		return errorOutcome(rowNumber, "date", "invalid date format", dateRaw)
	}

	description := strings.TrimSpace(fields[mapping.DescCol])
	if description == "" {
		return errorOutcome(rowNumber, "description", "required", fields[mapping.DescCol])
	}
	// Length is bounded in characters, not bytes; Greek exports are
	// two bytes per letter.
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return errorOutcome(rowNumber, "description",
			fmt.Sprintf("must be less than %d characters", MaxDescriptionLen), description)
	}

	amountRaw := fields[mapping.AmountCol]
	amount, isIncome, ok := normalizer.ParseAmount(amountRaw, opts.Convention)

	// Income classification runs before the positivity check. A credit row
	// is counted as skipped, never reported as an error.
	if opts.SkipIncome && ok && isIncome {
		return rowOutcome{kind: outcomeSkippedIncome}
	}
	if !ok || amount <= 0 {
		return errorOutcome(rowNumber, "amount", "must be a positive number", amountRaw)
	}
	if amount > MaxAmount {
		return errorOutcome(rowNumber, "amount", "must be less than 1,000,000", amountRaw)
	}

	categoryName := ""
	if mapping.CategoryCol >= 0 && mapping.CategoryCol < len(fields) {
		categoryName = strings.TrimSpace(fields[mapping.CategoryCol])
		if strings.EqualFold(categoryName, "uncategorized") {
			categoryName = ""
		}
	}

	return rowOutcome{
		kind: outcomeValid,
		row: ExpenseRow{
			Date:         date,
			Description:  description,
			CategoryName: categoryName,
			Amount:       amount,
			RowNumber:    rowNumber,
		},
	}
}

func errorOutcome(rowNumber int, field, message, raw string) rowOutcome {
	return rowOutcome{
		kind: outcomeError,
		err: RowError{
			RowNumber: rowNumber,
			Field:     field,
			Message:   message,
			RawValue:  raw,
		},
	}
}

func maxIndex(mapping ColumnMapping) int {
	max := mapping.DateCol
	if mapping.DescCol > max {
		max = mapping.DescCol
	}
	if mapping.AmountCol > max {
		max = mapping.AmountCol
	}
	if mapping.CategoryCol > max {
		max = mapping.CategoryCol
	}
	return max
}

func stripQuotes(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}
