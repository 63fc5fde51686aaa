package sniffer

import (
	"strings"
	"unicode/utf8"
)

// ColumnSuggestions holds heuristically assigned column roles. CategoryCol
// is -1 when no category column could be identified. Suggestions always go
// through a human confirmation step before parsing commits to them.
type ColumnSuggestions struct {
	DateCol     int
	DescCol     int
	AmountCol   int
	CategoryCol int
}

// Header keyword lists per role, English plus Greek. Matching is
// case-insensitive substring; the last matching header per role wins.
var (
	dateKeywords     = []string{"date", "ημ/νια", "ημερομηνια"}
	descKeywords     = []string{"description", "περιγραφη", "details", "memo", "payee"}
	amountKeywords   = []string{"amount", "ποσο", "sum", "value"}
	categoryKeywords = []string{"category", "κατηγορια", "type"}
)

const categoryShapeMaxAvgLen = 30

// SuggestColumns guesses the role of each column from header text, falling
// back to positional defaults (date first, description second, amount last)
// and, for the category role, to a content-shape heuristic over the sample
// rows: a column whose values repeat and stay short is likely a category.
func SuggestColumns(headers []string, sampleRows [][]string) *ColumnSuggestions {
	s := &ColumnSuggestions{
		DateCol:     0,
		DescCol:     1,
		AmountCol:   len(headers) - 1,
		CategoryCol: -1,
	}
	if s.AmountCol < 0 {
		s.AmountCol = 0
	}

	for i, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))
		if matchesAny(h, dateKeywords) {
			s.DateCol = i
		}
		if matchesAny(h, descKeywords) {
			s.DescCol = i
		}
		if matchesAny(h, amountKeywords) {
			s.AmountCol = i
		}
		if matchesAny(h, categoryKeywords) {
			s.CategoryCol = i
		}
	}

	if s.CategoryCol == -1 {
		s.CategoryCol = guessCategoryByShape(headers, sampleRows, s)
	}

	return s
}

func matchesAny(header string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(header, kw) {
			return true
		}
	}
	return false
}

// guessCategoryByShape scans unassigned columns in index order and picks the
// first whose distinct trimmed values repeat across the sample (distinct
// count below the sample size) and average under 30 characters. Returns -1
// when no column qualifies.
func guessCategoryByShape(headers []string, sampleRows [][]string, s *ColumnSuggestions) int {
	if len(sampleRows) == 0 {
		return -1
	}

	for col := range headers {
		if col == s.DateCol || col == s.DescCol || col == s.AmountCol {
			continue
		}

		distinct := make(map[string]struct{})
		for _, row := range sampleRows {
			if col < len(row) {
				distinct[strings.TrimSpace(row[col])] = struct{}{}
			}
		}
		if len(distinct) == 0 || len(distinct) >= len(sampleRows) {
			continue
		}

		totalLen := 0
		for value := range distinct {
			totalLen += utf8.RuneCountInString(value)
		}
		if totalLen/len(distinct) < categoryShapeMaxAvgLen {
			return col
		}
	}

	return -1
}
