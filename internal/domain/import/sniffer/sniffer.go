// Package sniffer inspects raw CSV statement text before any row is parsed.
// It detects the field delimiter, decides whether the first line is a header,
// tokenizes lines with quote support, and builds the bounded preview used to
// drive the column-mapping confirmation step.
package sniffer

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyFile is returned when the uploaded text contains no non-blank lines.
var ErrEmptyFile = errors.New("file is empty")

// SampleRowLimit bounds how many data rows the preview carries.
const SampleRowLimit = 5

// Preview is the bounded sample shown on the column-mapping screen.
// It is derived data, recomputed whenever the source text changes.
type Preview struct {
	Headers            []string
	SampleRows         [][]string
	Delimiter          rune
	TotalRows          int
	HasNegativeAmounts bool
}

var (
	negativeAmountRe = regexp.MustCompile(`^-\d`)
	lineBreakRe      = regexp.MustCompile(`\r?\n`)
)

// DetectDelimiter inspects the first line and picks between comma and
// semicolon. Semicolon wins only when it strictly outnumbers the comma;
// tab and other delimiters are not supported.
func DetectDelimiter(firstLine string) rune {
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

// Greek bank exports label columns in Greek; the header check accepts both.
var greekHeaderTokens = []string{"ημ/νια", "περιγραφη", "ποσο"}

// IsHeaderRow reports whether a line looks like a header rather than data.
// This is a heuristic, not a schema declaration: false positives and
// negatives are possible.
func IsHeaderRow(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "date") && strings.Contains(lower, "description") &&
		(strings.Contains(lower, "category") || strings.Contains(lower, "amount")) {
		return true
	}
	for _, token := range greekHeaderTokens {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

// ParseLine splits one CSV line into fields using a single-pass scanner.
// Double quotes open and close quoted fields, a doubled "" inside quotes
// emits a literal quote, and the delimiter is data while quoted. The final
// field is always emitted. Embedded newlines are not supported; line
// splitting happens before tokenizing.
func ParseLine(line string, delimiter rune) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == delimiter && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, current.String())
	return fields
}

// SplitLines breaks the raw text into lines on \r?\n, dropping blank lines.
func SplitLines(text string) []string {
	raw := lineBreakRe.Split(text, -1)
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// BuildPreview tokenizes the whole text and assembles the preview sample.
// The first tokenized line is always presented as headers; whether it is
// actually treated as a header during parsing is decided by IsHeaderRow.
// The negative-amount scan is deliberately column-agnostic since no mapping
// exists yet.
func BuildPreview(text string) (*Preview, error) {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}

	delimiter := DetectDelimiter(lines[0])

	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, ParseLine(line, delimiter))
	}

	preview := &Preview{
		Headers:   rows[0],
		Delimiter: delimiter,
	}

	for _, row := range rows[1:] {
		if !rowHasContent(row) {
			continue
		}
		preview.TotalRows++
		if len(preview.SampleRows) < SampleRowLimit {
			preview.SampleRows = append(preview.SampleRows, row)
		}
	}

	for _, row := range rows[1:] {
		for _, cell := range row {
			if negativeAmountRe.MatchString(cleanNumericCell(cell)) {
				preview.HasNegativeAmounts = true
				return preview, nil
			}
		}
	}

	return preview, nil
}

func rowHasContent(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(strings.ReplaceAll(cell, `"`, "")) != "" {
			return true
		}
	}
	return false
}

func cleanNumericCell(cell string) string {
	cleaned := strings.TrimSpace(cell)
	cleaned = strings.Trim(cleaned, `"`)
	for _, sym := range []string{"€", "$", "£", "¥"} {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}
	return strings.TrimSpace(cleaned)
}
