package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Statement dates outside this window are treated as parse noise.
const (
	minYear = 2000
	maxYear = 2100
)

// ParseDate accepts exactly three textual shapes, tried in order: ISO
// yyyy-MM-dd, EU dd/MM/yyyy, then US MM/dd/yyyy. The first structurally
// matching shape that survives calendar validation wins, so an ambiguous
// slash date like 01/02/2024 always reads day-first; a date such as
// 03/14/2024 fails the EU day range and falls through to US parsing.
// Returns the normalized ISO string and ok=false for anything else.
func ParseDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)

	if parts, ok := splitDate(s, "-"); ok {
		if iso, ok := buildDate(parts[0], parts[1], parts[2]); ok {
			return iso, true
		}
		return "", false
	}

	parts, ok := splitDate(s, "/")
	if !ok {
		return "", false
	}
	// EU day-first, then US month-first.
	if iso, ok := buildDate(parts[2], parts[1], parts[0]); ok {
		return iso, true
	}
	if iso, ok := buildDate(parts[2], parts[0], parts[1]); ok {
		return iso, true
	}
	return "", false
}

func splitDate(s, sep string) ([]string, bool) {
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return nil, false
			}
		}
	}
	return parts, true
}

// buildDate validates year/month/day as a real calendar date by round-trip
// through time.Date, which normalizes overflow (Feb 30 becomes Mar 1/2).
func buildDate(yearStr, monthStr, dayStr string) (string, bool) {
	year, _ := strconv.Atoi(yearStr)
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)

	if year < minYear || year > maxYear || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
