package categorization

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// LabelMatch ranks an existing category against an unmatched import label.
type LabelMatch struct {
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Score        int       `json:"score"`
}

// CategoryCandidate is the minimal category view the matcher needs.
type CategoryCandidate struct {
	ID   uuid.UUID
	Name string
}

// DefaultLabelThreshold is the minimum similarity score for a label
// suggestion to be worth showing during import review.
const DefaultLabelThreshold = 60

// SuggestForLabel ranks the user's categories by similarity to an
// unmatched label from a statement file, best first. Only candidates at
// or above threshold are returned, capped at limit.
func SuggestForLabel(label string, candidates []CategoryCandidate, threshold, limit int) []LabelMatch {
	normalized := strings.ToUpper(strings.TrimSpace(label))
	if normalized == "" || len(candidates) == 0 {
		return nil
	}

	matches := make([]LabelMatch, 0, len(candidates))
	for _, c := range candidates {
		score := similarity(normalized, strings.ToUpper(strings.TrimSpace(c.Name)))
		if score >= threshold {
			matches = append(matches, LabelMatch{
				CategoryID:   c.ID,
				CategoryName: c.Name,
				Score:        score,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches
}

// similarity scores two normalized strings from 0 to 100. Containment is
// treated as a strong signal since bank labels often extend a category
// name ("GROCERIES SUPERMARKET" vs "Groceries").
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	if b != "" && strings.Contains(a, b) {
		return 75 + 25*len(b)/len(a)
	}
	if a != "" && strings.Contains(b, a) {
		return 75 + 25*len(a)/len(b)
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}

	distance := fuzzy.LevenshteinDistance(a, b)
	score := 100 * (maxLen - distance) / maxLen
	if score < 0 {
		score = 0
	}
	return score
}
