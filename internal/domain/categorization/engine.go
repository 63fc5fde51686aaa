// Package categorization suggests categories for expense descriptions.
// Suggestions are advisory only; nothing here writes to an expense. The
// keyword engine handles exact substring hits over many rules in a single
// pass, and the fuzzy matcher covers near-miss category labels coming out
// of statement imports.
package categorization

import (
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
	"github.com/google/uuid"
)

// Suggestion is one proposed category for a description.
type Suggestion struct {
	Keyword    string    `json:"keyword"`
	CategoryID uuid.UUID `json:"category_id"`
	RuleID     uuid.UUID `json:"rule_id"`
	Priority   int       `json:"priority"`
}

// Engine matches expense descriptions against keyword rules using an
// Aho-Corasick automaton, so a scan is a single pass over the text no
// matter how many rules are loaded.
type Engine struct {
	matcher  *ahocorasick.Matcher
	keywords []string
	rules    [][]Suggestion
	mu       sync.RWMutex
}

// NewEngine builds an engine from the given rules.
func NewEngine(rules []KeywordRule) *Engine {
	e := &Engine{}
	e.Rebuild(rules)
	return e
}

// Rebuild replaces the automaton. Called after rules change; duplicate
// keywords across rules are grouped under one automaton entry.
func (e *Engine) Rebuild(rules []KeywordRule) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(rules) == 0 {
		e.matcher = nil
		e.keywords = nil
		e.rules = nil
		return
	}

	index := make(map[string]int, len(rules))
	keywords := make([]string, 0, len(rules))
	grouped := make([][]Suggestion, 0, len(rules))

	for _, rule := range rules {
		keyword := strings.ToUpper(strings.TrimSpace(rule.Keyword))
		if keyword == "" {
			continue
		}

		s := Suggestion{
			Keyword:    rule.Keyword,
			CategoryID: rule.CategoryID,
			RuleID:     rule.ID,
			Priority:   rule.Priority,
		}

		if idx, ok := index[keyword]; ok {
			grouped[idx] = append(grouped[idx], s)
			continue
		}
		index[keyword] = len(keywords)
		keywords = append(keywords, keyword)
		grouped = append(grouped, []Suggestion{s})
	}

	e.keywords = keywords
	e.rules = grouped

	if len(keywords) == 0 {
		e.matcher = nil
		return
	}

	patterns := make([][]byte, len(keywords))
	for i, k := range keywords {
		patterns[i] = []byte(k)
	}
	e.matcher = ahocorasick.NewMatcher(patterns)
}

// Suggest returns the highest-priority suggestion for the description, or
// nil when no keyword occurs in it. Ties go to the rule registered first.
func (e *Engine) Suggest(description string) *Suggestion {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.matcher == nil {
		return nil
	}

	hits := e.matcher.Match([]byte(strings.ToUpper(description)))
	if len(hits) == 0 {
		return nil
	}

	var best *Suggestion
	for _, idx := range hits {
		if idx < 0 || idx >= len(e.rules) {
			continue
		}
		for i := range e.rules[idx] {
			s := &e.rules[idx][i]
			if best == nil || s.Priority > best.Priority {
				c := *s
				best = &c
			}
		}
	}
	return best
}

// SuggestBatch resolves many descriptions under a single read lock. The
// result slice is positional; entries with no match are nil.
func (e *Engine) SuggestBatch(descriptions []string) []*Suggestion {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*Suggestion, len(descriptions))
	if e.matcher == nil {
		return out
	}

	for i, desc := range descriptions {
		hits := e.matcher.Match([]byte(strings.ToUpper(desc)))
		var best *Suggestion
		for _, idx := range hits {
			if idx < 0 || idx >= len(e.rules) {
				continue
			}
			for j := range e.rules[idx] {
				s := &e.rules[idx][j]
				if best == nil || s.Priority > best.Priority {
					c := *s
					best = &c
				}
			}
		}
		out[i] = best
	}
	return out
}

// RuleCount reports how many distinct keywords are loaded.
func (e *Engine) RuleCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.keywords)
}
