package copyright

import (
	"sort"
	"strings"
	"unicode"

	"marketplace/internal/models"
)

// Match is one banned term found in scanned text.
type Match struct {
	Term     string `json:"term"`
	Category string `json:"category"`
	Severity string `json:"severity"`
}

// Blocking reports whether the match takes a listing down without review.
func (m Match) Blocking() bool {
	return m.Severity == models.SeverityAutoFlag || m.Severity == models.SeverityAutoHide
}

var severityRank = map[string]int{
	models.SeverityWarning:  1,
	models.SeverityAutoFlag: 2,
	models.SeverityAutoHide: 3,
}

type entry struct {
	tokens []string
	word   models.BannedWord
}

// Scanner matches text against a banned-word list. Matching is
// case-insensitive and respects token boundaries, so "nike" matches
// "Nike-style" but not "nikel". Multi-word terms match consecutive tokens.
// A Scanner is immutable and safe for concurrent use.
type Scanner struct {
	version int64
	byFirst map[string][]entry
	size    int
}

func NewScanner(version int64, words []models.BannedWord) *Scanner {
	s := &Scanner{version: version, byFirst: make(map[string][]entry)}
	for _, w := range words {
		tokens := tokenize(w.Term)
		if len(tokens) == 0 {
			continue
		}
		s.byFirst[tokens[0]] = append(s.byFirst[tokens[0]], entry{tokens: tokens, word: w})
		s.size++
	}
	// Prefer the longest term when several share a first token.
	for _, list := range s.byFirst {
		sort.SliceStable(list, func(i, j int) bool { return len(list[i].tokens) > len(list[j].tokens) })
	}
	return s
}

func (s *Scanner) Version() int64 { return s.version }
func (s *Scanner) Len() int       { return s.size }

// Scan returns each matched term once, in order of first appearance. At any
// position the longest matching term wins and consumes its tokens.
func (s *Scanner) Scan(text string) []Match {
	tokens := tokenize(text)
	seen := make(map[string]bool)
	var out []Match
	for i := 0; i < len(tokens); {
		matched := false
		for _, e := range s.byFirst[tokens[i]] {
			if !hasPrefixTokens(tokens[i:], e.tokens) {
				continue
			}
			if !seen[e.word.Term] {
				seen[e.word.Term] = true
				out = append(out, Match{Term: e.word.Term, Category: e.word.Category, Severity: e.word.Severity})
			}
			i += len(e.tokens)
			matched = true
			break
		}
		if !matched {
			i++
		}
	}
	return out
}

func hasPrefixTokens(tokens, prefix []string) bool {
	if len(tokens) < len(prefix) {
		return false
	}
	for i := range prefix {
		if tokens[i] != prefix[i] {
			return false
		}
	}
	return true
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Strongest returns the highest severity among matches, or "" for none.
func Strongest(matches []Match) string {
	best := ""
	for _, m := range matches {
		if severityRank[m.Severity] > severityRank[best] {
			best = m.Severity
		}
	}
	return best
}

// Terms lists the matched terms.
func Terms(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Term)
	}
	return out
}

// BlockingTerms lists only the terms that trigger automatic action.
func BlockingTerms(matches []Match) []string {
	var out []string
	for _, m := range matches {
		if m.Blocking() {
			out = append(out, m.Term)
		}
	}
	return out
}
