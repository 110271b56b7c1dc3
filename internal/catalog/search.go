package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// SearchHit is a catalog lookup result.
type SearchHit struct {
	Pattern *Pattern
	Score   int
}

// patternSource implements fuzzy.Source over the compiled patterns.
type patternSource []Pattern

func (s patternSource) Len() int {
	return len(s)
}

func (s patternSource) String(i int) string {
	return strings.ToLower(s[i].FuzzyDocText)
}

// Search finds patterns whose display text contains the characters of query
// in order, best first. It backs interactive stat lookup, not item matching.
func (c *Compiled) Search(query string, limit int) []SearchHit {
	query = strings.Join(strings.Fields(strings.ToLower(query)), " ")
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, patternSource(c.patterns))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	hits := make([]SearchHit, len(matches))
	for i, m := range matches {
		hits[i] = SearchHit{Pattern: &c.patterns[m.Index], Score: m.Score}
	}
	return hits
}
