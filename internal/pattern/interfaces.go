// Package pattern attributes the free-text modifier lines of an item to
// catalog stats.
package pattern

import (
	"github.com/Veraticus/itemquery/internal/catalog"
	"github.com/Veraticus/itemquery/internal/model"
)

// Catalog is the compiled stat catalog a Matcher resolves lines against.
// Every lookup is scoped to one modifier category.
type Catalog interface {
	// MaxLines returns the line count of the longest template.
	MaxLines() int
	// LookupExact returns the first pattern whose normalized key equals key.
	LookupExact(category model.ModCategory, key string) (*catalog.Pattern, bool)
	// MatchRegex returns the first pattern of lineCount lines accepting text.
	MatchRegex(category model.ModCategory, lineCount int, text string) (*catalog.Pattern, bool)
	// MatchFuzzy returns the most similar single-line pattern at or above threshold.
	MatchFuzzy(category model.ModCategory, text string, threshold float64) (*catalog.Pattern, float64, bool)
}

// Resolution is the outcome of resolving one window of lines.
type Resolution struct {
	Pattern  *catalog.Pattern
	Strategy model.MatchStrategy
	Score    float64
}

// Suggestion is the closest catalog stat for a line the matcher left alone.
type Suggestion struct {
	Text     string
	StatID   string
	Template string
	Category model.ModCategory
	Line     model.LineRef
	Score    float64
}

var _ Catalog = (*catalog.Compiled)(nil)
