// Package similarity provides approximate string matching behind a small
// interface so the scoring algorithm can be swapped.
package similarity

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Candidate is a scored search hit. ID is the position of the document in the
// slice the index was built from.
type Candidate struct {
	ID    int
	Score float64
}

// Index ranks indexed documents by similarity to a query.
type Index interface {
	// Search returns up to limit candidates, best first. Equal scores are
	// ordered by ascending ID so results are deterministic.
	Search(text string, limit int) []Candidate
	// Len returns the number of indexed documents.
	Len() int
}

// Score returns the Sorensen-Dice bigram similarity of a and b in [0, 1],
// ignoring case.
func Score(a, b string) float64 {
	return strutil.Similarity(a, b, newMetric())
}

func newMetric() *metrics.SorensenDice {
	m := metrics.NewSorensenDice()
	m.CaseSensitive = false
	m.NgramSize = 2
	return m
}

// DiceIndex is an immutable bigram index scored with Sorensen-Dice. It is safe
// for concurrent use once built.
type DiceIndex struct {
	postings map[string][]int
	docs     []string
}

// NewDiceIndex indexes docs. The slice position of each doc is its ID.
func NewDiceIndex(docs []string) *DiceIndex {
	idx := &DiceIndex{
		docs:     make([]string, len(docs)),
		postings: make(map[string][]int),
	}
	copy(idx.docs, docs)

	for id, doc := range idx.docs {
		for gram := range bigrams(doc) {
			idx.postings[gram] = append(idx.postings[gram], id)
		}
	}
	return idx
}

// Len returns the number of indexed documents.
func (idx *DiceIndex) Len() int {
	return len(idx.docs)
}

// Search scores every document sharing at least one bigram with text.
func (idx *DiceIndex) Search(text string, limit int) []Candidate {
	seen := make(map[int]struct{})
	for gram := range bigrams(text) {
		for _, id := range idx.postings[gram] {
			seen[id] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	metric := newMetric()
	out := make([]Candidate, 0, len(seen))
	for id := range seen {
		out = append(out, Candidate{ID: id, Score: strutil.Similarity(text, idx.docs[id], metric)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Best returns the highest scoring candidate at or above threshold.
func Best(idx Index, text string, threshold float64) (Candidate, bool) {
	hits := idx.Search(text, 1)
	if len(hits) == 0 || hits[0].Score < threshold {
		return Candidate{}, false
	}
	return hits[0], true
}

func bigrams(s string) map[string]struct{} {
	runes := []rune(strings.ToLower(s))
	grams := make(map[string]struct{}, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])] = struct{}{}
	}
	return grams
}
