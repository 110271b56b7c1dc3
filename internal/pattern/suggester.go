package pattern

import (
	"sort"

	"github.com/Veraticus/itemquery/internal/model"
)

// Suggest reports, for every line the matcher left unconsumed after the
// header block, the closest catalog stat of the line's category regardless of
// the fuzzy threshold. Lines with no candidate at all are left out. Results
// are ordered by score, best first, then by position.
func (m *Matcher) Suggest(doc *model.Document) []Suggestion {
	var out []Suggestion

	for _, ref := range doc.Unconsumed() {
		if ref.Block == 0 {
			continue
		}
		text := doc.Line(ref).Text
		if m.skip != nil && m.skip(text) {
			continue
		}
		category := DetectSuffix(text)
		p, score, ok := m.catalog.MatchFuzzy(category, CleanLine(text), minSuggestScore)
		if !ok {
			continue
		}
		out = append(out, Suggestion{
			Text:     text,
			StatID:   p.ID,
			Template: p.Template,
			Category: category,
			Line:     ref,
			Score:    score,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

const minSuggestScore = 0.01
