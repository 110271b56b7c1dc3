// Package reconcile maps the modifiers of fetched trade listings back onto
// catalog templates and compares them with the filters that were searched.
package reconcile

import (
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/model"
)

// Direction tells whether a listing rolled above or below the searched bound.
type Direction string

// Delta directions.
const (
	Higher Direction = "higher"
	Lower  Direction = "lower"
)

// Delta is a rounded percentage difference from a searched bound.
type Delta struct {
	Direction Direction `json:"direction"`
	Percent   int       `json:"percent"`
}

// Reconciled is one listing modifier expressed in catalog terms.
type Reconciled struct {
	Delta    *Delta            `json:"delta,omitempty"`
	StatID   string            `json:"stat_id"`
	Category model.ModCategory `json:"category"`
	RawText  string            `json:"raw_text"`
	Text     string            `json:"text"`
	Values   []float64         `json:"values"`
	Index    int               `json:"index"`
}

// Reconcile walks the listing's hash index category by category. Each hash
// entry names a stat and the mod lines it produced; the line's numbers are
// substituted into the stat's template, and stats with an enabled filter in q
// get a delta against that filter. Entries pointing past the mod list are
// skipped. A nil query yields no deltas.
func Reconcile(item *model.ResultItem, templates map[string]string, q *model.Query) []Reconciled {
	var active map[string]model.StatFilter
	if q != nil {
		active = q.ActiveStatFilters()
	}

	var out []Reconciled
	for _, category := range model.MatchableCategories {
		mods := item.ModsFor(category)
		for _, ref := range item.Extended.Hashes[string(category)] {
			for _, idx := range ref.Indices {
				if idx < 0 || idx >= len(mods) {
					continue
				}
				raw := mods[idx]
				values := common.ExtractNumbers(raw)

				r := Reconciled{
					StatID:   ref.StatID,
					Category: category,
					RawText:  raw,
					Text:     raw,
					Values:   values,
					Index:    idx,
				}
				if template, ok := templates[ref.StatID]; ok {
					r.Text = Fill(template, values)
				}
				if f, ok := active[ref.StatID]; ok {
					r.Delta = CompareValues(values, f.Value)
				}
				out = append(out, r)
			}
		}
	}
	return out
}

// Fill replaces the template's placeholders with values in order. Surplus
// placeholders are left as they are.
func Fill(template string, values []float64) string {
	var b strings.Builder
	next := 0
	for _, r := range template {
		if r == '#' && next < len(values) {
			b.WriteString(strconv.FormatFloat(values[next], 'f', -1, 64))
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CompareValues returns how far values sit from the filter's bound: its
// minimum, or its maximum when no minimum is set. A single value gives one
// percentage delta; a lo/hi pair averages the deltas of both ends. It
// returns nil when there is no usable bound or the delta rounds to zero.
func CompareValues(values []float64, filter model.Range) *Delta {
	if len(values) == 0 {
		return nil
	}

	bound := filter.Min
	if bound == nil {
		bound = filter.Max
	}
	if bound == nil || *bound == 0 {
		return nil
	}
	b := *bound

	pct := percent(values[0], b)
	if len(values) > 1 {
		pct = (pct + percent(values[1], b)) / 2
	}

	rounded := int(math.Round(pct))
	switch {
	case rounded > 0:
		return &Delta{Direction: Higher, Percent: rounded}
	case rounded < 0:
		return &Delta{Direction: Lower, Percent: -rounded}
	}
	return nil
}

func percent(v, bound float64) float64 {
	return (v - bound) / bound * 100
}
