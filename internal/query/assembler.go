// Package query assembles classified headers, extracted properties and
// matched modifiers into a trade query.
package query

import (
	"sort"
	"strconv"

	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/policy"
)

// Assembler builds queries under a fixed policy. It holds no per-query state
// and is safe for concurrent use.
type Assembler struct {
	policy *policy.Policy
}

// NewAssembler creates an Assembler. A nil policy uses the embedded default.
func NewAssembler(pol *policy.Policy) *Assembler {
	if pol == nil {
		pol = policy.Default()
	}
	return &Assembler{policy: pol}
}

// Assemble combines the parse results into a query. The same inputs always
// produce the same query, including its enabled flags.
func (a *Assembler) Assemble(header *model.ItemHeader, props model.Properties, mods []model.MatchedModifier) *model.Query {
	q := model.NewQuery()

	q.Name = header.Name
	q.Type = header.TypeLine
	q.NameEnabled = header.Name != "" && a.policy.SearchesType(header.Rarity)
	q.TypeEnabled = header.TypeLine != "" && a.policy.SearchesType(header.Rarity)

	if header.CategoryID != "" {
		a.set(q, model.GroupType, "category", &model.FilterField{Option: header.CategoryID})
	}
	if header.Rarity != "" {
		a.set(q, model.GroupType, "rarity", &model.FilterField{Option: string(header.Rarity)})
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		target, ok := Fields[name]
		if !ok {
			continue
		}
		a.set(q, target.Group, target.Field, fieldFor(props[name], target))
	}

	for _, g := range q.Groups {
		for _, f := range g.Filters {
			if f.Enabled {
				g.Enabled = true
				break
			}
		}
	}

	q.Stats = a.statGroups(mods)
	return q
}

func (a *Assembler) set(q *model.Query, group, field string, f *model.FilterField) {
	f.Enabled = a.policy.FieldEnabled(group, field)
	q.SetField(group, field, f)
}

func fieldFor(v model.PropertyValue, target Target) *model.FilterField {
	if v.Flag != nil {
		flag := *v.Flag
		if target.Invert {
			flag = !flag
		}
		return &model.FilterField{Option: strconv.FormatBool(flag)}
	}

	f := &model.FilterField{}
	if v.Min != nil {
		original := *v.Min
		f.OriginalValue = &original
		f.Reset()
	}
	return f
}

// statGroups puts every modifier into one "and" group, except modifiers of
// stats with near-identical twins, which each get a "count" group requiring
// any one of the twins.
func (a *Assembler) statGroups(mods []model.MatchedModifier) []model.StatFilterGroup {
	and := model.StatFilterGroup{Type: model.StatGroupAnd, Enabled: true, Filters: []model.StatFilter{}}
	var counts []model.StatFilterGroup

	for _, mod := range mods {
		enabled := a.policy.StatEnabled(mod.Category)

		_, twins, ambiguous := a.policy.AmbiguityGroup(mod.StatID)
		if !ambiguous {
			and.Filters = append(and.Filters, statFilter(mod, mod.StatID, enabled))
			continue
		}

		one := 1.0
		group := model.StatFilterGroup{
			Type:    model.StatGroupCount,
			Value:   model.Range{Min: &one},
			Enabled: true,
		}
		for _, id := range twins {
			group.Filters = append(group.Filters, statFilter(mod, id, enabled))
		}
		counts = append(counts, group)
	}

	return append([]model.StatFilterGroup{and}, counts...)
}

func statFilter(mod model.MatchedModifier, id string, enabled bool) model.StatFilter {
	return model.StatFilter{
		Original: copyRange(mod.Original),
		Value:    copyRange(mod.Search),
		ID:       id,
		Category: mod.Category,
		RawText:  mod.RawText,
		Option:   mod.Option,
		Enabled:  enabled,
	}
}

func copyRange(r model.Range) model.Range {
	var out model.Range
	if r.Min != nil {
		v := *r.Min
		out.Min = &v
	}
	if r.Max != nil {
		v := *r.Max
		out.Max = &v
	}
	return out
}
