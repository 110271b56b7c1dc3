// Package policy holds the tunable rules that decide which parts of an
// assembled query start enabled and how ambiguous stats are grouped.
package policy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/model"
)

//go:embed default.yaml
var defaultPolicy []byte

// Policy is immutable after loading and safe to share between parses.
type Policy struct {
	Fields         map[string]bool            `yaml:"fields"`
	StatCategories map[model.ModCategory]bool `yaml:"stat_categories"`
	ClassOverrides map[string]string          `yaml:"class_overrides"`
	ambiguity      map[string]int
	SearchTypeFor  []model.Rarity `yaml:"search_type_for"`
	AmbiguousStats [][]string     `yaml:"ambiguous_stats"`
}

// Default returns the embedded policy.
func Default() *Policy {
	p, err := Decode(bytes.NewReader(defaultPolicy))
	if err != nil {
		panic(fmt.Sprintf("embedded policy is invalid: %v", err))
	}
	return p
}

// Load reads a policy file. Keys absent from the file keep their defaults.
func Load(path string) (*Policy, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open policy file: %w", err)
	}
	defer func() { _ = f.Close() }()

	override, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return Default().merge(override), nil
}

// Decode parses a policy document.
func Decode(r io.Reader) (*Policy, error) {
	var p Policy
	if err := yaml.NewDecoder(r).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: failed to decode policy: %w", common.ErrInvalidConfig, err)
	}
	p.index()
	return &p, nil
}

func (p *Policy) merge(o *Policy) *Policy {
	out := &Policy{
		Fields:         copyMap(p.Fields),
		StatCategories: copyMap(p.StatCategories),
		ClassOverrides: copyMap(p.ClassOverrides),
		SearchTypeFor:  p.SearchTypeFor,
		AmbiguousStats: p.AmbiguousStats,
	}
	for k, v := range o.Fields {
		out.Fields[k] = v
	}
	for k, v := range o.StatCategories {
		out.StatCategories[k] = v
	}
	for k, v := range o.ClassOverrides {
		out.ClassOverrides[k] = v
	}
	if o.SearchTypeFor != nil {
		out.SearchTypeFor = o.SearchTypeFor
	}
	if o.AmbiguousStats != nil {
		out.AmbiguousStats = o.AmbiguousStats
	}
	out.index()
	return out
}

func (p *Policy) index() {
	p.ambiguity = make(map[string]int)
	for i, group := range p.AmbiguousStats {
		for _, id := range group {
			if _, seen := p.ambiguity[id]; !seen {
				p.ambiguity[id] = i
			}
		}
	}
}

// FieldEnabled reports whether group.field starts enabled. Unknown fields
// start disabled.
func (p *Policy) FieldEnabled(group, field string) bool {
	return p.Fields[group+"."+field]
}

// StatEnabled reports whether stat filters of a category start enabled.
func (p *Policy) StatEnabled(category model.ModCategory) bool {
	return p.StatCategories[category]
}

// ClassOverride returns the forced category id for an item class string.
func (p *Policy) ClassOverride(class string) (string, bool) {
	id, ok := p.ClassOverrides[class]
	return id, ok
}

// SearchesType reports whether name and base type are searched for a rarity.
func (p *Policy) SearchesType(rarity model.Rarity) bool {
	for _, r := range p.SearchTypeFor {
		if r == rarity {
			return true
		}
	}
	return false
}

// AmbiguityGroup returns the near-duplicate stat ids a stat belongs to, if any.
func (p *Policy) AmbiguityGroup(statID string) (int, []string, bool) {
	i, ok := p.ambiguity[statID]
	if !ok {
		return 0, nil, false
	}
	return i, p.AmbiguousStats[i], true
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
