// Package property extracts fixed, labelled item properties such as armour,
// requirements and weapon damage from an item export.
package property

import (
	"fmt"
	"strings"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/model"
)

// RunFunc extracts one property. It returns false when the item does not have
// the property. Implementations consume the lines they read.
type RunFunc func(doc *model.Document, header *model.ItemHeader, props model.Properties) (model.PropertyValue, bool)

// Extractor produces the property called Name. Reads lists properties that
// must be extracted first, either because Run uses their values or because
// their lines must be consumed before Run scans for its own label.
type Extractor struct {
	Run        RunFunc
	Name       string
	Reads      []string
	Categories []string
}

// Allows reports whether the extractor may run for a category id. Categories
// holds id prefixes; an empty list allows every category.
func (e Extractor) Allows(categoryID string) bool {
	if len(e.Categories) == 0 {
		return true
	}
	for _, prefix := range e.Categories {
		if strings.HasPrefix(categoryID, prefix) {
			return true
		}
	}
	return false
}

// Registry runs extractors in dependency order. The order is computed once.
type Registry struct {
	ordered []Extractor
}

// NewRegistry orders extractors so every extractor runs after the ones it
// reads. Among extractors whose reads are satisfied, declaration order wins.
func NewRegistry(extractors []Extractor) (*Registry, error) {
	provided := make(map[string]bool, len(extractors))
	for _, e := range extractors {
		if e.Run == nil {
			return nil, fmt.Errorf("%w: extractor %q has no run function", common.ErrInvalidConfig, e.Name)
		}
		if provided[e.Name] {
			return nil, fmt.Errorf("%w: duplicate extractor %q", common.ErrInvalidConfig, e.Name)
		}
		provided[e.Name] = true
	}
	for _, e := range extractors {
		for _, r := range e.Reads {
			if !provided[r] {
				return nil, fmt.Errorf("%w: extractor %q reads unknown property %q", common.ErrInvalidConfig, e.Name, r)
			}
		}
	}

	done := make(map[string]bool, len(extractors))
	placed := make([]bool, len(extractors))
	ordered := make([]Extractor, 0, len(extractors))

	for len(ordered) < len(extractors) {
		progressed := false
		for i, e := range extractors {
			if placed[i] || !readsSatisfied(e, done) {
				continue
			}
			placed[i] = true
			done[e.Name] = true
			ordered = append(ordered, e)
			progressed = true
			break
		}
		if !progressed {
			return nil, fmt.Errorf("%w: extractor dependency cycle", common.ErrInvalidConfig)
		}
	}

	return &Registry{ordered: ordered}, nil
}

func readsSatisfied(e Extractor, done map[string]bool) bool {
	for _, r := range e.Reads {
		if !done[r] {
			return false
		}
	}
	return true
}

// Order returns extractor names in execution order.
func (r *Registry) Order() []string {
	names := make([]string, len(r.ordered))
	for i, e := range r.ordered {
		names[i] = e.Name
	}
	return names
}

// Extract runs every allowed extractor against doc and collects the
// properties found. Absent properties are left out of the map.
func (r *Registry) Extract(doc *model.Document, header *model.ItemHeader) model.Properties {
	props := make(model.Properties)
	for _, e := range r.ordered {
		if !e.Allows(header.CategoryID) {
			continue
		}
		if v, ok := e.Run(doc, header, props); ok {
			props[e.Name] = v
		}
	}
	return props
}
