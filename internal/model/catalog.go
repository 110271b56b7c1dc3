package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Catalog is the raw stat and filter data the engine compiles at startup.
type Catalog struct {
	Groups     []StatGroup    `json:"result" yaml:"groups"`
	Categories []FilterOption `json:"-" yaml:"categories"`
	Rarities   []FilterOption `json:"-" yaml:"rarities"`
}

// StatGroup is one labelled section of the stat catalog.
type StatGroup struct {
	ID      string      `json:"id" yaml:"id"`
	Label   string      `json:"label" yaml:"label"`
	Entries []StatEntry `json:"entries" yaml:"entries"`
}

// StatEntry is a single templated stat. Text holds '#' placeholders and may span
// several lines.
type StatEntry struct {
	Option *StatOptions `json:"option,omitempty" yaml:"option,omitempty"`
	ID     string       `json:"id" yaml:"id"`
	Text   string       `json:"text" yaml:"text"`
	Type   string       `json:"type" yaml:"type"`
}

// StatOptions enumerates the values an option stat can take.
type StatOptions struct {
	Options []StatOption `json:"options" yaml:"options"`
}

// StatOption is one enumerated value of an option stat.
type StatOption struct {
	ID   OptionID `json:"id" yaml:"id"`
	Text string   `json:"text" yaml:"text"`
}

// OptionID is an option identifier. Catalogs use both numeric and string ids,
// so the raw token is kept verbatim.
type OptionID string

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (o *OptionID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*o = OptionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("option id must be a string or number: %w", err)
	}
	*o = OptionID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers and everything else as strings.
func (o OptionID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(o), 10, 64); err == nil {
		return []byte(o), nil
	}
	return json.Marshal(string(o))
}

// UnmarshalYAML accepts any scalar.
func (o *OptionID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("option id must be a scalar, got yaml kind %d", node.Kind)
	}
	*o = OptionID(node.Value)
	return nil
}

// FilterOption is an id/display-text pair from the filter dictionaries.
type FilterOption struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
}

// LineCount returns the number of item lines the entry's template spans.
func (e StatEntry) LineCount() int {
	return strings.Count(e.Text, "\n") + 1
}

// EntryCount returns the number of stat entries across all groups.
func (c *Catalog) EntryCount() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Entries)
	}
	return n
}

// CatalogSnapshot describes one imported catalog stored on disk.
type CatalogSnapshot struct {
	ImportedAt time.Time
	Source     string
	Checksum   string
	ID         int64
	Entries    int
}
