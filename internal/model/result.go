package model

import (
	"encoding/json"
	"fmt"
)

// ResultItem is the subset of a fetched trade listing needed to reconcile its
// modifiers against the stat catalog.
type ResultItem struct {
	Extended     ResultExtended `json:"extended"`
	Name         string         `json:"name"`
	TypeLine     string         `json:"typeLine"`
	ExplicitMods []string       `json:"explicitMods"`
	ImplicitMods []string       `json:"implicitMods"`
	EnchantMods  []string       `json:"enchantMods"`
	RuneMods     []string       `json:"runeMods"`
	CraftedMods  []string       `json:"craftedMods"`
}

// ResultExtended carries the hash index of a listing.
type ResultExtended struct {
	Hashes map[string][]HashRef `json:"hashes"`
}

// HashRef ties a stat id to the positions of the mod lines it produced.
// On the wire it is a two-element array: ["explicit.stat_1", [0, 2]].
type HashRef struct {
	StatID  string
	Indices []int
}

// UnmarshalJSON decodes the array form. A null index list is allowed.
func (h *HashRef) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("hash entry must be an array: %w", err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("hash entry is empty")
	}
	if err := json.Unmarshal(raw[0], &h.StatID); err != nil {
		return fmt.Errorf("hash entry stat id: %w", err)
	}
	h.Indices = nil
	if len(raw) > 1 {
		if err := json.Unmarshal(raw[1], &h.Indices); err != nil {
			return fmt.Errorf("hash entry indices: %w", err)
		}
	}
	return nil
}

// ModsFor returns the raw mod lines of the given category.
func (r *ResultItem) ModsFor(category ModCategory) []string {
	switch category {
	case ModExplicit:
		return r.ExplicitMods
	case ModImplicit:
		return r.ImplicitMods
	case ModEnchant:
		return r.EnchantMods
	case ModRune:
		return r.RuneMods
	case ModCrafted:
		return r.CraftedMods
	}
	return nil
}
