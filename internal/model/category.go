package model

import "strings"

// ModCategory is the namespace a modifier belongs to. Identical surface text in
// different categories refers to different stats.
type ModCategory string

const (
	// ModExplicit represents regular affixes.
	ModExplicit ModCategory = "explicit"
	// ModImplicit represents base-type implicit modifiers.
	ModImplicit ModCategory = "implicit"
	// ModEnchant represents enchantments.
	ModEnchant ModCategory = "enchant"
	// ModRune represents modifiers granted by socketed runes.
	ModRune ModCategory = "rune"
	// ModCrafted represents crafted modifiers.
	ModCrafted ModCategory = "crafted"
	// ModPseudo represents aggregate stats that only exist in the catalog.
	ModPseudo ModCategory = "pseudo"
)

// MatchableCategories lists the categories the modifier matcher can resolve a line to.
var MatchableCategories = []ModCategory{ModExplicit, ModImplicit, ModEnchant, ModRune, ModCrafted}

// ParseModCategory converts a catalog type string into a ModCategory.
func ParseModCategory(s string) (ModCategory, bool) {
	c := ModCategory(strings.ToLower(strings.TrimSpace(s)))
	if c == "augment" {
		return ModRune, true
	}
	switch c {
	case ModExplicit, ModImplicit, ModEnchant, ModRune, ModCrafted, ModPseudo:
		return c, true
	}
	return "", false
}

// Suffix returns the annotation an item export appends to lines of this category.
func (c ModCategory) Suffix() string {
	switch c {
	case ModImplicit, ModEnchant, ModRune, ModCrafted:
		return " (" + string(c) + ")"
	}
	return ""
}
