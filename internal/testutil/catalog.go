// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/itemquery/internal/catalog"
	"github.com/Veraticus/itemquery/internal/model"
)

// Stat ids used by the fixture catalog.
const (
	StatLife          = "explicit.stat_3299347043"
	StatArmourFlat    = "explicit.stat_809229260"
	StatFireRes       = "explicit.stat_3372524247"
	StatColdRes       = "explicit.stat_4220027924"
	StatLightningRes  = "explicit.stat_1671376347"
	StatArmourLocal   = "explicit.stat_1062208444"
	StatAddsFire      = "explicit.stat_709508406"
	StatStrength      = "explicit.stat_4080418644"
	StatManaRegen     = "explicit.stat_789117908"
	StatArmourStun    = "explicit.stat_3321629045"
	StatAllocates     = "explicit.stat_2954116742"
	StatBroken        = "explicit.stat_broken"
	StatImplicitLife  = "implicit.stat_3299347043"
	StatImplicitCast  = "implicit.stat_2891184298"
	StatRuneFireRes   = "rune.stat_3372524247"
	StatRuneLife      = "rune.stat_3299347043"
	StatEnchantRarity = "enchant.stat_3917489142"
	StatCraftedMana   = "crafted.stat_1050105434"
	StatPseudoLife    = "pseudo.pseudo_total_life"
)

// Catalog returns a small synthetic stat catalog covering every category,
// an option stat, a multi-line stat and one malformed template.
func Catalog() *model.Catalog {
	return &model.Catalog{
		Groups: []model.StatGroup{
			{
				ID:    "pseudo",
				Label: "Pseudo",
				Entries: []model.StatEntry{
					{ID: StatPseudoLife, Text: "+# total maximum Life", Type: "pseudo"},
				},
			},
			{
				ID:    "explicit",
				Label: "Explicit",
				Entries: []model.StatEntry{
					{ID: StatLife, Text: "+# to maximum Life", Type: "explicit"},
					{ID: StatArmourFlat, Text: "+# to Armour", Type: "explicit"},
					{ID: StatFireRes, Text: "+#% to Fire Resistance", Type: "explicit"},
					{ID: StatColdRes, Text: "+#% to Cold Resistance", Type: "explicit"},
					{ID: StatLightningRes, Text: "+#% to Lightning Resistance", Type: "explicit"},
					{ID: StatArmourLocal, Text: "#% increased [Armour|Armour] (Local)", Type: "explicit"},
					{ID: StatAddsFire, Text: "Adds # to # Fire Damage", Type: "explicit"},
					{ID: StatStrength, Text: "+# to [Attributes|Strength]", Type: "explicit"},
					{ID: StatManaRegen, Text: "#% increased Mana Regeneration Rate", Type: "explicit"},
					{ID: StatArmourStun, Text: "#% increased Armour\n+# to Stun Threshold", Type: "explicit"},
					{
						ID:   StatAllocates,
						Text: "Allocates #",
						Type: "explicit",
						Option: &model.StatOptions{Options: []model.StatOption{
							{ID: "1001", Text: "Heavy Buffer"},
							{ID: "1002", Text: "Iron Reflexes"},
						}},
					},
					{ID: StatBroken, Text: "Broken (template", Type: "explicit"},
				},
			},
			{
				ID:    "implicit",
				Label: "Implicit",
				Entries: []model.StatEntry{
					{ID: StatImplicitLife, Text: "+# to maximum Life", Type: "implicit"},
					{ID: StatImplicitCast, Text: "#% increased Cast Speed", Type: "implicit"},
				},
			},
			{
				ID:    "rune",
				Label: "Augment",
				Entries: []model.StatEntry{
					{ID: StatRuneFireRes, Text: "+#% to Fire Resistance", Type: "augment"},
					{ID: StatRuneLife, Text: "+# to maximum Life", Type: "rune"},
				},
			},
			{
				ID:    "enchant",
				Label: "Enchant",
				Entries: []model.StatEntry{
					{ID: StatEnchantRarity, Text: "#% increased Rarity of Items found", Type: "enchant"},
				},
			},
			{
				ID:    "crafted",
				Label: "Crafted",
				Entries: []model.StatEntry{
					{ID: StatCraftedMana, Text: "+# to maximum Mana", Type: "crafted"},
				},
			},
		},
		Categories: []model.FilterOption{
			{ID: "armour.helmet", Text: "Helmet"},
			{ID: "armour.chest", Text: "Body Armour"},
			{ID: "armour.gloves", Text: "Gloves"},
			{ID: "armour.boots", Text: "Boots"},
			{ID: "armour.shield", Text: "Shield"},
			{ID: "weapon.bow", Text: "Bow"},
			{ID: "weapon.onemace", Text: "One Hand Mace"},
			{ID: "weapon.twomace", Text: "Two Hand Mace"},
			{ID: "weapon.warstaff", Text: "Quarterstaff"},
			{ID: "weapon.sceptre", Text: "Sceptre"},
			{ID: "accessory.ring", Text: "Ring"},
			{ID: "accessory.amulet", Text: "Amulet"},
			{ID: "map.waystone", Text: "Waystone"},
		},
		Rarities: []model.FilterOption{
			{ID: "normal", Text: "Normal"},
			{ID: "magic", Text: "Magic"},
			{ID: "rare", Text: "Rare"},
			{ID: "unique", Text: "Unique"},
		},
	}
}

// Compiled compiles the fixture catalog and fails the test on error.
func Compiled(t testing.TB) *catalog.Compiled {
	t.Helper()

	compiled, _, err := catalog.Compile(context.Background(), Catalog(), catalog.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to compile fixture catalog: %v", err)
	}
	return compiled
}
