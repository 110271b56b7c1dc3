package catalog_test

import (
	"testing"

	"github.com/Veraticus/itemquery/internal/catalog"
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "template", input: "+#% to Fire Resistance", want: "to fire resistance"},
		{name: "rolled line", input: "+15% to Fire Resistance", want: "to fire resistance"},
		{name: "negative roll", input: "-5% to Fire Resistance", want: "to fire resistance"},
		{name: "decimal", input: "1.5% of Damage Leeched", want: "of damage leeched"},
		{name: "two numbers", input: "Adds 6 to 9 Fire Damage", want: "adds to fire damage"},
		{name: "multi line", input: "40% increased Armour\n+30 to Stun  Threshold", want: "increased armour\nto stun threshold"},
		{name: "extra whitespace", input: "  +72   to Armour ", want: "to armour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.Normalize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, catalog.Normalize(got), "normalize must be idempotent")
		})
	}
}

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "+# to Strength", catalog.StripMarkup("+# to [Attributes|Strength]"))
	assert.Equal(t, "#% increased Armour", catalog.StripMarkup("#% increased [Armour]"))
	assert.Equal(t, "no markup", catalog.StripMarkup("no markup"))
}

func TestNormalizedKey(t *testing.T) {
	tests := []struct {
		name     string
		template string
		option   string
		category model.ModCategory
		want     string
	}{
		{name: "explicit", template: "+# to maximum Life", category: model.ModExplicit, want: "to maximum life"},
		{name: "implicit suffix", template: "+# to maximum Life", category: model.ModImplicit, want: "to maximum life (implicit)"},
		{name: "rune suffix", template: "+#% to Fire Resistance", category: model.ModRune, want: "to fire resistance (rune)"},
		{name: "markup stripped", template: "#% increased [Armour|Armour] (Local)", category: model.ModExplicit, want: "increased armour (local)"},
		{name: "option substituted", template: "Allocates #", option: "Heavy Buffer", category: model.ModExplicit, want: "allocates heavy buffer"},
		{
			name:     "multi line suffix on each line",
			template: "#% increased Armour\n+# to Stun Threshold",
			category: model.ModImplicit,
			want:     "increased armour (implicit)\nto stun threshold (implicit)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.NormalizedKey(tt.template, tt.option, tt.category))
		})
	}
}
