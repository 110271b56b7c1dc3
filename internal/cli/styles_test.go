package cli

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/itemquery/internal/model"
)

func TestFormatMessages(t *testing.T) {
	tests := []struct {
		format func(string) string
		name   string
		icon   string
	}{
		{name: "success", format: FormatSuccess, icon: SuccessIcon},
		{name: "error", format: FormatError, icon: ErrorIcon},
		{name: "warning", format: FormatWarning, icon: WarningIcon},
		{name: "info", format: FormatInfo, icon: InfoIcon},
		{name: "title", format: FormatTitle, icon: ItemIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format("catalog imported")
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "catalog imported")
		})
	}
}

func TestRarityStyle(t *testing.T) {
	assert.Equal(t, lipgloss.TerminalColor(rarityColors[model.RarityUnique]), RarityStyle(model.RarityUnique).GetForeground())
	assert.Equal(t, lipgloss.TerminalColor(PrimaryColor), RarityStyle(model.Rarity("relic")).GetForeground())
	assert.True(t, RarityStyle(model.RarityRare).GetBold())
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Parse summary", "modifiers: 6")
	assert.Contains(t, out, "Parse summary")
	assert.Contains(t, out, "modifiers: 6")
	assert.Contains(t, out, "╭", "rounded border")
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader(&model.ItemHeader{
		Class:      "Helmets",
		CategoryID: "armour.helmet",
		Rarity:     model.RarityRare,
		Name:       "Doom Veil",
		TypeLine:   "Soldier Greathelm",
	})
	assert.Contains(t, out, "Doom Veil Soldier Greathelm")
	assert.Contains(t, out, "Helmets · armour.helmet · rare")

	out = RenderHeader(&model.ItemHeader{Class: "Bows", Rarity: model.RarityMagic, TypeLine: "Short Bow"})
	assert.Contains(t, out, ItemIcon+" Short Bow")
}

func TestRenderSummary(t *testing.T) {
	mods := []model.MatchedModifier{
		{Strategy: model.StrategyExact},
		{Strategy: model.StrategyRegex},
		{Strategy: model.StrategyRegex},
		{Strategy: model.StrategyFuzzy},
	}

	out := RenderSummary(mods, []string{"Requirements:"})

	assert.Contains(t, out, "Parse summary")
	assert.Contains(t, out, "modifiers: 4")
	assert.Contains(t, out, "exact: 1  regex: 2  fuzzy: 1")
	assert.Contains(t, out, "unmatched lines: 1")
}
