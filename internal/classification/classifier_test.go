package classification

import (
	"testing"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/itemtext"
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/policy"
	"github.com/Veraticus/itemquery/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClassifier(t *testing.T) *Classifier {
	t.Helper()
	cat := testutil.Catalog()
	c, err := NewClassifier(cat.Categories, cat.Rarities, policy.Default(), DefaultThreshold)
	require.NoError(t, err)
	return c
}

func TestNewClassifier(t *testing.T) {
	cat := testutil.Catalog()

	_, err := NewClassifier(nil, cat.Rarities, nil, DefaultThreshold)
	require.ErrorIs(t, err, common.ErrInvalidCatalog)

	_, err = NewClassifier(cat.Categories, cat.Rarities, nil, 0)
	require.ErrorIs(t, err, common.ErrInvalidConfig)

	_, err = NewClassifier(cat.Categories, cat.Rarities, nil, 1.5)
	require.ErrorIs(t, err, common.ErrInvalidConfig)

	c, err := NewClassifier(cat.Categories, cat.Rarities, nil, DefaultThreshold)
	require.NoError(t, err)
	assert.NotNil(t, c.policy, "nil policy falls back to defaults")
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     model.ItemHeader
		consumed int
	}{
		{
			name: "rare helmet",
			text: "Item Class: Helmets\nRarity: Rare\nDoom Veil\nSoldier Greathelm\n--------\nArmour: 331",
			want: model.ItemHeader{
				Class:      "Helmets",
				CategoryID: "armour.helmet",
				Rarity:     model.RarityRare,
				Name:       "Doom Veil",
				TypeLine:   "Soldier Greathelm",
			},
			consumed: 4,
		},
		{
			name: "magic ring has only a type line",
			text: "Item Class: Rings\nRarity: Magic\nSapphire Ring of the Fox",
			want: model.ItemHeader{
				Class:      "Rings",
				CategoryID: "accessory.ring",
				Rarity:     model.RarityMagic,
				TypeLine:   "Sapphire Ring of the Fox",
			},
			consumed: 3,
		},
		{
			name: "unique bow",
			text: "Item Class: Bows\nRarity: Unique\nDeath's Harp\nRecurve Bow",
			want: model.ItemHeader{
				Class:      "Bows",
				CategoryID: "weapon.bow",
				Rarity:     model.RarityUnique,
				Name:       "Death's Harp",
				TypeLine:   "Recurve Bow",
			},
			consumed: 4,
		},
		{
			name: "override table wins",
			text: "Item Class: Quarterstaves\nRarity: Normal\nWrapped Quarterstaff",
			want: model.ItemHeader{
				Class:      "Quarterstaves",
				CategoryID: "weapon.warstaff",
				Rarity:     model.RarityNormal,
				TypeLine:   "Wrapped Quarterstaff",
			},
			consumed: 3,
		},
		{
			name: "rare without name line",
			text: "Item Class: Boots\nRarity: Rare\nLeather Boots",
			want: model.ItemHeader{
				Class:      "Boots",
				CategoryID: "armour.boots",
				Rarity:     model.RarityRare,
				TypeLine:   "Leather Boots",
			},
			consumed: 3,
		},
		{
			name: "unknown rarity is lower cased",
			text: "Item Class: Shields\nRarity: Relic\nHeater Shield",
			want: model.ItemHeader{
				Class:      "Shields",
				CategoryID: "armour.shield",
				Rarity:     model.Rarity("relic"),
				TypeLine:   "Heater Shield",
			},
			consumed: 3,
		},
	}

	c := newTestClassifier(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := itemtext.Tokenize(tt.text)
			header, err := c.Classify(doc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *header)

			consumed := 0
			for _, line := range doc.Blocks[0].Lines {
				if line.Consumed {
					consumed++
				}
			}
			assert.Equal(t, tt.consumed, consumed)
		})
	}
}

func TestClassifier_ClassifyErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "empty document", text: "", wantErr: common.ErrMalformedHeader},
		{name: "empty header block", text: "--------\nArmour: 10", wantErr: common.ErrMalformedHeader},
		{name: "missing class", text: "Rarity: Rare\nFoo\nBar", wantErr: common.ErrMalformedHeader},
		{name: "missing rarity", text: "Item Class: Helmets\nFoo", wantErr: common.ErrMalformedHeader},
		{name: "empty class", text: "Item Class:\nRarity: Rare", wantErr: common.ErrMalformedHeader},
		{name: "unresolvable class", text: "Item Class: Stackable Currency\nRarity: Currency\nChaos Orb", wantErr: common.ErrUnknownItemClass},
	}

	c := newTestClassifier(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Classify(itemtext.Tokenize(tt.text))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClassifier_ResolveCategory(t *testing.T) {
	c := newTestClassifier(t)

	id, score, err := c.ResolveCategory("Helmets")
	require.NoError(t, err)
	assert.Equal(t, "armour.helmet", id)
	assert.GreaterOrEqual(t, score, DefaultThreshold)

	id, score, err = c.ResolveCategory("Body Armours")
	require.NoError(t, err)
	assert.Equal(t, "armour.chest", id)
	assert.InDelta(t, 1.0, score, 0.0001)

	_, score, err = c.ResolveCategory("Divination Cards")
	require.ErrorIs(t, err, common.ErrUnknownItemClass)
	assert.Less(t, score, DefaultThreshold)
}
