package catalog_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/itemquery/internal/catalog"
	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statsJSON = `{"result":[
 {"id":"explicit","label":"Explicit","entries":[
  {"id":"explicit.stat_3299347043","text":"+# to maximum Life","type":"explicit"},
  {"id":"explicit.stat_2954116742","text":"Allocates #","type":"explicit","option":{"options":[{"id":1001,"text":"Heavy Buffer"},{"id":"x2","text":"Iron Reflexes"}]}}
 ]}
]}`

const filtersJSON = `{"result":[
 {"id":"type_filters","title":"Type Filters","filters":[
  {"id":"category","text":"Item Category","option":{"options":[{"id":null,"text":"Any"},{"id":"armour.helmet","text":"Helmet"}]}},
  {"id":"rarity","text":"Item Rarity","option":{"options":[{"id":null,"text":"Any"},{"id":"rare","text":"Rare"}]}},
  {"id":"ilvl","text":"Item Level","minMax":true}
 ]},
 {"id":"misc_filters","filters":[{"id":"corrupted","option":{"options":[{"id":"true","text":"Yes"}]}}]}
]}`

const catalogYAML = `groups:
  - id: explicit
    label: Explicit
    entries:
      - id: explicit.stat_3299347043
        text: "+# to maximum Life"
        type: explicit
      - id: explicit.stat_2954116742
        text: "Allocates #"
        type: explicit
        option:
          options:
            - id: 1001
              text: Heavy Buffer
categories:
  - id: armour.helmet
    text: Helmet
rarities:
  - id: rare
    text: Rare
`

func TestDecodeStats(t *testing.T) {
	cat, err := catalog.DecodeStats(strings.NewReader(statsJSON))
	require.NoError(t, err)
	require.Len(t, cat.Groups, 1)
	require.Len(t, cat.Groups[0].Entries, 2)

	opts := cat.Groups[0].Entries[1].Option.Options
	assert.Equal(t, model.OptionID("1001"), opts[0].ID)
	assert.Equal(t, model.OptionID("x2"), opts[1].ID)

	_, err = catalog.DecodeStats(strings.NewReader(`{"result":[]}`))
	require.ErrorIs(t, err, common.ErrInvalidCatalog)

	_, err = catalog.DecodeStats(strings.NewReader(`not json`))
	require.ErrorIs(t, err, common.ErrInvalidCatalog)
}

func TestDecodeFilters(t *testing.T) {
	categories, rarities, err := catalog.DecodeFilters(strings.NewReader(filtersJSON))
	require.NoError(t, err)
	assert.Equal(t, []model.FilterOption{{ID: "armour.helmet", Text: "Helmet"}}, categories)
	assert.Equal(t, []model.FilterOption{{ID: "rare", Text: "Rare"}}, rarities)

	_, _, err = catalog.DecodeFilters(strings.NewReader(`{"result":[]}`))
	require.ErrorIs(t, err, common.ErrInvalidCatalog)
}

func TestDecodeYAML(t *testing.T) {
	cat, err := catalog.DecodeYAML(strings.NewReader(catalogYAML))
	require.NoError(t, err)
	require.Len(t, cat.Groups, 1)
	assert.Equal(t, model.OptionID("1001"), cat.Groups[0].Entries[1].Option.Options[0].ID)
	assert.Equal(t, "armour.helmet", cat.Categories[0].ID)
	assert.Equal(t, "rare", cat.Rarities[0].ID)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	statsPath := filepath.Join(dir, "stats.json")
	filtersPath := filepath.Join(dir, "filters.json")
	yamlPath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(statsPath, []byte(statsJSON), 0o600))
	require.NoError(t, os.WriteFile(filtersPath, []byte(filtersJSON), 0o600))
	require.NoError(t, os.WriteFile(yamlPath, []byte(catalogYAML), 0o600))

	cat, err := catalog.LoadFiles(statsPath, filtersPath)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.EntryCount())
	assert.Len(t, cat.Categories, 1)

	cat, err = catalog.LoadFiles(yamlPath, "")
	require.NoError(t, err)
	assert.Len(t, cat.Categories, 1)

	_, err = catalog.LoadFiles(filepath.Join(dir, "missing.json"), "")
	require.Error(t, err)
}
