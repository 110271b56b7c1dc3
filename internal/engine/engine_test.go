package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(testutil.Compiled(t), DefaultConfig())
	require.NoError(t, err)
	return e
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, DefaultConfig())
	require.ErrorIs(t, err, common.ErrInvalidCatalog)

	cfg := DefaultConfig()
	cfg.ClassThreshold = 0
	_, err = New(testutil.Compiled(t), cfg)
	require.ErrorIs(t, err, common.ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.FuzzyThreshold = 2
	_, err = New(testutil.Compiled(t), cfg)
	require.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestParse_Helmet(t *testing.T) {
	e := newTestEngine(t)

	q, result, err := e.Parse(context.Background(), testutil.HelmetText)
	require.NoError(t, err)

	assert.Equal(t, "armour.helmet", result.Header.CategoryID)
	assert.Equal(t, model.RarityRare, result.Header.Rarity)

	lvl := q.Field(model.GroupReq, "lvl")
	require.NotNil(t, lvl)
	assert.InDelta(t, 48.0, *lvl.Min, 0.001)

	ar := q.Field(model.GroupEquipment, "ar")
	require.NotNil(t, ar)
	assert.InDelta(t, 331.0, *ar.Min, 0.001)
	assert.InDelta(t, 331.0, *ar.OriginalValue, 0.001)

	ilvl := q.Field(model.GroupType, "ilvl")
	require.NotNil(t, ilvl)
	assert.InDelta(t, 58.0, *ilvl.Min, 0.001)

	require.Len(t, result.Modifiers, 6)
	for _, mod := range result.Modifiers {
		assert.NotEmpty(t, mod.StatID, mod.RawText)
	}
	assert.Equal(t, []string{"Requirements:"}, result.Unmatched)

	var statIDs []string
	for _, g := range q.Stats {
		for _, f := range g.Filters {
			statIDs = append(statIDs, f.ID)
		}
	}
	assert.Contains(t, statIDs, testutil.StatRuneFireRes)
	assert.Contains(t, statIDs, "explicit.stat_3484657501", "flat armour is searched with its twin")
}

func TestParse_Bow(t *testing.T) {
	e := newTestEngine(t)

	q, result, err := e.Parse(context.Background(), testutil.BowText)
	require.NoError(t, err)

	assert.Equal(t, "weapon.bow", result.Header.CategoryID)
	dps := q.Field(model.GroupEquipment, "dps")
	require.NotNil(t, dps)
	assert.InDelta(t, 60.0, *dps.Min, 0.001)
	assert.True(t, dps.Enabled)

	require.Len(t, result.Modifiers, 2)
	assert.Equal(t, testutil.StatAddsFire, result.Modifiers[0].StatID)
	assert.Equal(t, testutil.StatColdRes, result.Modifiers[1].StatID)
	assert.Empty(t, result.Unmatched)
}

func TestParse_Waystone(t *testing.T) {
	e := newTestEngine(t)

	q, result, err := e.Parse(context.Background(), testutil.WaystoneText)
	require.NoError(t, err)

	assert.Equal(t, "map.waystone", result.Header.CategoryID)
	tier := q.Field(model.GroupMap, "map_tier")
	require.NotNil(t, tier)
	assert.InDelta(t, 15.0, *tier.Min, 0.001)
	assert.True(t, q.Groups[model.GroupMap].Enabled)
	assert.Nil(t, q.Field(model.GroupReq, "lvl"))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "empty", text: "  \n\r\n ", wantErr: common.ErrEmptyInput},
		{name: "no header", text: "--------\n+45 to maximum Life", wantErr: common.ErrMalformedHeader},
		{name: "missing rarity", text: "Item Class: Helmets\nSoldier Greathelm", wantErr: common.ErrMalformedHeader},
		{name: "unknown class", text: "Item Class: Spaceships\nRarity: Rare\nVoid Cruiser", wantErr: common.ErrUnknownItemClass},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, result, err := e.Parse(context.Background(), tt.text)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, q)
			assert.Nil(t, result)

			var userErr *common.UserError
			require.True(t, errors.As(err, &userErr))
			assert.Equal(t, ParseErrorMessage, userErr.UserMessage)
		})
	}
}

func TestParse_Canceled(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := e.Parse(ctx, testutil.HelmetText)
	require.ErrorIs(t, err, context.Canceled)
}

func TestParse_Concurrent(t *testing.T) {
	e := newTestEngine(t)
	inputs := []string{testutil.HelmetText, testutil.BowText, testutil.WaystoneText}
	want := []int{6, 2, 0}

	var wg sync.WaitGroup
	errs := make(chan error, 30)
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, result, err := e.Parse(context.Background(), inputs[i%3])
			if err != nil {
				errs <- err
				return
			}
			if len(result.Modifiers) != want[i%3] {
				errs <- errors.New("unexpected modifier count")
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestEngine_Suggest(t *testing.T) {
	e := newTestEngine(t)

	_, result, err := e.Parse(context.Background(), testutil.HelmetText+"\n--------\n+45 to maximum Lief of the Whale")
	require.NoError(t, err)

	assert.Contains(t, result.Unmatched, "+45 to maximum Lief of the Whale")
	suggestions := e.Suggest(result)
	require.NotEmpty(t, suggestions)
	assert.Nil(t, e.Suggest(nil))
}

func TestEngine_Reconcile(t *testing.T) {
	e := newTestEngine(t)
	q, _, err := e.Parse(context.Background(), testutil.BowText)
	require.NoError(t, err)

	bound := 5.0
	q.Stats[0].Filters[0].Value = model.Range{Min: &bound}

	item := &model.ResultItem{
		ExplicitMods: []string{"Adds 6 to 9 Fire Damage"},
		Extended: model.ResultExtended{Hashes: map[string][]model.HashRef{
			"explicit": {{StatID: testutil.StatAddsFire, Indices: []int{0}}},
		}},
	}

	got := e.Reconcile(item, q)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Delta)
	assert.Equal(t, 50, got[0].Delta.Percent)
}
