// Package catalog loads the stat catalog and compiles it into the immutable
// lookup structures the modifier matcher runs against.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/similarity"
)

// Pattern is one compiled (entry, option) pair.
type Pattern struct {
	Regex         *regexp.Regexp
	ID            string
	Category      model.ModCategory
	Template      string
	Option        model.OptionID
	OptionText    string
	NormalizedKey string
	FuzzyDocText  string
	Index         int
	LineCount     int
}

// Warning describes a catalog entry that could not be compiled.
type Warning struct {
	Err    error
	StatID string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.StatID, w.Err)
}

// Options tunes compilation.
type Options struct {
	// Concurrency bounds the number of stat groups compiled in parallel.
	Concurrency int
}

// DefaultOptions returns the default compile options.
func DefaultOptions() Options {
	return Options{Concurrency: 4}
}

// Compile builds the pattern set for every matchable entry of cat. Entries
// whose templates cannot be compiled are skipped and reported as warnings.
// Catalog order is preserved in pattern indexes, which decides ties.
func Compile(ctx context.Context, cat *model.Catalog, opts Options) (*Compiled, []Warning, error) {
	if cat == nil || len(cat.Groups) == 0 {
		return nil, nil, fmt.Errorf("%w: no stat groups", common.ErrInvalidCatalog)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultOptions().Concurrency
	}

	type groupResult struct {
		patterns []Pattern
		warnings []Warning
	}
	results := make([]groupResult, len(cat.Groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i := range cat.Groups {
		group := cat.Groups[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			patterns, warnings := compileGroup(group)
			results[i] = groupResult{patterns: patterns, warnings: warnings}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to compile catalog: %w", err)
	}

	var (
		patterns []Pattern
		warnings []Warning
	)
	for _, r := range results {
		for _, p := range r.patterns {
			p.Index = len(patterns)
			patterns = append(patterns, p)
		}
		warnings = append(warnings, r.warnings...)
	}

	for _, w := range warnings {
		slog.Warn("Skipping stat template", "stat_id", w.StatID, "error", w.Err)
	}

	compiled := newCompiled(cat, patterns)
	slog.Debug("Compiled stat catalog",
		"entries", cat.EntryCount(),
		"patterns", len(patterns),
		"warnings", len(warnings),
		"max_lines", compiled.maxLines)

	return compiled, warnings, nil
}

func compileGroup(group model.StatGroup) ([]Pattern, []Warning) {
	var (
		patterns []Pattern
		warnings []Warning
	)

	for _, entry := range group.Entries {
		category, ok := model.ParseModCategory(entry.Type)
		if !ok {
			category, ok = model.ParseModCategory(group.ID)
		}
		if !ok || category == model.ModPseudo {
			continue
		}

		compiled, err := compileEntry(entry, category)
		if err != nil {
			warnings = append(warnings, Warning{StatID: entry.ID, Err: err})
			continue
		}
		patterns = append(patterns, compiled...)
	}

	return patterns, warnings
}

func compileEntry(entry model.StatEntry, category model.ModCategory) ([]Pattern, error) {
	if strings.TrimSpace(entry.Text) == "" {
		return nil, fmt.Errorf("%w: empty template", common.ErrInvalidTemplate)
	}

	options := []model.StatOption{{}}
	if entry.Option != nil && len(entry.Option.Options) > 0 {
		options = entry.Option.Options
	}

	out := make([]Pattern, 0, len(options))
	for _, opt := range options {
		source, err := BuildRegex(entry.Text, opt.Text, category)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(source)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidTemplate, err)
		}

		out = append(out, Pattern{
			ID:            entry.ID,
			Category:      category,
			Template:      StripMarkup(entry.Text),
			Option:        opt.ID,
			OptionText:    opt.Text,
			NormalizedKey: NormalizedKey(entry.Text, opt.Text, category),
			Regex:         re,
			FuzzyDocText:  DocText(entry.Text, opt.Text, category),
			LineCount:     entry.LineCount(),
		})
	}
	return out, nil
}

// Compiled is the immutable, shareable result of Compile.
type Compiled struct {
	exact      map[model.ModCategory]map[string]int
	fuzzy      map[model.ModCategory]*fuzzyIndex
	byCategory map[model.ModCategory][]int
	templates  map[string]string
	categories []model.FilterOption
	rarities   []model.FilterOption
	patterns   []Pattern
	maxLines   int
}

// fuzzyIndex maps similarity index ids back to pattern indexes.
type fuzzyIndex struct {
	index    similarity.Index
	patterns []int
}

func newCompiled(cat *model.Catalog, patterns []Pattern) *Compiled {
	c := &Compiled{
		patterns:   patterns,
		exact:      make(map[model.ModCategory]map[string]int),
		fuzzy:      make(map[model.ModCategory]*fuzzyIndex),
		byCategory: make(map[model.ModCategory][]int),
		templates:  make(map[string]string),
		categories: cat.Categories,
		rarities:   cat.Rarities,
		maxLines:   1,
	}

	docs := make(map[model.ModCategory][]string)
	docPatterns := make(map[model.ModCategory][]int)

	for i, p := range patterns {
		c.byCategory[p.Category] = append(c.byCategory[p.Category], i)

		keys, ok := c.exact[p.Category]
		if !ok {
			keys = make(map[string]int)
			c.exact[p.Category] = keys
		}
		if _, taken := keys[p.NormalizedKey]; !taken {
			keys[p.NormalizedKey] = i
		}

		if _, seen := c.templates[p.ID]; !seen {
			c.templates[p.ID] = p.Template
		}

		if p.LineCount > c.maxLines {
			c.maxLines = p.LineCount
		}

		if p.LineCount == 1 {
			docs[p.Category] = append(docs[p.Category], Normalize(p.FuzzyDocText))
			docPatterns[p.Category] = append(docPatterns[p.Category], i)
		}
	}

	for category, texts := range docs {
		c.fuzzy[category] = &fuzzyIndex{
			index:    similarity.NewDiceIndex(texts),
			patterns: docPatterns[category],
		}
	}

	// Pseudo stats are never matched but still render during reconciliation.
	for _, group := range cat.Groups {
		for _, entry := range group.Entries {
			if _, seen := c.templates[entry.ID]; !seen {
				c.templates[entry.ID] = StripMarkup(entry.Text)
			}
		}
	}

	return c
}

// Len returns the number of compiled patterns.
func (c *Compiled) Len() int {
	return len(c.patterns)
}

// Pattern returns the pattern at index i.
func (c *Compiled) Pattern(i int) *Pattern {
	return &c.patterns[i]
}

// MaxLines returns the line count of the longest template.
func (c *Compiled) MaxLines() int {
	return c.maxLines
}

// Categories returns the item category dictionary.
func (c *Compiled) Categories() []model.FilterOption {
	return c.categories
}

// Rarities returns the rarity dictionary.
func (c *Compiled) Rarities() []model.FilterOption {
	return c.rarities
}

// Template returns the display template for a stat id.
func (c *Compiled) Template(statID string) (string, bool) {
	t, ok := c.templates[statID]
	return t, ok
}

// TemplateIndex returns a copy of the stat id to template map.
func (c *Compiled) TemplateIndex() map[string]string {
	out := make(map[string]string, len(c.templates))
	for k, v := range c.templates {
		out[k] = v
	}
	return out
}

// LookupExact returns the first registered pattern of category whose
// normalized key equals key.
func (c *Compiled) LookupExact(category model.ModCategory, key string) (*Pattern, bool) {
	i, ok := c.exact[category][key]
	if !ok {
		return nil, false
	}
	return &c.patterns[i], true
}

// MatchRegex returns the first pattern of category, in catalog order, with the
// given line count whose regex accepts text.
func (c *Compiled) MatchRegex(category model.ModCategory, lineCount int, text string) (*Pattern, bool) {
	for _, i := range c.byCategory[category] {
		p := &c.patterns[i]
		if p.LineCount != lineCount {
			continue
		}
		if p.Regex.MatchString(text) {
			return p, true
		}
	}
	return nil, false
}

// MatchFuzzy returns the most similar single-line pattern of category if its
// score reaches threshold. The query is normalized like the indexed documents.
func (c *Compiled) MatchFuzzy(category model.ModCategory, text string, threshold float64) (*Pattern, float64, bool) {
	fi, ok := c.fuzzy[category]
	if !ok {
		return nil, 0, false
	}
	hit, ok := similarity.Best(fi.index, Normalize(text), threshold)
	if !ok {
		return nil, 0, false
	}
	return &c.patterns[fi.patterns[hit.ID]], hit.Score, true
}
