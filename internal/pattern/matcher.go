package pattern

import (
	"fmt"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru"

	"github.com/Veraticus/itemquery/internal/catalog"
	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/itemtext"
	"github.com/Veraticus/itemquery/internal/model"
)

// DefaultFuzzyThreshold is the minimum similarity a fuzzy match must reach.
const DefaultFuzzyThreshold = 0.7

// DefaultCacheSize is the number of resolved windows kept per Matcher.
const DefaultCacheSize = 4096

var suffixPattern = regexp.MustCompile(`\s\((implicit|enchant|rune|augment|crafted)\)$`)

// displayAnnotations mark how a value is shown, not which stat it is.
var displayAnnotations = []string{"augmented", "unmet"}

// CleanLine drops trailing display annotations such as "(augmented)" while
// keeping category markers.
func CleanLine(text string) string {
	return itemtext.StripAnnotations(text, displayAnnotations...)
}

// DetectSuffix returns the modifier category a line's trailing annotation
// names. Display annotations after the category marker are ignored. Lines
// without one are explicit.
func DetectSuffix(text string) model.ModCategory {
	m := suffixPattern.FindStringSubmatch(CleanLine(text))
	if m == nil {
		return model.ModExplicit
	}
	category, ok := model.ParseModCategory(m[1])
	if !ok {
		return model.ModExplicit
	}
	return category
}

// Options tunes a Matcher.
type Options struct {
	// Skip reports lines that are never modifiers, such as weapon damage lines.
	Skip func(text string) bool
	// FuzzyThreshold is the minimum similarity for the fuzzy pass.
	FuzzyThreshold float64
	// CacheSize bounds the resolution cache. Zero disables caching.
	CacheSize int
}

// DefaultOptions returns the default matcher options.
func DefaultOptions() Options {
	return Options{
		FuzzyThreshold: DefaultFuzzyThreshold,
		CacheSize:      DefaultCacheSize,
	}
}

// Matcher resolves modifier lines against a compiled catalog. It is safe for
// concurrent use; each call works on its own Document.
type Matcher struct {
	catalog   Catalog
	cache     *lru.Cache
	skip      func(string) bool
	threshold float64
}

type cached struct {
	res Resolution
	ok  bool
}

// NewMatcher creates a Matcher over cat.
func NewMatcher(cat Catalog, opts Options) (*Matcher, error) {
	if cat == nil {
		return nil, fmt.Errorf("%w: matcher requires a catalog", common.ErrInvalidCatalog)
	}
	if opts.FuzzyThreshold <= 0 || opts.FuzzyThreshold > 1 {
		return nil, fmt.Errorf("%w: fuzzy threshold %.2f outside (0, 1]", common.ErrInvalidConfig, opts.FuzzyThreshold)
	}
	if opts.CacheSize < 0 {
		return nil, fmt.Errorf("%w: negative cache size %d", common.ErrInvalidConfig, opts.CacheSize)
	}

	m := &Matcher{
		catalog:   cat,
		skip:      opts.Skip,
		threshold: opts.FuzzyThreshold,
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New(opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create match cache: %w", err)
		}
		m.cache = cache
	}
	return m, nil
}

// MatchDocument attributes unconsumed lines after the header block to
// catalog stats and consumes them. Within a block, the longest window of
// consecutive lines that resolves wins; windows never cross blocks or mix
// categories. Lines that resolve to nothing stay unconsumed.
func (m *Matcher) MatchDocument(doc *model.Document) []model.MatchedModifier {
	var mods []model.MatchedModifier

	for b := 1; b < len(doc.Blocks); b++ {
		lines := doc.Blocks[b].Lines
		for i := 0; i < len(lines); {
			size := m.eligibleRun(lines, i)
			if size == 0 {
				i++
				continue
			}

			matched := false
			for n := min(size, m.catalog.MaxLines()); n >= 1; n-- {
				texts := make([]string, n)
				raws := make([]string, n)
				for k := range texts {
					raws[k] = lines[i+k].Text
					texts[k] = CleanLine(raws[k])
				}
				category := DetectSuffix(texts[0])
				res, ok := m.Resolve(category, texts)
				if !ok {
					continue
				}

				refs := make([]model.LineRef, n)
				for k := range refs {
					refs[k] = model.LineRef{Block: b, Line: i + k}
					doc.Consume(refs[k])
				}
				mods = append(mods, newModifier(res, category, texts, raws, refs))
				i += n
				matched = true
				break
			}
			if !matched {
				i++
			}
		}
	}

	return mods
}

// eligibleRun counts consecutive lines from start that are unconsumed, not
// skipped and share the category of the first line.
func (m *Matcher) eligibleRun(lines []model.Line, start int) int {
	var category model.ModCategory
	n := 0
	for i := start; i < len(lines); i++ {
		line := lines[i]
		if line.Consumed || (m.skip != nil && m.skip(line.Text)) {
			break
		}
		c := DetectSuffix(line.Text)
		if n == 0 {
			category = c
		} else if c != category {
			break
		}
		n++
	}
	return n
}

// Resolve finds the catalog stat for a window of lines already known to
// belong to category: exact key first, then the anchored regexes, then, for a
// single line, the fuzzy index.
func (m *Matcher) Resolve(category model.ModCategory, lines []string) (Resolution, bool) {
	text := strings.Join(lines, "\n")
	key := string(category) + "\x00" + text

	if m.cache != nil {
		if v, ok := m.cache.Get(key); ok {
			c := v.(cached)
			return c.res, c.ok
		}
	}

	res, ok := m.resolve(category, len(lines), text)
	if m.cache != nil {
		m.cache.Add(key, cached{res: res, ok: ok})
	}
	return res, ok
}

func (m *Matcher) resolve(category model.ModCategory, lineCount int, text string) (Resolution, bool) {
	if p, ok := m.catalog.LookupExact(category, catalog.Normalize(text)); ok && p.LineCount == lineCount {
		return Resolution{Pattern: p, Strategy: model.StrategyExact, Score: 1}, true
	}
	if p, ok := m.catalog.MatchRegex(category, lineCount, text); ok {
		return Resolution{Pattern: p, Strategy: model.StrategyRegex, Score: 1}, true
	}
	if lineCount == 1 {
		if p, score, ok := m.catalog.MatchFuzzy(category, text, m.threshold); ok {
			return Resolution{Pattern: p, Strategy: model.StrategyFuzzy, Score: score}, true
		}
	}
	return Resolution{}, false
}

// newModifier builds the matched modifier and its values. The first line
// carrying numbers supplies them: one number is a scalar roll; two or more
// form a lo/hi roll. Either way the search starts at the rolled minimum.
func newModifier(res Resolution, category model.ModCategory, texts, raws []string, refs []model.LineRef) model.MatchedModifier {
	mod := model.MatchedModifier{
		StatID:   res.Pattern.ID,
		Category: category,
		RawText:  strings.Join(raws, "\n"),
		Option:   res.Pattern.Option,
		Strategy: res.Strategy,
		Lines:    refs,
	}

	nums := firstNumbers(texts)
	switch {
	case len(nums) == 1:
		v, search := nums[0], nums[0]
		mod.Original = model.Range{Min: &v}
		mod.Search = model.Range{Min: &search}
	case len(nums) >= 2:
		lo, hi := nums[0], nums[1]
		search := lo
		mod.Original = model.Range{Min: &lo, Max: &hi}
		mod.Search = model.Range{Min: &search}
	}

	return mod
}

func firstNumbers(texts []string) []float64 {
	for _, text := range texts {
		if nums := common.ExtractNumbers(text); len(nums) > 0 {
			return nums
		}
	}
	return nil
}
