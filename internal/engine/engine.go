// Package engine runs the parse pipeline: tokenize, classify the header,
// extract properties, match modifiers and assemble the query.
package engine

import (
	"context"
	"fmt"

	"github.com/Veraticus/itemquery/internal/catalog"
	"github.com/Veraticus/itemquery/internal/classification"
	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/itemtext"
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/pattern"
	"github.com/Veraticus/itemquery/internal/policy"
	"github.com/Veraticus/itemquery/internal/property"
	"github.com/Veraticus/itemquery/internal/query"
	"github.com/Veraticus/itemquery/internal/reconcile"
)

// ParseErrorMessage is the user-facing message of every fatal parse error.
const ParseErrorMessage = "could not parse item"

// Config holds the tunables of an Engine.
type Config struct {
	Policy         *policy.Policy
	ClassThreshold float64
	FuzzyThreshold float64
	CacheSize      int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Policy:         policy.Default(),
		ClassThreshold: classification.DefaultThreshold,
		FuzzyThreshold: pattern.DefaultFuzzyThreshold,
		CacheSize:      pattern.DefaultCacheSize,
	}
}

// Result carries the intermediate products of a parse alongside the query.
type Result struct {
	Header     *model.ItemHeader
	Properties model.Properties
	Document   *model.Document
	Modifiers  []model.MatchedModifier
	Unmatched  []string
}

// Engine parses item text against one compiled catalog. Everything it holds
// is immutable or internally synchronized, so Parse may be called from many
// goroutines.
type Engine struct {
	compiled   *catalog.Compiled
	classifier HeaderClassifier
	extractor  PropertyExtractor
	matcher    ModifierMatcher
	assembler  QueryAssembler
}

// New wires the default pipeline stages over compiled.
func New(compiled *catalog.Compiled, cfg Config) (*Engine, error) {
	if compiled == nil {
		return nil, fmt.Errorf("%w: engine requires a compiled catalog", common.ErrInvalidCatalog)
	}
	if cfg.Policy == nil {
		cfg.Policy = policy.Default()
	}

	classifier, err := classification.NewClassifier(compiled.Categories(), compiled.Rarities(), cfg.Policy, cfg.ClassThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	matcher, err := pattern.NewMatcher(compiled, pattern.Options{
		Skip:           property.IsDamageHeader,
		FuzzyThreshold: cfg.FuzzyThreshold,
		CacheSize:      cfg.CacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create matcher: %w", err)
	}

	return NewWithStages(compiled, classifier, property.Default(), matcher, query.NewAssembler(cfg.Policy)), nil
}

// NewWithStages builds an Engine from explicit stages.
func NewWithStages(compiled *catalog.Compiled, classifier HeaderClassifier, extractor PropertyExtractor, matcher ModifierMatcher, assembler QueryAssembler) *Engine {
	return &Engine{
		compiled:   compiled,
		classifier: classifier,
		extractor:  extractor,
		matcher:    matcher,
		assembler:  assembler,
	}
}

// Catalog returns the compiled catalog the engine parses against.
func (e *Engine) Catalog() *catalog.Compiled {
	return e.compiled
}

// Parse turns raw item text into a query. Header failures abort the parse
// with a UserError; property and modifier misses only shrink the query.
func (e *Engine) Parse(ctx context.Context, raw string) (*model.Query, *Result, error) {
	doc := itemtext.Tokenize(raw)
	if doc.LineCount() == 0 {
		return nil, nil, common.NewUserError(ParseErrorMessage, common.ErrEmptyInput)
	}

	header, err := e.classifier.Classify(doc)
	if err != nil {
		return nil, nil, common.NewUserError(ParseErrorMessage, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	props := e.extractor.Extract(doc, header)
	mods := e.matcher.MatchDocument(doc)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	q := e.assembler.Assemble(header, props, mods)

	result := &Result{
		Header:     header,
		Properties: props,
		Document:   doc,
		Modifiers:  mods,
		Unmatched:  unmatched(doc),
	}

	common.LogDebug("parsed item", common.Fields{
		"class":      header.Class,
		"category":   header.CategoryID,
		"properties": len(props),
		"modifiers":  len(mods),
		"unmatched":  len(result.Unmatched),
	})

	return q, result, nil
}

// Suggest lists the closest catalog stats for the lines a parse left unmatched.
func (e *Engine) Suggest(result *Result) []pattern.Suggestion {
	if result == nil || result.Document == nil {
		return nil
	}
	return e.matcher.Suggest(result.Document)
}

// Reconcile maps a fetched listing's modifiers onto catalog templates and
// compares them with the enabled stat filters of q.
func (e *Engine) Reconcile(item *model.ResultItem, q *model.Query) []reconcile.Reconciled {
	return reconcile.Reconcile(item, e.compiled.TemplateIndex(), q)
}

func unmatched(doc *model.Document) []string {
	var out []string
	for _, ref := range doc.Unconsumed() {
		if ref.Block == 0 {
			continue
		}
		out = append(out, doc.Line(ref).Text)
	}
	return out
}
