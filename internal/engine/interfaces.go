package engine

import (
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/pattern"
)

// HeaderClassifier resolves the header block of a document.
type HeaderClassifier interface {
	Classify(doc *model.Document) (*model.ItemHeader, error)
}

// PropertyExtractor pulls labelled properties out of a document.
type PropertyExtractor interface {
	Extract(doc *model.Document, header *model.ItemHeader) model.Properties
}

// ModifierMatcher attributes the remaining lines to catalog stats.
type ModifierMatcher interface {
	MatchDocument(doc *model.Document) []model.MatchedModifier
	Suggest(doc *model.Document) []pattern.Suggestion
}

// QueryAssembler turns parse results into a query.
type QueryAssembler interface {
	Assemble(header *model.ItemHeader, props model.Properties, mods []model.MatchedModifier) *model.Query
}
