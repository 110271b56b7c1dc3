// Package itemtext splits clipboard item exports into blocks and lines.
package itemtext

import (
	"slices"
	"strings"

	"github.com/Veraticus/itemquery/internal/model"
)

// Separator is the line that divides sections of an item export.
const Separator = "--------"

// Tokenize splits raw item text into blocks on the separator line and each
// block into trimmed, non-blank lines. It never fails: empty input yields an
// empty document. Empty blocks are kept so block indexes match the export.
func Tokenize(raw string) *model.Document {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.TrimSpace(raw)

	doc := &model.Document{}
	if raw == "" {
		return doc
	}

	var current model.Block
	for _, text := range strings.Split(raw, "\n") {
		text = strings.TrimSpace(text)
		if text == Separator {
			doc.Blocks = append(doc.Blocks, current)
			current = model.Block{}
			continue
		}
		if text == "" {
			continue
		}
		current.Lines = append(current.Lines, model.Line{Text: text})
	}
	doc.Blocks = append(doc.Blocks, current)

	return doc
}

// FindLabel returns the first unconsumed line whose text contains label,
// compared case-insensitively, starting at block from.
func FindLabel(doc *model.Document, label string, from int) (model.LineRef, bool) {
	needle := strings.ToLower(label)
	for b := from; b < len(doc.Blocks); b++ {
		for l, line := range doc.Blocks[b].Lines {
			if line.Consumed {
				continue
			}
			if strings.Contains(strings.ToLower(line.Text), needle) {
				return model.LineRef{Block: b, Line: l}, true
			}
		}
	}
	return model.LineRef{}, false
}

// FindLabels returns every unconsumed line containing label, in document
// order, starting at block from.
func FindLabels(doc *model.Document, label string, from int) []model.LineRef {
	needle := strings.ToLower(label)
	var refs []model.LineRef
	for b := from; b < len(doc.Blocks); b++ {
		for l, line := range doc.Blocks[b].Lines {
			if !line.Consumed && strings.Contains(strings.ToLower(line.Text), needle) {
				refs = append(refs, model.LineRef{Block: b, Line: l})
			}
		}
	}
	return refs
}

// FindExact returns the first unconsumed line equal to text, ignoring case.
func FindExact(doc *model.Document, text string) (model.LineRef, bool) {
	for b, block := range doc.Blocks {
		for l, line := range block.Lines {
			if !line.Consumed && strings.EqualFold(line.Text, text) {
				return model.LineRef{Block: b, Line: l}, true
			}
		}
	}
	return model.LineRef{}, false
}

// ValueAfter returns the text after the first colon of a "Label: value" line.
func ValueAfter(text string) string {
	_, value, found := strings.Cut(text, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}

// StripAnnotations removes trailing parenthesised markers such as
// "(augmented)". When names are given only those markers are removed, and
// stripping stops at the first marker not among them.
func StripAnnotations(text string, names ...string) string {
	for {
		trimmed := strings.TrimSpace(text)
		if !strings.HasSuffix(trimmed, ")") {
			return trimmed
		}
		open := strings.LastIndex(trimmed, "(")
		if open <= 0 {
			return trimmed
		}
		if len(names) > 0 && !slices.Contains(names, trimmed[open+1:len(trimmed)-1]) {
			return trimmed
		}
		text = trimmed[:open]
	}
}
