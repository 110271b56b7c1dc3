// Package classification reads the header block of an item export and
// resolves its free-text item class to a trade category id.
package classification

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/itemtext"
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/policy"
	"github.com/Veraticus/itemquery/internal/similarity"
)

// DefaultThreshold is the minimum similarity for an item class to resolve.
const DefaultThreshold = 0.7

const (
	classLabel  = "Item Class:"
	rarityLabel = "Rarity:"
)

// Classifier resolves item headers. It holds only immutable state and is safe
// for concurrent use.
type Classifier struct {
	policy     *policy.Policy
	categories []model.FilterOption
	rarities   []model.FilterOption
	threshold  float64
}

// NewClassifier creates a classifier over the category and rarity dictionaries.
func NewClassifier(categories, rarities []model.FilterOption, pol *policy.Policy, threshold float64) (*Classifier, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: empty category dictionary", common.ErrInvalidCatalog)
	}
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: class threshold %.2f outside (0, 1]", common.ErrInvalidConfig, threshold)
	}
	if pol == nil {
		pol = policy.Default()
	}
	return &Classifier{
		policy:     pol,
		categories: categories,
		rarities:   rarities,
		threshold:  threshold,
	}, nil
}

// Classify reads block 0 of doc, consuming the lines it uses. A missing class
// or rarity line, or a class that does not resolve, fails the whole parse.
func (c *Classifier) Classify(doc *model.Document) (*model.ItemHeader, error) {
	if len(doc.Blocks) == 0 || len(doc.Blocks[0].Lines) == 0 {
		return nil, fmt.Errorf("%w: no header block", common.ErrMalformedHeader)
	}

	classRef, ok := findInHeader(doc, classLabel)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q line", common.ErrMalformedHeader, classLabel)
	}
	rarityRef, ok := findInHeader(doc, rarityLabel)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q line", common.ErrMalformedHeader, rarityLabel)
	}

	header := &model.ItemHeader{
		Class:  itemtext.ValueAfter(doc.Line(classRef).Text),
		Rarity: c.resolveRarity(itemtext.ValueAfter(doc.Line(rarityRef).Text)),
	}
	doc.Consume(classRef)
	doc.Consume(rarityRef)

	categoryID, score, err := c.ResolveCategory(header.Class)
	if err != nil {
		return nil, err
	}
	header.CategoryID = categoryID

	c.readNames(doc, rarityRef.Line, header)

	slog.Debug("Classified item header",
		"class", header.Class,
		"category", header.CategoryID,
		"score", score,
		"rarity", header.Rarity)

	return header, nil
}

// ResolveCategory maps an item class string to a category id, first through
// the override table and then by the best similarity score at or above the
// threshold. Ties go to the earlier dictionary entry.
func (c *Classifier) ResolveCategory(class string) (string, float64, error) {
	class = strings.TrimSpace(class)
	if class == "" {
		return "", 0, fmt.Errorf("%w: empty item class", common.ErrMalformedHeader)
	}

	if id, ok := c.policy.ClassOverride(class); ok {
		return id, 1, nil
	}

	bestID, bestScore := "", 0.0
	for _, cat := range c.categories {
		score := similarity.Score(class, cat.Text)
		if score > bestScore {
			bestID, bestScore = cat.ID, score
		}
	}

	if bestScore < c.threshold {
		return "", bestScore, fmt.Errorf("%w: %q (best score %.2f)", common.ErrUnknownItemClass, class, bestScore)
	}
	return bestID, bestScore, nil
}

func (c *Classifier) resolveRarity(text string) model.Rarity {
	text = strings.TrimSpace(text)
	for _, r := range c.rarities {
		if strings.EqualFold(r.Text, text) {
			return model.Rarity(r.ID)
		}
	}
	return model.Rarity(strings.ToLower(text))
}

// readNames consumes the name and type lines that follow the rarity line.
// Rare and unique items carry a name line before the base type.
func (c *Classifier) readNames(doc *model.Document, after int, header *model.ItemHeader) {
	var refs []model.LineRef
	for l := after + 1; l < len(doc.Blocks[0].Lines) && len(refs) < 2; l++ {
		if doc.Blocks[0].Lines[l].Consumed {
			continue
		}
		refs = append(refs, model.LineRef{Block: 0, Line: l})
	}
	if len(refs) == 0 {
		return
	}

	named := header.Rarity == model.RarityRare || header.Rarity == model.RarityUnique
	switch {
	case named && len(refs) == 2:
		header.Name = doc.Line(refs[0]).Text
		header.TypeLine = doc.Line(refs[1]).Text
	default:
		refs = refs[:1]
		header.TypeLine = doc.Line(refs[0]).Text
	}

	for _, ref := range refs {
		doc.Consume(ref)
	}
}

func findInHeader(doc *model.Document, label string) (model.LineRef, bool) {
	for l, line := range doc.Blocks[0].Lines {
		if !line.Consumed && strings.HasPrefix(line.Text, label) {
			return model.LineRef{Block: 0, Line: l}, true
		}
	}
	return model.LineRef{}, false
}
