package model

// Rarity is the lower-cased rarity of an item.
type Rarity string

// Known rarities.
const (
	RarityNormal   Rarity = "normal"
	RarityMagic    Rarity = "magic"
	RarityRare     Rarity = "rare"
	RarityUnique   Rarity = "unique"
	RarityCurrency Rarity = "currency"
	RarityGem      Rarity = "gem"
)

// ItemHeader is the classified first block of an item.
type ItemHeader struct {
	Class      string
	CategoryID string
	Rarity     Rarity
	Name       string
	TypeLine   string
}

// PropertyValue holds an extracted property. A nil Min/Max/Flag means the
// component is absent, which is distinct from zero.
type PropertyValue struct {
	Min  *float64
	Max  *float64
	Flag *bool
}

// Scalar builds a single-number property value.
func Scalar(v float64) PropertyValue {
	return PropertyValue{Min: &v}
}

// Span builds a min-max property value.
func Span(lo, hi float64) PropertyValue {
	return PropertyValue{Min: &lo, Max: &hi}
}

// FlagValue builds a boolean property value.
func FlagValue(b bool) PropertyValue {
	return PropertyValue{Flag: &b}
}

// Properties maps a property name to its extracted value. Missing keys mean the
// item does not have the property.
type Properties map[string]PropertyValue

// Number returns the minimum (or only) numeric component of a property.
func (p Properties) Number(name string) (float64, bool) {
	v, ok := p[name]
	if !ok || v.Min == nil {
		return 0, false
	}
	return *v.Min, true
}
