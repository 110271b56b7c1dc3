package property

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/itemquery/internal/common"
	"github.com/Veraticus/itemquery/internal/itemtext"
	"github.com/Veraticus/itemquery/internal/model"
)

// Property names.
const (
	ItemLevel    = "itemLevel"
	AreaLevel    = "areaLevel"
	Quality      = "quality"
	Armour       = "armour"
	Evasion      = "evasion"
	EnergyShield = "energyShield"
	Block        = "block"
	Spirit       = "spirit"
	PhysDamage   = "physDamage"
	EleDamage    = "eleDamage"
	ChaosDamage  = "chaosDamage"
	AttackSpeed  = "attackSpeed"
	CritChance   = "critChance"
	DPS          = "dps"
	PDPS         = "pdps"
	EDPS         = "edps"
	Sockets      = "sockets"
	ReqLevel     = "reqLevel"
	ReqStr       = "reqStr"
	ReqDex       = "reqDex"
	ReqInt       = "reqInt"
	MapTier      = "mapTier"
	PackSize     = "packSize"
	ItemRarity   = "itemRarity"
	ItemQuantity = "itemQuantity"
	Corrupted    = "corrupted"
	Unidentified = "unidentified"
)

// Category id prefixes used as extractor gates.
var (
	armourCategories = []string{"armour."}
	shieldCategories = []string{"armour.shield", "armour.buckler"}
	weaponCategories = []string{"weapon."}
	mapCategories    = []string{"map."}
	spiritCategories = []string{"armour.", "weapon.sceptre"}
	gearCategories   = []string{"armour.", "weapon."}
)

var (
	rangePattern        = regexp.MustCompile(`(\d+)-(\d+)`)
	damageHeaderPattern = regexp.MustCompile(`^(?:Physical|Elemental|Fire|Cold|Lightning|Chaos) Damage: \d+-\d+`)
	requiresPattern     = regexp.MustCompile(`(?i)^Requires:`)
)

var elementalLabels = []string{"Elemental Damage:", "Fire Damage:", "Cold Damage:", "Lightning Damage:"}

// IsDamageHeader reports whether a line is a weapon damage property line
// rather than a modifier.
func IsDamageHeader(text string) bool {
	return damageHeaderPattern.MatchString(text)
}

// Default returns the built-in extractor set. Declaration order roughly
// follows the export layout; the registry reorders by declared reads.
func Default() *Registry {
	r, err := NewRegistry(DefaultExtractors())
	if err != nil {
		panic("default extractors are inconsistent: " + err.Error())
	}
	return r
}

// DefaultExtractors returns the built-in extractors in declaration order.
func DefaultExtractors() []Extractor {
	return []Extractor{
		{Name: Quality, Run: labelled("Quality:")},
		{Name: Armour, Run: labelled("Armour:"), Categories: armourCategories},
		{Name: Evasion, Run: labelled("Evasion Rating:"), Categories: armourCategories},
		{Name: EnergyShield, Run: labelled("Energy Shield:"), Categories: armourCategories},
		{Name: Block, Run: labelled("Block chance:"), Categories: shieldCategories},
		{Name: Spirit, Run: labelled("Spirit:"), Categories: spiritCategories},
		{Name: PhysDamage, Run: damageRange("Physical Damage:"), Categories: weaponCategories},
		{Name: EleDamage, Run: damageRange(elementalLabels...), Categories: weaponCategories},
		{Name: ChaosDamage, Run: damageRange("Chaos Damage:"), Categories: weaponCategories},
		{Name: CritChance, Run: labelled("Critical Hit Chance:"), Categories: weaponCategories},
		{Name: AttackSpeed, Run: labelled("Attacks per Second:"), Categories: weaponCategories},
		{Name: PDPS, Reads: []string{PhysDamage, AttackSpeed}, Run: dps(PhysDamage), Categories: weaponCategories},
		{Name: EDPS, Reads: []string{EleDamage, AttackSpeed}, Run: dps(EleDamage), Categories: weaponCategories},
		{Name: DPS, Reads: []string{PhysDamage, EleDamage, ChaosDamage, AttackSpeed}, Run: dps(PhysDamage, EleDamage, ChaosDamage), Categories: weaponCategories},
		{Name: ReqLevel, Reads: []string{ItemLevel, AreaLevel}, Run: requirement("Level:", `Level (\d+)`)},
		{Name: ReqStr, Reads: []string{ReqLevel}, Run: requirement("Str:", `(\d+) Str`)},
		{Name: ReqDex, Reads: []string{ReqLevel}, Run: requirement("Dex:", `(\d+) Dex`)},
		{Name: ReqInt, Reads: []string{ReqLevel}, Run: requirement("Int:", `(\d+) Int`)},
		{Name: Sockets, Run: sockets, Categories: gearCategories},
		{Name: ItemLevel, Run: labelled("Item Level:")},
		{Name: MapTier, Run: labelled("Waystone Tier:", "Map Tier:"), Categories: mapCategories},
		{Name: AreaLevel, Run: labelled("Area Level:"), Categories: mapCategories},
		{Name: PackSize, Run: labelled("Monster Pack Size:"), Categories: mapCategories},
		{Name: ItemRarity, Run: labelled("Item Rarity:"), Categories: mapCategories},
		{Name: ItemQuantity, Run: labelled("Item Quantity:"), Categories: mapCategories},
		{Name: Corrupted, Run: flag("Corrupted")},
		{Name: Unidentified, Run: flag("Unidentified")},
	}
}

// labelled extracts the first number after a matching label. Labels are
// alternatives tried in order; each is tried on every line carrying it
// before the next label is.
func labelled(labels ...string) RunFunc {
	return func(doc *model.Document, _ *model.ItemHeader, _ model.Properties) (model.PropertyValue, bool) {
		for _, label := range labels {
			for _, ref := range itemtext.FindLabels(doc, label, 1) {
				v, ok := common.FirstNumber(itemtext.ValueAfter(doc.Line(ref).Text))
				if !ok {
					continue
				}
				doc.Consume(ref)
				return model.Scalar(v), true
			}
		}
		return model.PropertyValue{}, false
	}
}

// damageRange sums every "lo-hi" range on every line carrying one of labels.
func damageRange(labels ...string) RunFunc {
	return func(doc *model.Document, _ *model.ItemHeader, _ model.Properties) (model.PropertyValue, bool) {
		var lo, hi float64
		found := false
		for _, label := range labels {
			for {
				ref, ok := itemtext.FindLabel(doc, label, 1)
				if !ok {
					break
				}
				doc.Consume(ref)
				for _, m := range rangePattern.FindAllStringSubmatch(itemtext.ValueAfter(doc.Line(ref).Text), -1) {
					l, _ := strconv.ParseFloat(m[1], 64)
					h, _ := strconv.ParseFloat(m[2], 64)
					lo += l
					hi += h
					found = true
				}
			}
		}
		if !found {
			return model.PropertyValue{}, false
		}
		return model.Span(lo, hi), true
	}
}

// dps multiplies the average of the given damage ranges by attack speed,
// rounded to one decimal.
func dps(damage ...string) RunFunc {
	return func(_ *model.Document, _ *model.ItemHeader, props model.Properties) (model.PropertyValue, bool) {
		aps, ok := props.Number(AttackSpeed)
		if !ok {
			return model.PropertyValue{}, false
		}
		total := 0.0
		found := false
		for _, name := range damage {
			v, ok := props[name]
			if !ok || v.Min == nil || v.Max == nil {
				continue
			}
			total += (*v.Min + *v.Max) / 2
			found = true
		}
		if !found {
			return model.PropertyValue{}, false
		}
		return model.Scalar(math.Round(total*aps*10) / 10), true
	}
}

// requirement reads a "Label: N" line from the requirements block, falling
// back to the single-line "Requires: Level 48, 88 Str" form.
func requirement(label, inline string) RunFunc {
	inlinePattern := regexp.MustCompile(inline)
	labelledRun := labelled(label)
	return func(doc *model.Document, header *model.ItemHeader, props model.Properties) (model.PropertyValue, bool) {
		if v, ok := labelledRun(doc, header, props); ok {
			return v, true
		}
		for b := 1; b < len(doc.Blocks); b++ {
			for l, line := range doc.Blocks[b].Lines {
				if !requiresPattern.MatchString(line.Text) {
					continue
				}
				m := inlinePattern.FindStringSubmatch(line.Text)
				if m == nil {
					continue
				}
				v, err := strconv.ParseFloat(m[1], 64)
				if err != nil {
					continue
				}
				doc.Consume(model.LineRef{Block: b, Line: l})
				return model.Scalar(v), true
			}
		}
		return model.PropertyValue{}, false
	}
}

// sockets counts the socket markers on the "Sockets:" line.
func sockets(doc *model.Document, _ *model.ItemHeader, _ model.Properties) (model.PropertyValue, bool) {
	ref, ok := itemtext.FindLabel(doc, "Sockets:", 1)
	if !ok {
		return model.PropertyValue{}, false
	}
	n := len(strings.Fields(itemtext.ValueAfter(doc.Line(ref).Text)))
	if n == 0 {
		return model.PropertyValue{}, false
	}
	doc.Consume(ref)
	return model.Scalar(float64(n)), true
}

// flag matches a standalone line such as "Corrupted".
func flag(text string) RunFunc {
	return func(doc *model.Document, _ *model.ItemHeader, _ model.Properties) (model.PropertyValue, bool) {
		ref, ok := itemtext.FindExact(doc, text)
		if !ok {
			return model.PropertyValue{}, false
		}
		doc.Consume(ref)
		return model.FlagValue(true), true
	}
}
