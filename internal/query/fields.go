package query

import (
	"github.com/Veraticus/itemquery/internal/model"
	"github.com/Veraticus/itemquery/internal/property"
)

// Target is the query field a property fills.
type Target struct {
	Group string
	Field string
	// Invert emits the negated flag, as for "Unidentified" into "identified".
	Invert bool
}

// Fields maps property names to query fields. Properties missing here, such
// as raw damage ranges, only feed derived properties.
var Fields = map[string]Target{
	property.ItemLevel:    {Group: model.GroupType, Field: "ilvl"},
	property.Quality:      {Group: model.GroupType, Field: "quality"},
	property.Armour:       {Group: model.GroupEquipment, Field: "ar"},
	property.Evasion:      {Group: model.GroupEquipment, Field: "ev"},
	property.EnergyShield: {Group: model.GroupEquipment, Field: "es"},
	property.Block:        {Group: model.GroupEquipment, Field: "block"},
	property.Spirit:       {Group: model.GroupEquipment, Field: "spirit"},
	property.AttackSpeed:  {Group: model.GroupEquipment, Field: "aps"},
	property.CritChance:   {Group: model.GroupEquipment, Field: "crit"},
	property.DPS:          {Group: model.GroupEquipment, Field: "dps"},
	property.PDPS:         {Group: model.GroupEquipment, Field: "pdps"},
	property.EDPS:         {Group: model.GroupEquipment, Field: "edps"},
	property.Sockets:      {Group: model.GroupEquipment, Field: "rune_sockets"},
	property.ReqLevel:     {Group: model.GroupReq, Field: "lvl"},
	property.ReqStr:       {Group: model.GroupReq, Field: "str"},
	property.ReqDex:       {Group: model.GroupReq, Field: "dex"},
	property.ReqInt:       {Group: model.GroupReq, Field: "int"},
	property.MapTier:      {Group: model.GroupMap, Field: "map_tier"},
	property.AreaLevel:    {Group: model.GroupMap, Field: "area_level"},
	property.PackSize:     {Group: model.GroupMap, Field: "map_packsize"},
	property.ItemRarity:   {Group: model.GroupMap, Field: "map_iir"},
	property.ItemQuantity: {Group: model.GroupMap, Field: "map_iiq"},
	property.Corrupted:    {Group: model.GroupMisc, Field: "corrupted"},
	property.Unidentified: {Group: model.GroupMisc, Field: "identified", Invert: true},
}
