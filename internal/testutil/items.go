package testutil

// HelmetText is a rare helmet with six modifiers across three categories.
const HelmetText = `Item Class: Helmets
Rarity: Rare
Doom Veil
Soldier Greathelm
--------
Quality: +20% (augmented)
Armour: 331 (augmented)
--------
Requirements:
Level: 48
Str: 88
--------
Sockets: S
--------
Item Level: 58
--------
+15% to Fire Resistance (rune)
--------
+25 to maximum Life (implicit)
--------
+45 to maximum Life
+120 to Armour
+32% to Fire Resistance
42% increased Mana Regeneration Rate
--------
Corrupted`

// BowText is a rare bow using the single-line requirement format.
const BowText = `Item Class: Bows
Rarity: Rare
Storm Core
Recurve Bow
--------
Physical Damage: 20-40 (augmented)
Fire Damage: 10-15 (augmented)
Cold Damage: 5-10
Critical Hit Chance: 5.00%
Attacks per Second: 1.20
--------
Requires: Level 33, 62 Dex
--------
Item Level: 60
--------
Adds 6 to 9 Fire Damage
+18% to Cold Resistance`

// WaystoneText is a magic waystone.
const WaystoneText = `Item Class: Waystones
Rarity: Magic
Waystone (Tier 15)
--------
Waystone Tier: 15
Area Level: 79
Item Quantity: +20% (augmented)
Item Rarity: +35% (augmented)
Monster Pack Size: +10% (augmented)
--------
Item Level: 79
--------
Unidentified`
