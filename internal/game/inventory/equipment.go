package inventory

// Slot identifies an equipment slot on a character.
type Slot string

const (
	// SlotMainHand holds the primary weapon.
	SlotMainHand Slot = "main_hand"
	// SlotOffHand holds a secondary weapon.
	SlotOffHand Slot = "off_hand"
	// SlotShield holds a shield.
	SlotShield Slot = "shield"
	// SlotBody holds body armor.
	SlotBody Slot = "body"
	SlotHead Slot = "head"
	// SlotHands covers both hands.
	SlotHands Slot = "hands"
	SlotFeet  Slot = "feet"
	SlotNeck  Slot = "neck"
	// SlotLeftRing and SlotRightRing are the two ring slots.
	SlotLeftRing  Slot = "left_ring"
	SlotRightRing Slot = "right_ring"
)

// slotOrder is the canonical ordering used when listing equipped items.
var slotOrder = []Slot{
	SlotMainHand,
	SlotOffHand,
	SlotShield,
	SlotBody,
	SlotHead,
	SlotHands,
	SlotFeet,
	SlotNeck,
	SlotLeftRing,
	SlotRightRing,
}

// slotDisplayNames maps every slot identifier to its human-readable label.
var slotDisplayNames = map[Slot]string{
	SlotMainHand:  "Main Hand",
	SlotOffHand:   "Off Hand",
	SlotShield:    "Shield",
	SlotBody:      "Body",
	SlotHead:      "Head",
	SlotHands:     "Hands",
	SlotFeet:      "Feet",
	SlotNeck:      "Neck",
	SlotLeftRing:  "Left Ring",
	SlotRightRing: "Right Ring",
}

// Slots returns every equipment slot in canonical order.
func Slots() []Slot {
	out := make([]Slot, len(slotOrder))
	copy(out, slotOrder)
	return out
}

// Valid reports whether s is a known equipment slot.
func (s Slot) Valid() bool {
	_, ok := slotDisplayNames[s]
	return ok
}

// DisplayName returns the human-readable label for the slot, or the raw
// identifier when the slot is unknown.
func (s Slot) DisplayName() string {
	if label, ok := slotDisplayNames[s]; ok {
		return label
	}
	return string(s)
}

// ArmorPiece is one AC-contributing item in a snapshot.
type ArmorPiece struct {
	ItemID  string `json:"item_id"`
	Name    string `json:"name"`
	Slot    Slot   `json:"slot"`
	ACBonus int    `json:"ac_bonus"` // includes enchantment
	DexCap  *int   `json:"dex_cap,omitempty"`
}

// DefenseStats holds aggregated defensive statistics computed from all equipped armor pieces.
type DefenseStats struct {
	ACBonus      int // sum of all equipped piece AC bonuses
	EffectiveDex int // min(dexMod, strictest DexCap) across equipped pieces
}

// ComputedDefenses aggregates defense stats from the armor pieces in the snapshot.
//
// Precondition: dexMod may be any integer.
// Postcondition: ACBonus equals the sum of all piece AC bonuses;
// EffectiveDex <= dexMod and <= every piece's DexCap.
func (s Snapshot) ComputedDefenses(dexMod int) DefenseStats {
	stats := DefenseStats{EffectiveDex: dexMod}
	for _, p := range s.Armor {
		stats.ACBonus += p.ACBonus
		if p.DexCap != nil && *p.DexCap < stats.EffectiveDex {
			stats.EffectiveDex = *p.DexCap
		}
	}
	return stats
}
