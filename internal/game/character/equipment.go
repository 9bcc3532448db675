package character

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/inventory"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// ApplyEquipment replaces the character's view of its equipped items and
// refreshes the stats derived from them. It is the only write path from the
// inventory into character state.
//
// Postcondition: Score and resource maxima reflect s. New anchors are only
// recorded when no split level-up is pending.
func (c *Character) ApplyEquipment(s inventory.Snapshot) {
	c.equipment = s
	if c.pending == 0 {
		c.evaluateAnchors()
	}
	c.refreshResources()
	c.logger.Debug("equipment synced",
		zap.String("name", c.Name),
		zap.Int("armor_pieces", len(s.Armor)),
		zap.Bool("main_hand", s.MainHand != nil),
		zap.Bool("off_hand", s.OffHand != nil),
	)
}

// SyncEquipment pushes the inventory's current equipped state onto the character.
func (c *Character) SyncEquipment() {
	c.inv.SyncTo(c)
}

// Equipment returns the last synced equipment snapshot.
func (c *Character) Equipment() inventory.Snapshot { return c.equipment }

// EquipmentBonus returns the synced equipment bonus to a.
func (c *Character) EquipmentBonus(a ruleset.Ability) int {
	return c.equipment.StatBonuses[a]
}
