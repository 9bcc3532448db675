package character

import (
	"fmt"

	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// BaseScore returns role base + racial bonus + level-up allocations for a,
// including points already spent on an open split level-up.
func (c *Character) BaseScore(a ruleset.Ability) int {
	return c.roles[a].Base() + c.race.Bonus(a) + c.allocated[a] + c.pendingAlloc[a]
}

// Score returns the computed score: BaseScore plus synced equipment bonuses.
// Overrides are ignored.
func (c *Character) Score(a ruleset.Ability) int {
	return c.BaseScore(a) + c.equipment.StatBonuses[a]
}

// committedScore is Score without the points of an open split level-up.
// Anchors and resource maxima read this value, so a half-allocated level
// never reaches them.
func (c *Character) committedScore(a ruleset.Ability) int {
	return c.Score(a) - c.pendingAlloc[a]
}

// EffectiveScore returns the override for a when one is set, else Score(a).
func (c *Character) EffectiveScore(a ruleset.Ability) int {
	if v, ok := c.overrides[a]; ok {
		return v
	}
	return c.Score(a)
}

// Modifier returns the ability modifier of EffectiveScore(a).
func (c *Character) Modifier(a ruleset.Ability) int {
	return ruleset.Modifier(c.EffectiveScore(a))
}

// SetOverride pins the displayed score of a to value.
//
// Postcondition: EffectiveScore(a) == value; Score(a) is unchanged.
func (c *Character) SetOverride(a ruleset.Ability, value int) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAbility, a)
	}
	c.overrides[a] = value
	return nil
}

// ClearOverride removes any override on a.
func (c *Character) ClearOverride(a ruleset.Ability) {
	delete(c.overrides, a)
}

// Override returns the override for a and whether one is set.
func (c *Character) Override(a ruleset.Ability) (int, bool) {
	v, ok := c.overrides[a]
	return v, ok
}
