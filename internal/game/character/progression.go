package character

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// Thresholds and base pools for the threshold-gated resources.
const (
	SorceryThreshold       = 11
	SorceryBase            = 3
	DoubleSorceryThreshold = 18
	FinesseThreshold       = 11
	FinesseBase            = 2
	ManeuverThreshold      = 16
)

// LevelUp performs a traditional level-up: +1 level and +2 to a, finalized immediately.
//
// Precondition: no split level-up is pending.
// Postcondition: on error nothing is mutated; otherwise Level and
// FinalizedLevel advance by one and one history entry is appended.
func (c *Character) LevelUp(a ruleset.Ability) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAbility, a)
	}
	if c.pending != 0 {
		return ErrLevelUpPending
	}
	c.level++
	c.allocated[a] += 2
	c.history = append(c.history, Allocation{Level: c.level, Ability: a, Points: 2})
	c.logger.Debug("level up",
		zap.String("name", c.Name), zap.Int("level", c.level), zap.String("ability", string(a)))
	c.finalize(true)
	return nil
}

// StartLevelUp opens a split level-up: +1 level with two points to allocate.
// Resource recomputation waits for both allocations.
//
// Postcondition: returns false with no mutation when a split level-up is
// already pending; otherwise PendingPoints() == 2.
func (c *Character) StartLevelUp() bool {
	if c.pending != 0 {
		c.logger.Debug("split level up rejected: already pending", zap.Int("pending", c.pending))
		return false
	}
	c.level++
	c.pending = 2
	c.logger.Debug("split level up started", zap.String("name", c.Name), zap.Int("level", c.level))
	return true
}

// AllocatePoint spends one pending point on a (+1). The second allocation
// finalizes the level.
//
// Postcondition: on error nothing is mutated.
func (c *Character) AllocatePoint(a ruleset.Ability) error {
	if !a.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAbility, a)
	}
	if c.pending == 0 {
		return ErrNoPendingPoints
	}
	c.pendingAlloc[a]++
	c.history = append(c.history, Allocation{Level: c.level, Ability: a, Points: 1})
	c.pending--
	if c.pending == 0 {
		c.finalize(true)
	}
	return nil
}

// finalize commits the current level: anchors, hit points, resource maxima.
// It runs exactly once per level.
func (c *Character) finalize(rollHP bool) {
	for a, n := range c.pendingAlloc {
		c.allocated[a] += n
	}
	clear(c.pendingAlloc)
	c.finalizedLevel = c.level
	c.evaluateAnchors()
	if rollHP {
		gain := c.rollHitPoints()
		c.maxHP += gain
		c.currentHP += gain
	}
	c.refreshResources()
}

func (c *Character) rollHitPoints() int {
	res, err := c.roller.Roll(c.archetype.HitDieExpression())
	if err != nil {
		c.logger.Warn("hit die roll failed", zap.Error(err))
		return 1
	}
	return max(1, res.Total())
}

// evaluateAnchors records the finalized level for every threshold crossed for
// the first time. Existing anchors never move.
func (c *Character) evaluateAnchors() {
	lvl := c.finalizedLevel
	anchor := func(name string, slot **int, score, threshold int) {
		if *slot != nil || score < threshold {
			return
		}
		v := lvl
		*slot = &v
		c.logger.Debug("threshold anchored",
			zap.String("name", c.Name), zap.String("resource", name), zap.Int("level", lvl))
	}
	anchor("sorcery", &c.sorceryAnchor, c.committedScore(ruleset.Intelligence), SorceryThreshold)
	if c.sorceryAnchor != nil {
		anchor("double_sorcery", &c.doubleSorceryAnchor, c.committedScore(ruleset.Intelligence), DoubleSorceryThreshold)
	}
	anchor("finesse", &c.finesseAnchor, c.committedScore(ruleset.Dexterity), FinesseThreshold)
}

// SorceryAnchor returns the level at which sorcery was first unlocked, or nil.
func (c *Character) SorceryAnchor() *int { return copyLevel(c.sorceryAnchor) }

// DoubleSorceryAnchor returns the level at which the double-sorcery tier was first reached, or nil.
func (c *Character) DoubleSorceryAnchor() *int { return copyLevel(c.doubleSorceryAnchor) }

// FinesseAnchor returns the level at which finesse was first unlocked, or nil.
func (c *Character) FinesseAnchor() *int { return copyLevel(c.finesseAnchor) }

func copyLevel(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// DoubleSorceryBonus returns the derived double-tier bonus: one point per
// finalized level from its anchor through the finalized level, inclusive.
func (c *Character) DoubleSorceryBonus() int {
	if c.doubleSorceryAnchor == nil || c.finalizedLevel < *c.doubleSorceryAnchor {
		return 0
	}
	return c.finalizedLevel - *c.doubleSorceryAnchor + 1
}

func (c *Character) sorceryMax() int {
	if c.sorceryAnchor == nil {
		return 0
	}
	return SorceryBase + max(0, c.finalizedLevel-*c.sorceryAnchor) + c.DoubleSorceryBonus()
}

func (c *Character) finesseMax() int {
	if c.finesseAnchor == nil {
		return 0
	}
	return FinesseBase + oddLevelsAfter(*c.finesseAnchor, c.finalizedLevel)
}

// oddLevelsAfter counts odd levels in (anchor, level].
func oddLevelsAfter(anchor, level int) int {
	if level <= anchor {
		return 0
	}
	return (level+1)/2 - (anchor+1)/2
}

// Maneuvers returns the combat-maneuver maximum for an arbitrary score at the
// finalized level. It has no memory: the result depends only on its inputs.
func (c *Character) Maneuvers(score int) int {
	if score >= ManeuverThreshold {
		return c.finalizedLevel
	}
	return 0
}

// refreshResources recomputes every pool maximum from the finalized level and
// committed scores. A raised maximum raises the current value by the same
// amount; a lowered one clamps it.
func (c *Character) refreshResources() {
	bonus := c.equipment.ResourceBonuses
	maxima := map[ruleset.Resource]int{
		ruleset.SorceryPoints:  c.sorceryMax() + bonus[ruleset.SorceryPoints],
		ruleset.FinessePoints:  c.finesseMax() + bonus[ruleset.FinessePoints],
		ruleset.ManeuverPoints: c.Maneuvers(c.committedScore(ruleset.Strength)) + bonus[ruleset.ManeuverPoints],
	}
	for r, m := range maxima {
		c.pools[r].setMax(max(0, m))
	}
}
