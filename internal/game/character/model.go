// Package character implements the character aggregate: ability scores,
// the level-up state machine, threshold-anchored resource pools, equipment
// synchronisation, the persisted record, and the updated-event hook.
package character

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/dice"
	"github.com/cory-johannsen/charsheet/internal/game/inventory"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// Role is the creation-time rank of an ability score.
type Role string

const (
	RoleHigh Role = "high"
	RoleMid  Role = "mid"
	RoleLow  Role = "low"
)

// Base returns the starting score for the role before racial bonuses.
func (r Role) Base() int {
	switch r {
	case RoleHigh:
		return 16
	case RoleMid:
		return 10
	case RoleLow:
		return 6
	}
	return 0
}

var (
	// ErrInvalidAbility is returned when an operation names an unknown ability.
	ErrInvalidAbility = errors.New("character: invalid ability")
	// ErrNoPendingPoints is returned by AllocatePoint outside a split level-up.
	ErrNoPendingPoints = errors.New("character: no pending level-up points")
	// ErrLevelUpPending is returned by LevelUp while a split level-up is open.
	ErrLevelUpPending = errors.New("character: split level-up in progress")
)

// Allocation is one entry of the append-only level-up history.
type Allocation struct {
	Level   int             `json:"level"`
	Ability ruleset.Ability `json:"ability"`
	Points  int             `json:"points"` // 2 for a traditional level-up, 1 per split allocation
}

// Config carries the collaborators and creation choices for a Character.
// Nil collaborators are replaced with empty defaults.
type Config struct {
	Name      string
	Race      *ruleset.Race
	Archetype *ruleset.Archetype
	High      ruleset.Ability
	Mid       ruleset.Ability

	// Rules resolves race and archetype IDs when loading a record.
	Rules     *ruleset.Registry
	Items     *inventory.Registry
	Abilities *ability.Catalog
	Roller    *dice.Roller
	Logger    *zap.Logger
	Now       func() time.Time
}

func (cfg *Config) withDefaults() {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Items == nil {
		cfg.Items = inventory.NewRegistry()
	}
	if cfg.Abilities == nil {
		cfg.Abilities = ability.NewCatalog()
	}
	if cfg.Roller == nil {
		cfg.Roller = dice.NewLoggedRoller(dice.NewCryptoSource(), cfg.Logger)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
}

// Character is the aggregate root for one player character.
//
// A Character is not safe for concurrent use; the caller must serialise access.
type Character struct {
	// Name may be empty until Validate is called.
	Name string

	race        *ruleset.Race
	archetype   *ruleset.Archetype
	raceID      string
	archetypeID string

	roles     map[ruleset.Ability]Role
	allocated map[ruleset.Ability]int
	overrides map[ruleset.Ability]int

	// pendingAlloc holds the points of an open split level-up until it finalizes.
	pendingAlloc map[ruleset.Ability]int

	level          int
	finalizedLevel int
	pending        int
	history        []Allocation

	maxHP     int
	currentHP int

	sorceryAnchor       *int
	doubleSorceryAnchor *int
	finesseAnchor       *int
	pools               map[ruleset.Resource]*Pool

	equipment inventory.Snapshot
	inv       *inventory.Manager
	ledger    *ability.Ledger

	roller *dice.Roller
	logger *zap.Logger
	now    func() time.Time

	hash     string
	savedAt  time.Time
	warnings []string

	subscribers []subscriber
}

// New creates a level-1 character.
//
// Precondition: cfg.High and cfg.Mid are distinct valid abilities.
// Postcondition: exactly one score has the high role, one mid, one low; level
// 1 is finalized; the race's racial ability is learned when the catalog has it.
func New(cfg Config) (*Character, error) {
	if !cfg.High.Valid() {
		return nil, fmt.Errorf("%w: high %q", ErrInvalidAbility, cfg.High)
	}
	if !cfg.Mid.Valid() {
		return nil, fmt.Errorf("%w: mid %q", ErrInvalidAbility, cfg.Mid)
	}
	if cfg.High == cfg.Mid {
		return nil, fmt.Errorf("character: high and mid must differ, both %q", cfg.High)
	}
	cfg.withDefaults()

	c := newEmpty(cfg)
	c.Name = cfg.Name
	for _, a := range ruleset.Abilities() {
		switch a {
		case cfg.High:
			c.roles[a] = RoleHigh
		case cfg.Mid:
			c.roles[a] = RoleMid
		default:
			c.roles[a] = RoleLow
		}
	}

	c.level = 1
	hd := cfg.Archetype.HitDieExpression()
	c.maxHP = max(1, hd.Count*hd.Sides+hd.Modifier)
	c.currentHP = c.maxHP
	c.finalize(false)

	if cfg.Race != nil && cfg.Race.RacialAbility != "" {
		if !c.ledger.Learn(cfg.Race.RacialAbility, ability.TypeRacial, 1) {
			c.logger.Debug("racial ability not granted",
				zap.String("race", cfg.Race.ID), zap.String("ability", cfg.Race.RacialAbility))
		}
	}
	c.hash = c.computeHash()
	c.logger.Debug("character created",
		zap.String("name", c.Name),
		zap.String("high", string(cfg.High)),
		zap.String("mid", string(cfg.Mid)),
	)
	return c, nil
}

func newEmpty(cfg Config) *Character {
	c := &Character{
		race:      cfg.Race,
		archetype: cfg.Archetype,
		roles:     make(map[ruleset.Ability]Role),
		allocated: make(map[ruleset.Ability]int),
		overrides: make(map[ruleset.Ability]int),
		pools:     make(map[ruleset.Resource]*Pool),

		pendingAlloc: make(map[ruleset.Ability]int),
		roller:    cfg.Roller,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
	if cfg.Race != nil {
		c.raceID = cfg.Race.ID
	}
	if cfg.Archetype != nil {
		c.archetypeID = cfg.Archetype.ID
	}
	for _, r := range ruleset.Resources() {
		c.pools[r] = &Pool{}
	}
	c.inv = inventory.NewManager(cfg.Items, cfg.Logger)
	c.ledger = ability.NewLedger(cfg.Abilities, cfg.Logger)
	return c
}

// Validate reports whether the character is ready to be saved.
func (c *Character) Validate() error {
	if c.Name == "" {
		return errors.New("character name must not be empty")
	}
	return nil
}

// Race returns the character's race, or nil.
func (c *Character) Race() *ruleset.Race { return c.race }

// Archetype returns the character's archetype, or nil.
func (c *Character) Archetype() *ruleset.Archetype { return c.archetype }

// Role returns the creation-time role of a.
func (c *Character) Role(a ruleset.Ability) Role { return c.roles[a] }

// Level returns the current level, including a level whose split allocation is still pending.
func (c *Character) Level() int { return c.level }

// FinalizedLevel returns the last level whose points are fully allocated.
//
// Postcondition: FinalizedLevel() == Level() iff PendingPoints() == 0.
func (c *Character) FinalizedLevel() int { return c.finalizedLevel }

// PendingPoints returns the number of unallocated split level-up points.
func (c *Character) PendingPoints() int { return c.pending }

// History returns a copy of the level-up allocation log.
func (c *Character) History() []Allocation {
	out := make([]Allocation, len(c.history))
	copy(out, c.history)
	return out
}

// HitPoints returns the current and maximum hit points.
func (c *Character) HitPoints() (current, maximum int) { return c.currentHP, c.maxHP }

// Inventory returns the character's inventory manager. Changes made through
// it are not reflected in derived stats until SyncEquipment is called.
func (c *Character) Inventory() *inventory.Manager { return c.inv }

// Abilities returns the character's learned-ability ledger.
func (c *Character) Abilities() *ability.Ledger { return c.ledger }

// Roller returns the dice roller used for hit points and combat rolls.
func (c *Character) Roller() *dice.Roller { return c.roller }

// LoadWarnings lists data problems tolerated while loading a record.
func (c *Character) LoadWarnings() []string { return c.warnings }
