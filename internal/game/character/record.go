package character

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/inventory"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// Anchors holds the threshold levels of the non-retroactive resources.
type Anchors struct {
	Sorcery       *int `json:"sorcery,omitempty"`
	DoubleSorcery *int `json:"double_sorcery,omitempty"`
	Finesse       *int `json:"finesse,omitempty"`
}

// Record is the plain persisted form of a Character.
type Record struct {
	Name          string                    `json:"name"`
	Hash          string                    `json:"hash"`
	Level         int                       `json:"level"`
	PendingPoints int                       `json:"pending_points,omitempty"`
	Race          string                    `json:"race"`
	Archetype     string                    `json:"archetype"`
	Roles         map[ruleset.Ability]Role  `json:"roles,omitempty"`
	Scores        map[ruleset.Ability]int   `json:"scores,omitempty"` // base scores without equipment
	Overrides     map[ruleset.Ability]int   `json:"overrides,omitempty"`
	History       []Allocation              `json:"history,omitempty"`
	HitPoints     int                       `json:"hit_points"`
	MaxHitPoints  int                       `json:"max_hit_points"`
	Resources     map[ruleset.Resource]Pool `json:"resources,omitempty"`
	Anchors       Anchors                   `json:"anchors"`
	Abilities     []ability.Entry           `json:"abilities,omitempty"`
	Inventory     inventory.State           `json:"inventory"`
	Equipment     inventory.Snapshot        `json:"equipment"`
	SavedAt       time.Time                 `json:"saved_at"`
}

// ComputeHash returns the hex SHA-256 of the record's canonical JSON with
// Hash and SavedAt cleared.
func (r Record) ComputeHash() string {
	r.Hash = ""
	r.SavedAt = time.Time{}
	data, err := json.Marshal(r)
	if err != nil {
		panic(fmt.Sprintf("character: Record.ComputeHash: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Verify reports whether r.Hash matches the record's content.
func (r Record) Verify() bool {
	return r.Hash != "" && r.Hash == r.ComputeHash()
}

// LearnedAbilityNames returns the names of every learned ability in the record.
func (r Record) LearnedAbilityNames() []string {
	out := make([]string, 0, len(r.Abilities))
	for _, e := range r.Abilities {
		out = append(out, e.Name)
	}
	return out
}

// record builds the Record for the current state without a hash or timestamp.
func (c *Character) record() Record {
	rec := Record{
		Name:          c.Name,
		Level:         c.level,
		PendingPoints: c.pending,
		Race:          c.raceID,
		Archetype:     c.archetypeID,
		Roles:         make(map[ruleset.Ability]Role, len(c.roles)),
		Scores:        make(map[ruleset.Ability]int, len(c.roles)),
		History:       c.History(),
		HitPoints:     c.currentHP,
		MaxHitPoints:  c.maxHP,
		Resources:     make(map[ruleset.Resource]Pool, len(c.pools)),
		Anchors: Anchors{
			Sorcery:       copyLevel(c.sorceryAnchor),
			DoubleSorcery: copyLevel(c.doubleSorceryAnchor),
			Finesse:       copyLevel(c.finesseAnchor),
		},
		Abilities: c.ledger.Entries(),
		Inventory: c.inv.State(),
		Equipment: c.equipment,
	}
	for a, role := range c.roles {
		rec.Roles[a] = role
		rec.Scores[a] = c.BaseScore(a)
	}
	if len(c.overrides) > 0 {
		rec.Overrides = make(map[ruleset.Ability]int, len(c.overrides))
		for a, v := range c.overrides {
			rec.Overrides[a] = v
		}
	}
	for r, p := range c.pools {
		rec.Resources[r] = *p
	}
	return rec
}

func (c *Character) computeHash() string {
	return c.record().ComputeHash()
}

// ToRecord stamps the save time, stores the new integrity hash on the
// character, and returns the persisted form.
//
// Postcondition: the returned record verifies and VerifyIntegrity() is true.
func (c *Character) ToRecord() Record {
	rec := c.record()
	rec.SavedAt = c.now().UTC()
	rec.Hash = rec.ComputeHash()
	c.hash = rec.Hash
	c.savedAt = rec.SavedAt
	return rec
}

// Hash returns the stored integrity hash: the one loaded from a record or
// produced by the last ToRecord.
func (c *Character) Hash() string { return c.hash }

// SavedAt returns the save time of the last record produced or loaded.
func (c *Character) SavedAt() time.Time { return c.savedAt }

// VerifyIntegrity reports whether the stored hash matches the current state.
func (c *Character) VerifyIntegrity() bool {
	return c.hash != "" && c.hash == c.computeHash()
}

// FromRecord rebuilds a Character from rec. Malformed or missing data never
// aborts the load: what can be restored is restored, the rest is left at safe
// defaults and described by LoadWarnings. The stored hash is kept as-is so
// the caller can check VerifyIntegrity.
func FromRecord(rec Record, cfg Config) *Character {
	cfg.withDefaults()
	if cfg.Rules != nil {
		if r, ok := cfg.Rules.Race(rec.Race); ok {
			cfg.Race = r
		}
		if a, ok := cfg.Rules.Archetype(rec.Archetype); ok {
			cfg.Archetype = a
		}
	}
	c := newEmpty(cfg)
	c.raceID = rec.Race
	c.archetypeID = rec.Archetype
	if rec.Race != "" && c.race == nil {
		c.warn("unknown race %q", rec.Race)
	}
	if rec.Archetype != "" && c.archetype == nil {
		c.warn("unknown archetype %q", rec.Archetype)
	}

	c.Name = rec.Name
	c.hash = rec.Hash
	c.savedAt = rec.SavedAt

	for a, role := range rec.Roles {
		if !a.Valid() || role.Base() == 0 {
			c.warn("ignoring role %q for ability %q", role, a)
			continue
		}
		c.roles[a] = role
	}
	for a, score := range rec.Scores {
		if !a.Valid() {
			c.warn("ignoring score for unknown ability %q", a)
			continue
		}
		c.allocated[a] = score - c.roles[a].Base() - c.race.Bonus(a)
	}
	for a, v := range rec.Overrides {
		if a.Valid() {
			c.overrides[a] = v
		}
	}
	c.history = append(c.history, rec.History...)

	c.level = max(1, rec.Level)
	c.pending = rec.PendingPoints
	if c.pending < 0 || c.pending > 2 {
		c.warn("pending points %d out of range, reset to 0", c.pending)
		c.pending = 0
	}
	c.finalizedLevel = c.level
	if c.pending > 0 {
		c.finalizedLevel = c.level - 1
		for _, h := range c.history {
			if h.Level == c.level && h.Points == 1 && h.Ability.Valid() {
				c.allocated[h.Ability]--
				c.pendingAlloc[h.Ability]++
			}
		}
	}

	c.maxHP = max(1, rec.MaxHitPoints)
	c.currentHP = min(max(0, rec.HitPoints), c.maxHP)

	for r, p := range rec.Resources {
		pool, ok := c.pools[r]
		if !ok {
			c.warn("ignoring unknown resource %q", r)
			continue
		}
		pool.Max = max(0, p.Max)
		pool.Current = min(max(0, p.Current), pool.Max)
	}
	c.sorceryAnchor = copyLevel(rec.Anchors.Sorcery)
	c.doubleSorceryAnchor = copyLevel(rec.Anchors.DoubleSorcery)
	c.finesseAnchor = copyLevel(rec.Anchors.Finesse)

	for _, id := range c.ledger.Restore(rec.Abilities) {
		c.warn("learned ability %q is not in the catalog", id)
	}
	if err := c.inv.Restore(rec.Inventory); err != nil {
		c.warn("%v", err)
	}
	c.equipment = rec.Equipment

	c.logger.Debug("character loaded",
		zap.String("name", c.Name),
		zap.Int("level", c.level),
		zap.Int("warnings", len(c.warnings)),
	)
	return c
}

func (c *Character) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.warnings = append(c.warnings, msg)
	c.logger.Warn("record load", zap.String("name", c.Name), zap.String("problem", msg))
}
