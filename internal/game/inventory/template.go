// Package inventory provides the read-only equipment catalog (templates loaded
// from YAML) and the per-character inventory manager that owns item instances,
// slot occupancy, and equipped-bonus aggregation.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/game/dice"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// Kind classifies an equipment template.
type Kind string

const (
	KindWeapon    Kind = "weapon"
	KindArmor     Kind = "armor"
	KindShield    Kind = "shield"
	KindAccessory Kind = "accessory"
)

var validKinds = map[Kind]bool{
	KindWeapon:    true,
	KindArmor:     true,
	KindShield:    true,
	KindAccessory: true,
}

// DefaultMaxEnchantment caps enchantment scaling when a template does not set its own cap.
const DefaultMaxEnchantment = 3

// StatModifier is an ability-score bonus granted while the item is equipped.
// The effective value is Base + PerEnchantment*clamp(enchantment, -max, +max).
type StatModifier struct {
	Stat           ruleset.Ability `yaml:"stat"`
	Base           int             `yaml:"base"`
	PerEnchantment int             `yaml:"per_enchantment"`
	MaxEnchantment int             `yaml:"max_enchantment"`
}

// Value returns the modifier's contribution at the given enchantment level.
// The signed level is used directly, so a cursed item subtracts.
func (m StatModifier) Value(enchantment int) int {
	limit := capOr(m.MaxEnchantment)
	return m.Base + m.PerEnchantment*clamp(enchantment, -limit, limit)
}

// ResourceModifier is a resource-pool bonus granted while the item is equipped.
// Negative enchantment levels count as zero, so the contribution never drops
// below Base.
type ResourceModifier struct {
	Resource       ruleset.Resource `yaml:"resource"`
	Base           int              `yaml:"base"`
	PerEnchantment int              `yaml:"per_enchantment"`
	MaxEnchantment int              `yaml:"max_enchantment"`
}

// Value returns the modifier's contribution at the given enchantment level.
//
// Postcondition: result >= m.Base when PerEnchantment >= 0.
func (m ResourceModifier) Value(enchantment int) int {
	return m.Base + m.PerEnchantment*clamp(enchantment, 0, capOr(m.MaxEnchantment))
}

// WeaponStats holds the combat properties of a weapon template.
type WeaponStats struct {
	DamageDice  string          `yaml:"damage_dice"`
	DamageType  string          `yaml:"damage_type"`
	Ability     ruleset.Ability `yaml:"ability"` // governing ability; defaults to strength
	Finesse     bool            `yaml:"finesse"` // use the better of strength and dexterity
	AttackBonus int             `yaml:"attack_bonus"`
	DamageBonus int             `yaml:"damage_bonus"`
}

// ArmorStats holds the defensive properties of an armor or shield template.
type ArmorStats struct {
	ACBonus int  `yaml:"ac_bonus"`
	DexCap  *int `yaml:"dex_cap"` // nil = uncapped
}

// Template is an immutable equipment catalog entry keyed by ID.
type Template struct {
	ID                string                  `yaml:"id"`
	Name              string                  `yaml:"name"`
	Description       string                  `yaml:"description"`
	Kind              Kind                    `yaml:"kind"`
	Slots             []Slot                  `yaml:"slots"` // first entry is the default slot
	ConflictsWith     []Slot                  `yaml:"conflicts_with"`
	Requirements      map[ruleset.Ability]int `yaml:"requirements"`
	StatModifiers     []StatModifier          `yaml:"stat_modifiers"`
	ResourceModifiers []ResourceModifier      `yaml:"resource_modifiers"`
	MaxEnchantment    int                     `yaml:"max_enchantment"`
	Weapon            *WeaponStats            `yaml:"weapon"`
	Armor             *ArmorStats             `yaml:"armor"`
	Traits            []string                `yaml:"traits"`
}

// DefaultSlot returns the slot used when equip is called without an explicit slot.
func (t *Template) DefaultSlot() Slot {
	if len(t.Slots) == 0 {
		return ""
	}
	return t.Slots[0]
}

// Fits reports whether the template may occupy slot.
func (t *Template) Fits(slot Slot) bool {
	for _, s := range t.Slots {
		if s == slot {
			return true
		}
	}
	return false
}

// ConflictsWithSlot reports whether equipping this template vacates slot.
func (t *Template) ConflictsWithSlot(slot Slot) bool {
	for _, s := range t.ConflictsWith {
		if s == slot {
			return true
		}
	}
	return false
}

// IsTwoHanded reports whether the template locks out the off-hand.
func (t *Template) IsTwoHanded() bool {
	return t.Kind == KindWeapon && t.ConflictsWithSlot(SlotOffHand)
}

// EffectiveEnchantment clamps a signed enchantment level to the template's cap.
func (t *Template) EffectiveEnchantment(level int) int {
	limit := capOr(t.MaxEnchantment)
	return clamp(level, -limit, limit)
}

// MeetsRequirements reports whether every requirement is satisfied by stats.
// A nil stats reader satisfies only templates without requirements.
func (t *Template) MeetsRequirements(stats StatReader) bool {
	for ability, need := range t.Requirements {
		if stats == nil || stats.EffectiveScore(ability) < need {
			return false
		}
	}
	return true
}

// Validate checks that the Template satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !validKinds[t.Kind] {
		errs = append(errs, fmt.Errorf("kind must be one of weapon, armor, shield, accessory; got %q", t.Kind))
	}
	if len(t.Slots) == 0 {
		errs = append(errs, errors.New("slots must not be empty"))
	}
	for _, s := range append(append([]Slot{}, t.Slots...), t.ConflictsWith...) {
		if !s.Valid() {
			errs = append(errs, fmt.Errorf("slot %q is not a valid equipment slot", s))
		}
	}
	for a := range t.Requirements {
		if !a.Valid() {
			errs = append(errs, fmt.Errorf("requirement on unknown ability %q", a))
		}
	}
	for _, m := range t.StatModifiers {
		if !m.Stat.Valid() {
			errs = append(errs, fmt.Errorf("stat modifier on unknown ability %q", m.Stat))
		}
	}
	for _, m := range t.ResourceModifiers {
		if !m.Resource.Valid() {
			errs = append(errs, fmt.Errorf("resource modifier on unknown resource %q", m.Resource))
		}
		if m.PerEnchantment < 0 {
			errs = append(errs, fmt.Errorf("resource modifier %q per_enchantment must be >= 0", m.Resource))
		}
	}
	if t.MaxEnchantment < 0 {
		errs = append(errs, errors.New("max_enchantment must be >= 0"))
	}
	if t.Kind == KindWeapon {
		if t.Weapon == nil {
			errs = append(errs, errors.New("weapon stats are required when kind is weapon"))
		} else {
			if _, err := dice.Parse(t.Weapon.DamageDice); err != nil {
				errs = append(errs, fmt.Errorf("weapon.damage_dice: %w", err))
			}
			if t.Weapon.Ability != "" && !t.Weapon.Ability.Valid() {
				errs = append(errs, fmt.Errorf("weapon.ability %q is not a valid ability", t.Weapon.Ability))
			}
		}
	}
	if (t.Kind == KindArmor || t.Kind == KindShield) && t.Armor == nil {
		errs = append(errs, fmt.Errorf("armor stats are required when kind is %s", t.Kind))
	}
	if t.Armor != nil && t.Armor.ACBonus < 0 {
		errs = append(errs, errors.New("armor.ac_bonus must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("template validation failed: %v", errs)
	}
	return nil
}

// LoadTemplates reads all *.yaml and *.yml files from dir, parses each as a
// Template, validates it, and returns the collected slice.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Templates or the first encountered error.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadTemplates: cannot read directory %q: %w", dir, err)
	}

	templates := []*Template{}
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadTemplates: cannot read file %q: %w", path, err)
		}
		var t Template
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("LoadTemplates: cannot parse file %q: %w", path, err)
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("LoadTemplates: invalid template in %q: %w", path, err)
		}
		templates = append(templates, &t)
	}
	return templates, nil
}

func capOr(limit int) int {
	if limit <= 0 {
		return DefaultMaxEnchantment
	}
	return limit
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
