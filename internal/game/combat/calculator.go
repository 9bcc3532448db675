package combat

import (
	"fmt"

	"github.com/cory-johannsen/charsheet/internal/game/dice"
	"github.com/cory-johannsen/charsheet/internal/game/inventory"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// Term names used in breakdowns.
const (
	TermD20         = "d20"
	TermLevelBonus  = "level bonus"
	TermWeaponBonus = "weapon bonus"
	TermEnchantment = "enchantment"
	TermMinimum     = "minimum"
	TermBaseAC      = "base"
	TermDexterity   = "DEX modifier"
)

// BaseAC is the armor class of an unarmored character before dexterity.
const BaseAC = 10

// Combatant is the view of a character the calculator reads.
type Combatant interface {
	Modifier(a ruleset.Ability) int
	FinalizedLevel() int
	Equipment() inventory.Snapshot
	Roller() *dice.Roller
}

// Roll is a resolved attack or damage roll.
//
// Invariant: Total == Terms.Sum().
type Roll struct {
	Hand   Hand
	Weapon string
	Dice   dice.RollResult
	Terms  Breakdown
	Total  int
}

// Against classifies the attack roll against a target armor class.
func (r Roll) Against(ac int) Outcome {
	return OutcomeFor(r.Total, ac)
}

func (r *Roll) add(name string, v int) {
	r.Terms = append(r.Terms, Term{Name: name, Value: v})
	r.Total += v
}

// StatTermName returns the breakdown label for an ability modifier.
func StatTermName(a ruleset.Ability) string {
	return a.Short() + " modifier"
}

func weaponFor(c Combatant, hand Hand) (*inventory.WeaponProfile, error) {
	snap := c.Equipment()
	var w *inventory.WeaponProfile
	switch hand {
	case MainHand:
		w = snap.MainHand
	case OffHand:
		w = snap.OffHand
	}
	if w == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoWeapon, hand)
	}
	return w, nil
}

// governing returns the ability and modifier used by w. A finesse weapon
// switches to strength or dexterity when either modifier is higher.
func governing(c Combatant, w *inventory.WeaponProfile) (ruleset.Ability, int) {
	a := w.Ability
	mod := c.Modifier(a)
	if w.Finesse {
		for _, alt := range []ruleset.Ability{ruleset.Strength, ruleset.Dexterity} {
			if m := c.Modifier(alt); m > mod {
				a, mod = alt, m
			}
		}
	}
	return a, mod
}

// AttackRoll rolls d20 + stat modifier + level bonus + weapon bonus +
// enchantment for the weapon in hand. The off hand never receives the level
// bonus.
//
// Postcondition: on success Total == Terms.Sum().
func AttackRoll(c Combatant, hand Hand) (Roll, error) {
	w, err := weaponFor(c, hand)
	if err != nil {
		return Roll{}, err
	}
	d20, err := c.Roller().RollExpr("1d20")
	if err != nil {
		return Roll{}, err
	}
	r := Roll{Hand: hand, Weapon: w.Name, Dice: d20}
	r.add(TermD20, d20.Total())
	a, mod := governing(c, w)
	r.add(StatTermName(a), mod)
	if hand == MainHand {
		r.add(TermLevelBonus, LevelBonus(c.FinalizedLevel()))
	}
	if w.AttackBonus != 0 {
		r.add(TermWeaponBonus, w.AttackBonus)
	}
	if w.Enchantment != 0 {
		r.add(TermEnchantment, w.Enchantment)
	}
	return r, nil
}

// DamageRoll rolls the weapon die + stat modifier + weapon bonus +
// enchantment for the weapon in hand. The off hand never adds the stat
// modifier. A result below 1 is raised to 1 by a minimum term.
//
// Postcondition: on success Total == Terms.Sum() and Total >= 1.
func DamageRoll(c Combatant, hand Hand) (Roll, error) {
	w, err := weaponFor(c, hand)
	if err != nil {
		return Roll{}, err
	}
	roll, err := c.Roller().RollExpr(w.DamageDice)
	if err != nil {
		return Roll{}, fmt.Errorf("combat: weapon %q: %w", w.Name, err)
	}
	r := Roll{Hand: hand, Weapon: w.Name, Dice: roll}
	r.add(w.DamageDice, roll.Total())
	if hand == MainHand {
		a, mod := governing(c, w)
		r.add(StatTermName(a), mod)
	}
	if w.DamageBonus != 0 {
		r.add(TermWeaponBonus, w.DamageBonus)
	}
	if w.Enchantment != 0 {
		r.add(TermEnchantment, w.Enchantment)
	}
	if r.Total < 1 {
		r.add(TermMinimum, 1-r.Total)
	}
	return r, nil
}

// ArmorClass returns base AC + every equipped armor piece + the dexterity
// modifier capped by the strictest equipped dex cap.
//
// Postcondition: the returned total equals the breakdown's Sum.
func ArmorClass(c Combatant) (int, Breakdown) {
	snap := c.Equipment()
	def := snap.ComputedDefenses(c.Modifier(ruleset.Dexterity))
	b := Breakdown{{Name: TermBaseAC, Value: BaseAC}}
	for _, p := range snap.Armor {
		b = append(b, Term{Name: p.Name, Value: p.ACBonus})
	}
	b = append(b, Term{Name: TermDexterity, Value: def.EffectiveDex})
	return b.Sum(), b
}
