package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/combat"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

func printSheet(w io.Writer, c *character.Character) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	race, arch := "?", "?"
	if r := c.Race(); r != nil {
		race = r.Name
	}
	if a := c.Archetype(); a != nil {
		arch = a.Name
	}
	fmt.Fprintf(tw, "%s\t%s %s\n", c.Name, race, arch)
	fmt.Fprintf(tw, "Level\t%d (finalized %d, pending points %d)\n", c.Level(), c.FinalizedLevel(), c.PendingPoints())
	if saved := c.SavedAt(); !saved.IsZero() {
		fmt.Fprintf(tw, "Saved\t%s\n", saved.Format("2006-01-02 15:04"))
	}
	cur, maxHP := c.HitPoints()
	fmt.Fprintf(tw, "Hit points\t%d/%d\n", cur, maxHP)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "ABILITY\tROLE\tBASE\tEQUIP\tSCORE\tMOD")
	for _, a := range ruleset.Abilities() {
		score := fmt.Sprintf("%d", c.EffectiveScore(a))
		if _, ok := c.Override(a); ok {
			score += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%+d\t%s\t%+d\n",
			a.Short(), c.Role(a), c.BaseScore(a), c.EquipmentBonus(a), score, c.Modifier(a))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "RESOURCE\tCURRENT\tMAX")
	for _, r := range ruleset.Resources() {
		p := c.Resource(r)
		fmt.Fprintf(tw, "%s\t%d\t%d\n", r, p.Current, p.Max)
	}
	fmt.Fprintf(tw, "Anchors\t%s\n", anchors(c))
	fmt.Fprintln(tw)

	ac, terms := combat.ArmorClass(c)
	fmt.Fprintf(tw, "Armor class\t%d\t%s\n", ac, terms)
	for _, hand := range []combat.Hand{combat.MainHand, combat.OffHand} {
		atk, err := combat.AttackRoll(c, hand)
		if errors.Is(err, combat.ErrNoWeapon) {
			continue
		}
		if err != nil {
			return err
		}
		dmg, err := combat.DamageRoll(c, hand)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s (%s)\tattack %d\t%s\n", hand, atk.Weapon, atk.Total, atk.Terms)
		fmt.Fprintf(tw, "\tdamage %d\t%s\n", dmg.Total, dmg.Terms)
	}
	fmt.Fprintln(tw)

	inv := c.Inventory()
	for _, it := range inv.EquippedItems() {
		t, _ := inv.Registry().Template(it.TemplateID)
		name := it.DisplayName(t)
		if it.Enchantment != 0 {
			name += fmt.Sprintf(" %+d", it.Enchantment)
		}
		if it.Cursed() {
			name += " (cursed)"
		}
		fmt.Fprintf(tw, "%s\t%s\n", inv.SlotOf(it.ID), name)
	}
	fmt.Fprintln(tw)

	var learned []string
	for _, e := range c.Abilities().Entries() {
		learned = append(learned, e.ID)
	}
	fmt.Fprintf(tw, "Abilities\t%s\n", strings.Join(learned, ", "))
	if h := c.Hash(); h != "" {
		fmt.Fprintf(tw, "Hash\t%s\n", h)
	}
	return tw.Flush()
}

func anchors(c *character.Character) string {
	var parts []string
	add := func(name string, lvl *int) {
		if lvl != nil {
			parts = append(parts, fmt.Sprintf("%s@%d", name, *lvl))
		}
	}
	add("sorcery", c.SorceryAnchor())
	add("double sorcery", c.DoubleSorceryAnchor())
	add("finesse", c.FinesseAnchor())
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}
