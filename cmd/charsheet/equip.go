package main

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cory-johannsen/charsheet/internal/game/inventory"
)

// equipChoice is one parsed --equip value of the form template[@slot][+N|-N].
type equipChoice struct {
	Template    string
	Slot        inventory.Slot
	Enchantment int
}

// enchantmentSuffix matches a trailing signed number; hyphens elsewhere
// belong to the template ID or slot.
var enchantmentSuffix = regexp.MustCompile(`^(.*?)([+-]\d+)$`)

func parseEquip(s string) (equipChoice, error) {
	var choice equipChoice
	rest := strings.TrimSpace(s)
	if m := enchantmentSuffix.FindStringSubmatch(rest); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return equipChoice{}, fmt.Errorf("equip %q: bad enchantment: %w", s, err)
		}
		choice.Enchantment = n
		rest = m[1]
	} else if strings.Contains(rest, "+") {
		return equipChoice{}, fmt.Errorf("equip %q: bad enchantment", s)
	}
	if tmpl, slot, ok := strings.Cut(rest, "@"); ok {
		choice.Slot = inventory.Slot(slot)
		if !choice.Slot.Valid() {
			return equipChoice{}, fmt.Errorf("equip %q: unknown slot %q", s, slot)
		}
		rest = tmpl
	}
	if rest == "" {
		return equipChoice{}, fmt.Errorf("equip %q: missing template", s)
	}
	choice.Template = rest
	return choice, nil
}
