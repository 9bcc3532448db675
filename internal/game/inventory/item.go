package inventory

import (
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// Item is a concrete piece of equipment owned by one character.
// Equipped state is owned by the Manager; Item never records its slot.
type Item struct {
	// ID uniquely identifies this instance within its inventory.
	ID string `json:"id"`
	// TemplateID references the catalog Template this item is built from.
	TemplateID string `json:"template_id"`
	// Name overrides the template name when non-empty.
	Name string `json:"name,omitempty"`
	// Enchantment is a signed level; negative means cursed.
	Enchantment int `json:"enchantment"`
	// StatBonuses are per-instance bonuses added on top of the template's modifiers.
	StatBonuses map[ruleset.Ability]int `json:"stat_bonuses,omitempty"`
	// ResourceBonuses are per-instance resource bonuses added on top of the template's modifiers.
	ResourceBonuses map[ruleset.Resource]int `json:"resource_bonuses,omitempty"`
	Notes           string                   `json:"notes,omitempty"`
}

// DisplayName returns the instance name, falling back to the template name.
func (i *Item) DisplayName(t *Template) string {
	if i.Name != "" {
		return i.Name
	}
	if t != nil {
		return t.Name
	}
	return i.TemplateID
}

// Cursed reports whether the item carries a negative enchantment.
func (i *Item) Cursed() bool { return i.Enchantment < 0 }

// statBonuses returns this item's total stat contribution under template t.
func (i *Item) statBonuses(t *Template) map[ruleset.Ability]int {
	out := make(map[ruleset.Ability]int)
	for _, m := range t.StatModifiers {
		out[m.Stat] += m.Value(i.Enchantment)
	}
	for a, v := range i.StatBonuses {
		out[a] += v
	}
	return out
}

// resourceBonuses returns this item's total resource contribution under template t.
func (i *Item) resourceBonuses(t *Template) map[ruleset.Resource]int {
	out := make(map[ruleset.Resource]int)
	for _, m := range t.ResourceModifiers {
		out[m.Resource] += m.Value(i.Enchantment)
	}
	for r, v := range i.ResourceBonuses {
		out[r] += v
	}
	return out
}

func (i *Item) clone() *Item {
	c := *i
	if i.StatBonuses != nil {
		c.StatBonuses = make(map[ruleset.Ability]int, len(i.StatBonuses))
		for k, v := range i.StatBonuses {
			c.StatBonuses[k] = v
		}
	}
	if i.ResourceBonuses != nil {
		c.ResourceBonuses = make(map[ruleset.Resource]int, len(i.ResourceBonuses))
		for k, v := range i.ResourceBonuses {
			c.ResourceBonuses[k] = v
		}
	}
	return &c
}
