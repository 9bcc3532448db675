package inventory

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// WeaponProfile is the combat-relevant view of an equipped weapon.
type WeaponProfile struct {
	ItemID      string          `json:"item_id"`
	Name        string          `json:"name"`
	Slot        Slot            `json:"slot"`
	DamageDice  string          `json:"damage_dice"`
	DamageType  string          `json:"damage_type,omitempty"`
	Ability     ruleset.Ability `json:"ability"`
	Finesse     bool            `json:"finesse,omitempty"`
	AttackBonus int             `json:"attack_bonus,omitempty"`
	DamageBonus int             `json:"damage_bonus,omitempty"`
	Enchantment int             `json:"enchantment,omitempty"` // clamped to the template cap
	TwoHanded   bool            `json:"two_handed,omitempty"`
}

// Snapshot is the equipped state handed to a character by SyncTo.
type Snapshot struct {
	MainHand        *WeaponProfile           `json:"main_hand,omitempty"`
	OffHand         *WeaponProfile           `json:"off_hand,omitempty"`
	Armor           []ArmorPiece             `json:"armor,omitempty"`
	StatBonuses     map[ruleset.Ability]int  `json:"stat_bonuses,omitempty"`
	ResourceBonuses map[ruleset.Resource]int `json:"resource_bonuses,omitempty"`
}

// Snapshot builds the current equipped state. Empty bonus maps are nil.
func (m *Manager) Snapshot() Snapshot {
	var s Snapshot
	if b := m.StatBonuses(); len(b) > 0 {
		s.StatBonuses = b
	}
	if b := m.ResourceBonuses(); len(b) > 0 {
		s.ResourceBonuses = b
	}
	m.eachEquipped(func(slot Slot, it *Item, t *Template) {
		if t.Armor != nil {
			s.Armor = append(s.Armor, ArmorPiece{
				ItemID:  it.ID,
				Name:    it.DisplayName(t),
				Slot:    slot,
				ACBonus: t.Armor.ACBonus + t.EffectiveEnchantment(it.Enchantment),
				DexCap:  t.Armor.DexCap,
			})
		}
	})
	if it, t := m.EquippedWeapon(SlotMainHand); it != nil {
		s.MainHand = weaponProfile(SlotMainHand, it, t)
	}
	if it, t := m.EquippedWeapon(SlotOffHand); it != nil {
		s.OffHand = weaponProfile(SlotOffHand, it, t)
	}
	return s
}

// SyncTo pushes the current equipped state to r.
//
// Precondition: r must not be nil.
func (m *Manager) SyncTo(r Receiver) {
	r.ApplyEquipment(m.Snapshot())
	m.markSynced()
}

func (m *Manager) markSynced() {
	clear(m.synced)
	for _, id := range m.slots {
		m.synced[id] = true
	}
}

func weaponProfile(slot Slot, it *Item, t *Template) *WeaponProfile {
	ability := t.Weapon.Ability
	if ability == "" {
		ability = ruleset.Strength
	}
	return &WeaponProfile{
		ItemID:      it.ID,
		Name:        it.DisplayName(t),
		Slot:        slot,
		DamageDice:  t.Weapon.DamageDice,
		DamageType:  t.Weapon.DamageType,
		Ability:     ability,
		Finesse:     t.Weapon.Finesse,
		AttackBonus: t.Weapon.AttackBonus,
		DamageBonus: t.Weapon.DamageBonus,
		Enchantment: t.EffectiveEnchantment(it.Enchantment),
		TwoHanded:   t.IsTwoHanded(),
	}
}

// State is the persisted form of a Manager.
type State struct {
	Items    []Item          `json:"items"`
	Equipped map[Slot]string `json:"equipped,omitempty"`
}

// State returns a deep copy of the manager's items and slot occupancy.
func (m *Manager) State() State {
	st := State{Items: make([]Item, 0, len(m.order))}
	for _, id := range m.order {
		st.Items = append(st.Items, *m.items[id].clone())
	}
	if len(m.slots) > 0 {
		st.Equipped = make(map[Slot]string, len(m.slots))
		for slot, id := range m.slots {
			st.Equipped[slot] = id
		}
	}
	return st
}

// Restore replaces the manager's contents with st. Requirements are not
// re-checked; restored equipment is taken as already validated and synced.
// Entries that cannot be restored are skipped and reported in the returned
// error; every valid entry is still loaded.
func (m *Manager) Restore(st State) error {
	m.order = nil
	m.items = make(map[string]*Item)
	m.slots = make(map[Slot]string)
	var errs []error
	for _, it := range st.Items {
		if it.ID == "" {
			errs = append(errs, fmt.Errorf("item with template %q has no ID", it.TemplateID))
			continue
		}
		if _, err := m.AddItem(it); err != nil {
			errs = append(errs, err)
		}
	}
	for _, slot := range slotOrder {
		id, ok := st.Equipped[slot]
		if !ok {
			continue
		}
		it, ok := m.items[id]
		if !ok {
			errs = append(errs, fmt.Errorf("slot %s: %w: %q", slot, ErrUnknownItem, id))
			continue
		}
		t, _ := m.reg.Template(it.TemplateID)
		if !t.Fits(slot) || m.SlotOf(id) != "" {
			errs = append(errs, fmt.Errorf("item %q cannot occupy slot %q", id, slot))
			continue
		}
		m.slots[slot] = id
	}
	m.markSynced()
	for slot := range st.Equipped {
		if !slot.Valid() {
			errs = append(errs, fmt.Errorf("unknown slot %q", slot))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("inventory: Restore: %w", errors.Join(errs...))
	}
	return nil
}
