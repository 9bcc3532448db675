package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// ErrUnknownItem is returned when an operation references an item ID not held by the manager.
var ErrUnknownItem = errors.New("inventory: unknown item")

// StatReader exposes the effective ability scores used for equip requirements.
type StatReader interface {
	EffectiveScore(ability ruleset.Ability) int
}

// Receiver accepts the equipped-state snapshot produced by Manager.SyncTo.
type Receiver interface {
	ApplyEquipment(s Snapshot)
}

// Manager owns one character's item instances and slot occupancy.
// Changes are not visible to the character until SyncTo is called.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	reg    *Registry
	logger *zap.Logger
	order  []string
	items  map[string]*Item
	slots  map[Slot]string
	// synced holds the IDs equipped at the last SyncTo; their bonuses are
	// already part of the character's scores.
	synced map[string]bool
}

// NewManager returns an empty Manager backed by reg.
//
// Precondition: reg must not be nil.
// Postcondition: the manager holds no items and every slot is empty.
func NewManager(reg *Registry, logger *zap.Logger) *Manager {
	if reg == nil {
		panic("inventory.NewManager: registry must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		reg:    reg,
		logger: logger,
		items:  make(map[string]*Item),
		slots:  make(map[Slot]string),
		synced: make(map[string]bool),
	}
}

// Registry returns the catalog backing this manager.
func (m *Manager) Registry() *Registry { return m.reg }

// AddItem inserts a copy of item, unequipped. An empty ID is replaced with a
// fresh UUID.
//
// Precondition: item.TemplateID must be registered.
// Postcondition: on success the returned item is held by the manager and not equipped.
func (m *Manager) AddItem(item Item) (*Item, error) {
	if _, ok := m.reg.Template(item.TemplateID); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, item.TemplateID)
	}
	stored := item.clone()
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if _, exists := m.items[stored.ID]; exists {
		return nil, fmt.Errorf("inventory: item ID %q already present", stored.ID)
	}
	m.items[stored.ID] = stored
	m.order = append(m.order, stored.ID)
	m.logger.Debug("item added",
		zap.String("item_id", stored.ID),
		zap.String("template_id", stored.TemplateID),
		zap.Int("enchantment", stored.Enchantment),
	)
	return stored, nil
}

// AddTemplate creates a new instance of templateID at the given enchantment and adds it.
func (m *Manager) AddTemplate(templateID string, enchantment int) (*Item, error) {
	return m.AddItem(Item{TemplateID: templateID, Enchantment: enchantment})
}

// RemoveItem unequips (if needed) and deletes the item.
//
// Postcondition: returns false iff id is not held.
func (m *Manager) RemoveItem(id string) bool {
	if _, ok := m.items[id]; !ok {
		return false
	}
	m.Unequip(id)
	delete(m.items, id)
	delete(m.synced, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Item returns the held item with the given id.
func (m *Manager) Item(id string) (*Item, bool) {
	it, ok := m.items[id]
	return it, ok
}

// Items returns every held item in insertion order.
func (m *Manager) Items() []*Item {
	out := make([]*Item, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id])
	}
	return out
}

// SlotOf returns the slot the item occupies, or "" when unequipped.
func (m *Manager) SlotOf(id string) Slot {
	for slot, held := range m.slots {
		if held == id {
			return slot
		}
	}
	return ""
}

// CanEquip reports whether every requirement of the item's template is
// satisfied by stats. When the item was equipped at the last SyncTo, its own
// stat bonuses are taken out of stats first.
func (m *Manager) CanEquip(id string, stats StatReader) bool {
	it, ok := m.items[id]
	if !ok {
		return false
	}
	t, ok := m.reg.Template(it.TemplateID)
	if !ok {
		return false
	}
	return t.MeetsRequirements(m.requirementStats(it, t, stats))
}

// overrider is implemented by stat readers whose scores can be pinned.
type overrider interface {
	Override(a ruleset.Ability) (int, bool)
}

// withoutItem hides one item's stat contribution from a StatReader.
// Pinned scores are returned unchanged.
type withoutItem struct {
	stats StatReader
	own   map[ruleset.Ability]int
}

func (w withoutItem) EffectiveScore(a ruleset.Ability) int {
	if o, ok := w.stats.(overrider); ok {
		if _, pinned := o.Override(a); pinned {
			return w.stats.EffectiveScore(a)
		}
	}
	return w.stats.EffectiveScore(a) - w.own[a]
}

func (m *Manager) requirementStats(it *Item, t *Template, stats StatReader) StatReader {
	if stats == nil || !m.synced[it.ID] {
		return stats
	}
	return withoutItem{stats: stats, own: it.statBonuses(t)}
}

// Equip places the item in slot, or in the template's default slot when slot
// is empty. Slots named in the template's conflicts set are vacated, as is any
// equipped item whose own conflicts set names the target slot. An item already
// in the target slot is unequipped.
//
// Postcondition: returns true iff the item now occupies the target slot.
func (m *Manager) Equip(id string, slot Slot, stats StatReader) bool {
	it, ok := m.items[id]
	if !ok {
		return false
	}
	t, ok := m.reg.Template(it.TemplateID)
	if !ok {
		return false
	}
	if slot == "" {
		slot = t.DefaultSlot()
	}
	if !t.Fits(slot) {
		m.logger.Debug("equip rejected: slot not allowed",
			zap.String("item_id", id), zap.String("slot", string(slot)))
		return false
	}
	if !t.MeetsRequirements(m.requirementStats(it, t, stats)) {
		m.logger.Debug("equip rejected: requirements not met",
			zap.String("item_id", id), zap.String("template_id", t.ID))
		return false
	}

	m.Unequip(id)
	m.UnequipSlot(slot)
	for _, c := range t.ConflictsWith {
		m.UnequipSlot(c)
	}
	for occupied, heldID := range m.slots {
		held := m.items[heldID]
		if ht, ok := m.reg.Template(held.TemplateID); ok && ht.ConflictsWithSlot(slot) {
			m.UnequipSlot(occupied)
		}
	}
	m.slots[slot] = id
	m.logger.Debug("item equipped",
		zap.String("item_id", id),
		zap.String("template_id", t.ID),
		zap.String("slot", string(slot)),
	)
	return true
}

// Unequip clears whatever slot the item occupies.
//
// Postcondition: returns true iff the item was equipped.
func (m *Manager) Unequip(id string) bool {
	slot := m.SlotOf(id)
	if slot == "" {
		return false
	}
	return m.UnequipSlot(slot)
}

// UnequipSlot clears slot.
//
// Postcondition: returns true iff the slot was occupied.
func (m *Manager) UnequipSlot(slot Slot) bool {
	id, ok := m.slots[slot]
	if !ok {
		return false
	}
	delete(m.slots, slot)
	m.logger.Debug("item unequipped", zap.String("item_id", id), zap.String("slot", string(slot)))
	return true
}

// EquippedIn returns the item in slot, or nil when the slot is empty.
func (m *Manager) EquippedIn(slot Slot) *Item {
	id, ok := m.slots[slot]
	if !ok {
		return nil
	}
	return m.items[id]
}

// EquippedWeapon returns the item in slot when its template is a weapon.
func (m *Manager) EquippedWeapon(slot Slot) (*Item, *Template) {
	it := m.EquippedIn(slot)
	if it == nil {
		return nil, nil
	}
	t, ok := m.reg.Template(it.TemplateID)
	if !ok || t.Kind != KindWeapon || t.Weapon == nil {
		return nil, nil
	}
	return it, t
}

// EquippedItems returns the equipped items in canonical slot order.
func (m *Manager) EquippedItems() []*Item {
	var out []*Item
	for _, slot := range slotOrder {
		if it := m.EquippedIn(slot); it != nil {
			out = append(out, it)
		}
	}
	return out
}

// StatBonuses sums stat contributions across every equipped item.
func (m *Manager) StatBonuses() map[ruleset.Ability]int {
	out := make(map[ruleset.Ability]int)
	m.eachEquipped(func(_ Slot, it *Item, t *Template) {
		for a, v := range it.statBonuses(t) {
			out[a] += v
		}
	})
	return out
}

// ResourceBonuses sums resource contributions across every equipped item.
//
// Postcondition: no equipped item contributes less than its template base.
func (m *Manager) ResourceBonuses() map[ruleset.Resource]int {
	out := make(map[ruleset.Resource]int)
	m.eachEquipped(func(_ Slot, it *Item, t *Template) {
		for r, v := range it.resourceBonuses(t) {
			out[r] += v
		}
	})
	return out
}

func (m *Manager) eachEquipped(fn func(Slot, *Item, *Template)) {
	for _, slot := range slotOrder {
		it := m.EquippedIn(slot)
		if it == nil {
			continue
		}
		t, ok := m.reg.Template(it.TemplateID)
		if !ok {
			continue
		}
		fn(slot, it, t)
	}
}
