package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/inventory"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

type scores map[ruleset.Ability]int

func (s scores) EffectiveScore(a ruleset.Ability) int { return s[a] }

type sink struct {
	calls int
	last  inventory.Snapshot
}

func (s *sink) ApplyEquipment(snap inventory.Snapshot) {
	s.calls++
	s.last = snap
}

var strong = scores{ruleset.Strength: 16, ruleset.Dexterity: 14, ruleset.Intelligence: 10}

func intPtr(v int) *int { return &v }

func newTestRegistry(t *testing.T) *inventory.Registry {
	t.Helper()
	reg := inventory.NewRegistry()
	for _, tp := range []*inventory.Template{
		{
			ID: "longsword", Name: "Longsword", Kind: inventory.KindWeapon,
			Slots:        []inventory.Slot{inventory.SlotMainHand},
			Requirements: map[ruleset.Ability]int{ruleset.Strength: 11},
			Weapon:       &inventory.WeaponStats{DamageDice: "1d8", Ability: ruleset.Strength},
		},
		{
			ID: "greatsword", Name: "Greatsword", Kind: inventory.KindWeapon,
			Slots:         []inventory.Slot{inventory.SlotMainHand},
			ConflictsWith: []inventory.Slot{inventory.SlotOffHand, inventory.SlotShield},
			Requirements:  map[ruleset.Ability]int{ruleset.Strength: 14},
			Weapon:        &inventory.WeaponStats{DamageDice: "2d6"},
		},
		{
			ID: "dagger", Name: "Dagger", Kind: inventory.KindWeapon,
			Slots:  []inventory.Slot{inventory.SlotMainHand, inventory.SlotOffHand},
			Weapon: &inventory.WeaponStats{DamageDice: "1d4", Ability: ruleset.Dexterity, Finesse: true},
		},
		{
			ID: "shield", Name: "Shield", Kind: inventory.KindShield,
			Slots: []inventory.Slot{inventory.SlotShield},
			Armor: &inventory.ArmorStats{ACBonus: 2},
		},
		{
			ID: "chain", Name: "Chain Shirt", Kind: inventory.KindArmor,
			Slots: []inventory.Slot{inventory.SlotBody},
			Armor: &inventory.ArmorStats{ACBonus: 4, DexCap: intPtr(2)},
		},
		{
			ID: "ring", Name: "Ring of Intellect", Kind: inventory.KindAccessory,
			Slots:         []inventory.Slot{inventory.SlotLeftRing, inventory.SlotRightRing},
			StatModifiers: []inventory.StatModifier{{Stat: ruleset.Intelligence, Base: 1, PerEnchantment: 1}},
		},
		{
			ID: "amulet", Name: "Focus Amulet", Kind: inventory.KindAccessory,
			Slots: []inventory.Slot{inventory.SlotNeck},
			ResourceModifiers: []inventory.ResourceModifier{
				{Resource: ruleset.SorceryPoints, Base: 1, PerEnchantment: 1, MaxEnchantment: 2},
			},
		},
	} {
		require.NoError(t, reg.Register(tp))
	}
	return reg
}

func add(t *testing.T, m *inventory.Manager, templateID string, ench int) string {
	t.Helper()
	it, err := m.AddTemplate(templateID, ench)
	require.NoError(t, err)
	return it.ID
}

func TestManager_AddItem_AssignsID(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	it, err := m.AddItem(inventory.Item{TemplateID: "dagger"})
	require.NoError(t, err)
	assert.NotEmpty(t, it.ID)
	assert.Equal(t, inventory.Slot(""), m.SlotOf(it.ID))
	assert.Len(t, m.Items(), 1)
}

func TestManager_AddItem_UnknownTemplate(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	_, err := m.AddItem(inventory.Item{TemplateID: "vorpal"})
	assert.True(t, errors.Is(err, inventory.ErrUnknownTemplate))
}

func TestManager_AddItem_DuplicateID(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	_, err := m.AddItem(inventory.Item{ID: "x", TemplateID: "dagger"})
	require.NoError(t, err)
	_, err = m.AddItem(inventory.Item{ID: "x", TemplateID: "dagger"})
	assert.Error(t, err)
}

func TestManager_Equip_DefaultSlot(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	id := add(t, m, "longsword", 0)
	require.True(t, m.Equip(id, "", strong))
	assert.Equal(t, id, m.EquippedIn(inventory.SlotMainHand).ID)
}

func TestManager_Equip_RejectsDisallowedSlot(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	id := add(t, m, "longsword", 0)
	assert.False(t, m.Equip(id, inventory.SlotOffHand, strong))
	assert.Nil(t, m.EquippedIn(inventory.SlotOffHand))
}

func TestManager_Equip_RequirementsGate(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	id := add(t, m, "greatsword", 0)
	weak := scores{ruleset.Strength: 13}
	assert.False(t, m.CanEquip(id, weak))
	assert.False(t, m.Equip(id, "", weak))
	assert.False(t, m.Equip(id, "", nil))
	assert.True(t, m.CanEquip(id, strong))
	assert.True(t, m.Equip(id, "", strong))
}

func TestManager_Equip_TwoHandedVacatesOffHandAndShield(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	dagger := add(t, m, "dagger", 0)
	shield := add(t, m, "shield", 0)
	require.True(t, m.Equip(dagger, inventory.SlotOffHand, strong))
	require.True(t, m.Equip(shield, "", strong))

	gs := add(t, m, "greatsword", 0)
	require.True(t, m.Equip(gs, "", strong))

	assert.Nil(t, m.EquippedIn(inventory.SlotOffHand))
	assert.Nil(t, m.EquippedIn(inventory.SlotShield))
	assert.Equal(t, gs, m.EquippedIn(inventory.SlotMainHand).ID)
	_, stillHeld := m.Item(dagger)
	assert.True(t, stillHeld, "vacated items stay in the inventory")
}

func TestManager_Equip_OffHandVacatesTwoHander(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	gs := add(t, m, "greatsword", 0)
	require.True(t, m.Equip(gs, "", strong))
	dagger := add(t, m, "dagger", 0)
	require.True(t, m.Equip(dagger, inventory.SlotOffHand, strong))
	assert.Nil(t, m.EquippedIn(inventory.SlotMainHand))
}

func TestManager_Equip_ReplacesOccupant(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	a := add(t, m, "longsword", 0)
	b := add(t, m, "dagger", 0)
	require.True(t, m.Equip(a, "", strong))
	require.True(t, m.Equip(b, inventory.SlotMainHand, strong))
	assert.Equal(t, inventory.Slot(""), m.SlotOf(a))
	assert.Equal(t, inventory.SlotMainHand, m.SlotOf(b))
}

func TestManager_Equip_MovesBetweenSlots(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	id := add(t, m, "dagger", 0)
	require.True(t, m.Equip(id, inventory.SlotMainHand, strong))
	require.True(t, m.Equip(id, inventory.SlotOffHand, strong))
	assert.Nil(t, m.EquippedIn(inventory.SlotMainHand))
	assert.Equal(t, id, m.EquippedIn(inventory.SlotOffHand).ID)
}

func TestManager_UnequipAndRemove(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	id := add(t, m, "ring", 1)
	require.True(t, m.Equip(id, inventory.SlotRightRing, strong))
	assert.True(t, m.Unequip(id))
	assert.False(t, m.Unequip(id))
	require.True(t, m.Equip(id, "", strong))
	assert.True(t, m.UnequipSlot(inventory.SlotLeftRing))
	assert.False(t, m.UnequipSlot(inventory.SlotLeftRing))
	require.True(t, m.Equip(id, "", strong))
	assert.True(t, m.RemoveItem(id))
	assert.False(t, m.RemoveItem(id))
	assert.Nil(t, m.EquippedIn(inventory.SlotLeftRing))
	assert.Empty(t, m.Items())
}

func TestManager_EquippedWeapon(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	shield := add(t, m, "shield", 0)
	require.True(t, m.Equip(shield, "", strong))
	it, tp := m.EquippedWeapon(inventory.SlotShield)
	assert.Nil(t, it)
	assert.Nil(t, tp)

	dagger := add(t, m, "dagger", 0)
	require.True(t, m.Equip(dagger, inventory.SlotOffHand, strong))
	it, tp = m.EquippedWeapon(inventory.SlotOffHand)
	require.NotNil(t, it)
	assert.Equal(t, "dagger", tp.ID)
}

func TestManager_BonusAggregation(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	left := add(t, m, "ring", 2)
	right := add(t, m, "ring", -1)
	amulet := add(t, m, "amulet", -2)
	require.True(t, m.Equip(left, inventory.SlotLeftRing, strong))
	require.True(t, m.Equip(right, inventory.SlotRightRing, strong))
	require.True(t, m.Equip(amulet, "", strong))

	assert.Equal(t, 3+0, m.StatBonuses()[ruleset.Intelligence])
	assert.Equal(t, 1, m.ResourceBonuses()[ruleset.SorceryPoints], "cursed amulet floors at base")
}

func TestManager_CustomBonusesStack(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	it, err := m.AddItem(inventory.Item{
		TemplateID:      "ring",
		StatBonuses:     map[ruleset.Ability]int{ruleset.Strength: 1},
		ResourceBonuses: map[ruleset.Resource]int{ruleset.FinessePoints: 2},
	})
	require.NoError(t, err)
	require.True(t, m.Equip(it.ID, "", strong))
	assert.Equal(t, 1, m.StatBonuses()[ruleset.Strength])
	assert.Equal(t, 1, m.StatBonuses()[ruleset.Intelligence])
	assert.Equal(t, 2, m.ResourceBonuses()[ruleset.FinessePoints])
}

func TestManager_EquippedItems_CanonicalOrder(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	ring := add(t, m, "ring", 0)
	chain := add(t, m, "chain", 0)
	dagger := add(t, m, "dagger", 0)
	sword := add(t, m, "longsword", 0)
	require.True(t, m.Equip(ring, inventory.SlotRightRing, strong))
	require.True(t, m.Equip(chain, "", strong))
	require.True(t, m.Equip(dagger, inventory.SlotOffHand, strong))
	require.True(t, m.Equip(sword, "", strong))

	var got []string
	for _, it := range m.EquippedItems() {
		got = append(got, it.ID)
	}
	assert.Equal(t, []string{sword, dagger, chain, ring}, got)

	require.True(t, m.Unequip(dagger))
	got = got[:0]
	for _, it := range m.EquippedItems() {
		got = append(got, it.ID)
	}
	assert.Equal(t, []string{sword, chain, ring}, got)
}

// pinned reports an overridden score for every ability it holds.
type pinned struct{ scores }

func (p pinned) Override(a ruleset.Ability) (int, bool) {
	v, ok := p.scores[a]
	return v, ok
}

func TestManager_CanEquip_IgnoresOwnSyncedBonus(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	it, err := m.AddItem(inventory.Item{
		TemplateID:  "longsword",
		StatBonuses: map[ruleset.Ability]int{ruleset.Strength: 2},
	})
	require.NoError(t, err)
	require.True(t, m.Equip(it.ID, "", scores{ruleset.Strength: 11}))

	// Not synced yet: the reader does not carry the sword's bonus.
	assert.True(t, m.CanEquip(it.ID, scores{ruleset.Strength: 11}))

	m.SyncTo(&sink{})
	// Base 9 plus the sword's +2 must not satisfy its own STR 11.
	assert.False(t, m.CanEquip(it.ID, scores{ruleset.Strength: 11}))
	assert.False(t, m.Equip(it.ID, inventory.SlotMainHand, scores{ruleset.Strength: 11}))
	assert.Equal(t, inventory.SlotMainHand, m.SlotOf(it.ID))
	assert.True(t, m.CanEquip(it.ID, scores{ruleset.Strength: 13}))
	assert.True(t, m.Equip(it.ID, inventory.SlotMainHand, scores{ruleset.Strength: 13}))

	// A pinned score already accounts for everything.
	assert.True(t, m.CanEquip(it.ID, pinned{scores{ruleset.Strength: 11}}))

	// Unequipped but not synced: the reader still carries the bonus.
	require.True(t, m.Unequip(it.ID))
	assert.False(t, m.CanEquip(it.ID, scores{ruleset.Strength: 11}))

	m.SyncTo(&sink{})
	assert.True(t, m.CanEquip(it.ID, scores{ruleset.Strength: 11}))
}

func TestManager_Restore_TreatsEquippedAsSynced(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	it, err := m.AddItem(inventory.Item{
		TemplateID:  "longsword",
		StatBonuses: map[ruleset.Ability]int{ruleset.Strength: 2},
	})
	require.NoError(t, err)
	require.True(t, m.Equip(it.ID, "", strong))

	restored := inventory.NewManager(newTestRegistry(t), nil)
	require.NoError(t, restored.Restore(m.State()))
	assert.False(t, restored.CanEquip(it.ID, scores{ruleset.Strength: 12}))
	assert.True(t, restored.CanEquip(it.ID, scores{ruleset.Strength: 13}))
}

func TestManager_SyncTo(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	sword := add(t, m, "longsword", 2)
	dagger := add(t, m, "dagger", 0)
	chain := add(t, m, "chain", 1)
	require.True(t, m.Equip(sword, "", strong))
	require.True(t, m.Equip(dagger, inventory.SlotOffHand, strong))
	require.True(t, m.Equip(chain, "", strong))

	var s sink
	m.SyncTo(&s)
	require.Equal(t, 1, s.calls)
	require.NotNil(t, s.last.MainHand)
	require.NotNil(t, s.last.OffHand)
	assert.Equal(t, 2, s.last.MainHand.Enchantment)
	assert.Equal(t, ruleset.Dexterity, s.last.OffHand.Ability)
	require.Len(t, s.last.Armor, 1)
	assert.Equal(t, 5, s.last.Armor[0].ACBonus)

	def := s.last.ComputedDefenses(4)
	assert.Equal(t, 5, def.ACBonus)
	assert.Equal(t, 2, def.EffectiveDex)
}

func TestManager_Snapshot_DefaultWeaponAbility(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	gs := add(t, m, "greatsword", 0)
	require.True(t, m.Equip(gs, "", strong))
	snap := m.Snapshot()
	require.NotNil(t, snap.MainHand)
	assert.Equal(t, ruleset.Strength, snap.MainHand.Ability)
	assert.True(t, snap.MainHand.TwoHanded)
}

func TestManager_StateRestore(t *testing.T) {
	reg := newTestRegistry(t)
	m := inventory.NewManager(reg, nil)
	sword := add(t, m, "longsword", 1)
	add(t, m, "ring", 0)
	require.True(t, m.Equip(sword, "", strong))

	st := m.State()
	other := inventory.NewManager(reg, nil)
	require.NoError(t, other.Restore(st))
	assert.Equal(t, st, other.State())
	assert.Equal(t, sword, other.EquippedIn(inventory.SlotMainHand).ID)
}

func TestManager_Restore_SkipsBadEntries(t *testing.T) {
	m := inventory.NewManager(newTestRegistry(t), nil)
	err := m.Restore(inventory.State{
		Items: []inventory.Item{
			{ID: "a", TemplateID: "longsword"},
			{ID: "b", TemplateID: "vorpal"},
			{TemplateID: "dagger"},
		},
		Equipped: map[inventory.Slot]string{
			inventory.SlotMainHand: "a",
			inventory.SlotOffHand:  "ghost",
		},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, inventory.ErrUnknownItem))
	assert.True(t, errors.Is(err, inventory.ErrUnknownTemplate))
	require.Len(t, m.Items(), 1)
	assert.Equal(t, "a", m.EquippedIn(inventory.SlotMainHand).ID)
}

func TestProperty_Manager_NoConflictingOccupancy(t *testing.T) {
	ids := []string{"longsword", "greatsword", "dagger", "shield", "chain", "ring", "amulet"}
	slots := append([]inventory.Slot{""}, inventory.Slots()...)
	rapid.Check(t, func(rt *rapid.T) {
		reg := newTestRegistry(t)
		m := inventory.NewManager(reg, nil)
		for i := 0; i < 12; i++ {
			it, err := m.AddTemplate(rapid.SampledFrom(ids).Draw(rt, "template"), 0)
			if err != nil {
				rt.Fatal(err)
			}
			m.Equip(it.ID, rapid.SampledFrom(slots).Draw(rt, "slot"), strong)
		}
		seen := map[string]bool{}
		for _, slot := range inventory.Slots() {
			it := m.EquippedIn(slot)
			if it == nil {
				continue
			}
			if seen[it.ID] {
				rt.Fatalf("item %s equipped twice", it.ID)
			}
			seen[it.ID] = true
			tp, _ := reg.Template(it.TemplateID)
			if !tp.Fits(slot) {
				rt.Fatalf("%s in disallowed slot %s", tp.ID, slot)
			}
			for _, c := range tp.ConflictsWith {
				if m.EquippedIn(c) != nil {
					rt.Fatalf("%s equipped alongside conflicting slot %s", tp.ID, c)
				}
			}
		}
	})
}
