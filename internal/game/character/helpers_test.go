package character_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/dice"
	"github.com/cory-johannsen/charsheet/internal/game/inventory"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// maxSource always rolls the highest face.
type maxSource struct{}

func (maxSource) Intn(n int) int { return n - 1 }

var fixedNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

var (
	plainRace = &ruleset.Race{ID: "plain", Name: "Plain"}
	elf       = &ruleset.Race{
		ID: "elf", Name: "Elf",
		Modifiers:     map[ruleset.Ability]int{ruleset.Dexterity: 2},
		RacialAbility: "keen_senses",
	}
	warrior = &ruleset.Archetype{ID: "warrior", Name: "Warrior", HitDie: "1d10"}
)

func testItems(t *testing.T) *inventory.Registry {
	t.Helper()
	reg := inventory.NewRegistry()
	for _, tp := range []*inventory.Template{
		{
			ID: "ring", Name: "Ring of Intellect", Kind: inventory.KindAccessory,
			Slots:         []inventory.Slot{inventory.SlotLeftRing, inventory.SlotRightRing},
			StatModifiers: []inventory.StatModifier{{Stat: ruleset.Intelligence, Base: 1, PerEnchantment: 1}},
		},
		{
			ID: "gauntlets", Name: "Gauntlets of Might", Kind: inventory.KindAccessory,
			Slots:         []inventory.Slot{inventory.SlotHands},
			StatModifiers: []inventory.StatModifier{{Stat: ruleset.Strength, Base: 2}},
		},
		{
			ID: "amulet", Name: "Focus Amulet", Kind: inventory.KindAccessory,
			Slots: []inventory.Slot{inventory.SlotNeck},
			ResourceModifiers: []inventory.ResourceModifier{
				{Resource: ruleset.SorceryPoints, Base: 1, PerEnchantment: 1},
			},
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
			Weapon: &inventory.WeaponStats{DamageDice: "1d4", Ability: ruleset.Dexterity},
		},
	} {
		require.NoError(t, reg.Register(tp))
	}
	return reg
}

func testAbilities(t *testing.T) *ability.Catalog {
	t.Helper()
	c := ability.NewCatalog()
	require.NoError(t, c.Register(&ability.Template{Name: "keen_senses", Type: ability.TypeRacial}))
	require.NoError(t, c.Register(&ability.Template{Name: "alert", Type: ability.TypeFeat}))
	return c
}

func testRules(t *testing.T) *ruleset.Registry {
	t.Helper()
	r := ruleset.NewRegistry()
	require.NoError(t, r.RegisterRace(plainRace))
	require.NoError(t, r.RegisterRace(elf))
	require.NoError(t, r.RegisterArchetype(warrior))
	return r
}

func config(t *testing.T, race *ruleset.Race, high, mid ruleset.Ability) character.Config {
	t.Helper()
	return character.Config{
		Name:      "Vex",
		Race:      race,
		Archetype: warrior,
		High:      high,
		Mid:       mid,
		Rules:     testRules(t),
		Items:     testItems(t),
		Abilities: testAbilities(t),
		Roller:    dice.NewLoggedRoller(maxSource{}, nil),
		Now:       func() time.Time { return fixedNow },
	}
}

func newChar(t *testing.T, high, mid ruleset.Ability) *character.Character {
	t.Helper()
	c, err := character.New(config(t, plainRace, high, mid))
	require.NoError(t, err)
	return c
}

// equip adds templateID to c's inventory and equips it in its default slot.
func equip(t *testing.T, c *character.Character, templateID string, enchantment int) string {
	t.Helper()
	it, err := c.Inventory().AddTemplate(templateID, enchantment)
	require.NoError(t, err)
	require.True(t, c.Inventory().Equip(it.ID, "", c))
	return it.ID
}
