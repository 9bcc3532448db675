package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/config"
	"github.com/cory-johannsen/charsheet/internal/game/dice"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

func setupEnv(t *testing.T) catalogs {
	t.Helper()
	prev := dice.CurrentMode()
	dice.SetMode(dice.ModeAverage)
	t.Cleanup(func() { dice.SetMode(prev) })

	env.logger = zap.NewNop()
	env.cfg = config.Config{
		Rules: config.RulesConfig{DiceMode: "average", DiceSeed: 1},
		Content: config.ContentConfig{
			Races:      "../../content/races",
			Archetypes: "../../content/archetypes",
			Items:      "../../content/items",
			Abilities:  "../../content/abilities",
		},
	}
	cat, err := loadCatalogs(env.cfg.Content)
	require.NoError(t, err)
	return cat
}

func TestBuildCharacter_LevelsAndEquips(t *testing.T) {
	cat := setupEnv(t)
	sheetOpts.name = "Ara"
	sheetOpts.race = "elf"
	sheetOpts.archetype = "warrior"
	sheetOpts.high = "str"
	sheetOpts.mid = "int"
	sheetOpts.levelTo = 3
	sheetOpts.levelWith = ""
	sheetOpts.equip = []string{"longsword+1", "chain_shirt"}

	c, err := buildCharacter(cat)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Level())
	assert.Equal(t, 20, c.Score(ruleset.Strength))
	require.NotNil(t, c.Equipment().MainHand)
	assert.Equal(t, 1, c.Equipment().MainHand.Enchantment)

	var buf bytes.Buffer
	require.NoError(t, printSheet(&buf, c))
	out := buf.String()
	assert.Contains(t, out, "Elf Warrior")
	assert.Contains(t, out, "main hand (Longsword)")
	assert.Contains(t, out, "racial:keen_senses")
	assert.Contains(t, out, "Armor class")
}

func TestPrintSheet_ListsEquipmentAndSaveTime(t *testing.T) {
	cat := setupEnv(t)
	sheetOpts.name = "Mira"
	sheetOpts.race = "human"
	sheetOpts.archetype = "arcanist"
	sheetOpts.high = "int"
	sheetOpts.mid = "dex"
	sheetOpts.levelTo = 1
	sheetOpts.levelWith = ""
	sheetOpts.equip = []string{"dagger", "ring_of_intellect@right_ring-1"}

	c, err := buildCharacter(cat)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printSheet(&buf, c))
	out := buf.String()
	assert.Contains(t, out, "Ring of Intellect -1 (cursed)")
	assert.NotContains(t, out, "Dagger (cursed)")
	assert.NotContains(t, out, "Saved")

	c.ToRecord()
	buf.Reset()
	require.NoError(t, printSheet(&buf, c))
	assert.Contains(t, buf.String(), "Saved")
}

func TestBuildCharacter_RejectsUnknownRace(t *testing.T) {
	cat := setupEnv(t)
	sheetOpts.name = "Bo"
	sheetOpts.race = "dragon"
	sheetOpts.equip = nil
	_, err := buildCharacter(cat)
	assert.Error(t, err)
}

func TestBuildCharacter_RejectsUnmetRequirement(t *testing.T) {
	cat := setupEnv(t)
	sheetOpts.name = "Wisp"
	sheetOpts.race = "human"
	sheetOpts.archetype = "arcanist"
	sheetOpts.high = "int"
	sheetOpts.mid = "dex"
	sheetOpts.levelTo = 1
	sheetOpts.levelWith = ""
	sheetOpts.equip = []string{"greatsword"}
	_, err := buildCharacter(cat)
	assert.Error(t, err)
}

func TestRollCommand_Average(t *testing.T) {
	setupEnv(t)
	var buf bytes.Buffer
	rollCmd.SetOut(&buf)
	rollAverage = true
	t.Cleanup(func() { rollAverage = false })

	require.NoError(t, rollCmd.RunE(rollCmd, []string{"2d6+3"}))
	assert.Contains(t, buf.String(), "= 10 (avg)")
}
