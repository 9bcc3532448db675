package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/ability"
	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/inventory"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/storage/postgres"
	"github.com/cory-johannsen/charsheet/internal/testutil"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func setupRepo(t *testing.T) *postgres.CharacterRepository {
	t.Helper()
	return postgres.NewCharacterRepository(testutil.NewPool(t), nil)
}

func makeRecord(name string, level int) character.Record {
	sorcery := 3
	rec := character.Record{
		Name:      name,
		Level:     level,
		Race:      "elf",
		Archetype: "warrior",
		Roles: map[ruleset.Ability]character.Role{
			ruleset.Intelligence: character.RoleHigh,
			ruleset.Strength:     character.RoleMid,
			ruleset.Dexterity:    character.RoleLow,
		},
		Scores: map[ruleset.Ability]int{
			ruleset.Strength: 10, ruleset.Dexterity: 6, ruleset.Intelligence: 18,
		},
		HitPoints:    14,
		MaxHitPoints: 18,
		Resources: map[ruleset.Resource]character.Pool{
			ruleset.SorceryPoints: {Current: 2, Max: 4},
		},
		Anchors:   character.Anchors{Sorcery: &sorcery},
		Abilities: []ability.Entry{{ID: "racial:keen_senses", Name: "keen_senses", Type: ability.TypeRacial, Level: 1}},
		Inventory: inventory.State{
			Items:    []inventory.Item{{ID: "item-1", TemplateID: "longsword", Enchantment: 1}},
			Equipped: map[inventory.Slot]string{inventory.SlotMainHand: "item-1"},
		},
		SavedAt: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
	}
	rec.Hash = rec.ComputeHash()
	return rec
}

func TestCharacterRepository_SaveLoad(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	rec := makeRecord(uniqueName("Zara"), 4)
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Load(ctx, rec.Name)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.True(t, got.Verify())
}

func TestCharacterRepository_SaveReplaces(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	rec := makeRecord(uniqueName("Iris"), 2)
	require.NoError(t, repo.Save(ctx, rec))

	rec.Level = 3
	rec.Hash = rec.ComputeHash()
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Load(ctx, rec.Name)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Level)
}

func TestCharacterRepository_Create_DuplicateName(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	rec := makeRecord(uniqueName("Dup"), 1)
	require.NoError(t, repo.Create(ctx, rec))
	assert.ErrorIs(t, repo.Create(ctx, rec), postgres.ErrCharacterNameTaken)
}

func TestCharacterRepository_Load_NotFound(t *testing.T) {
	repo := setupRepo(t)
	_, err := repo.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)
}

func TestCharacterRepository_Load_TamperedRecordStillReturned(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	rec := makeRecord(uniqueName("Tamper"), 5)
	rec.Level = 20
	require.NoError(t, repo.Save(ctx, rec))

	got, err := repo.Load(ctx, rec.Name)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Level)
	assert.False(t, got.Verify())
}

func TestCharacterRepository_ListAndDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	a := makeRecord(uniqueName("a"), 1)
	b := makeRecord(uniqueName("b"), 6)
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.Name, list[0].Name)
	assert.Equal(t, b.Name, list[1].Name)
	assert.Equal(t, 6, list[1].Level)
	assert.Equal(t, b.Hash, list[1].Hash)
	assert.WithinDuration(t, b.SavedAt, list[1].SavedAt, time.Second)

	require.NoError(t, repo.Delete(ctx, a.Name))
	assert.ErrorIs(t, repo.Delete(ctx, a.Name), postgres.ErrCharacterNotFound)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// Property: any saved record loads back identical and still verifies.
func TestCharacterRepository_RoundTrip_Property(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	rapid.Check(t, func(rt *rapid.T) {
		name := rapid.StringMatching(`[a-z]{3,12}`).Draw(rt, "name")
		level := rapid.IntRange(1, 20).Draw(rt, "level")
		rec := makeRecord(name, level)
		if err := repo.Save(ctx, rec); err != nil {
			rt.Fatal(err)
		}
		got, err := repo.Load(ctx, name)
		if err != nil {
			rt.Fatal(err)
		}
		if !got.Verify() || got.Level != level {
			rt.Fatalf("round trip lost data for %q", name)
		}
	})
}
