package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/observability"
	"github.com/cory-johannsen/charsheet/internal/storage/postgres"
)

const dbTimeout = 10 * time.Second

var sheetOpts struct {
	name      string
	race      string
	archetype string
	high      string
	mid       string
	levelTo   int
	levelWith string
	equip     []string
	save      bool
}

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Build a character and print its sheet",
	Long: `Build a character from the content catalogs, level it, equip it, and print
scores, resources, armor class, and attack breakdowns. Example:

  charsheet sheet --name Ara --race elf --archetype warrior --high int --mid str \
      --level-to 5 --equip longsword+1 --equip dagger@off_hand --equip chain_shirt`,
	Args: cobra.NoArgs,
	RunE: runSheet,
}

func init() {
	f := sheetCmd.Flags()
	f.StringVar(&sheetOpts.name, "name", "", "character name")
	f.StringVar(&sheetOpts.race, "race", "human", "race id")
	f.StringVar(&sheetOpts.archetype, "archetype", "warrior", "archetype id")
	f.StringVar(&sheetOpts.high, "high", "str", "ability with the high role")
	f.StringVar(&sheetOpts.mid, "mid", "dex", "ability with the mid role")
	f.IntVar(&sheetOpts.levelTo, "level-to", 1, "level up (traditionally) until this level")
	f.StringVar(&sheetOpts.levelWith, "level-ability", "", "ability raised at each level-up (defaults to --high)")
	f.StringArrayVar(&sheetOpts.equip, "equip", nil, "equip template[@slot][+N|-N]; repeatable")
	f.BoolVar(&sheetOpts.save, "save", false, "store the resulting record in the database")
	_ = sheetCmd.MarkFlagRequired("name")
}

func runSheet(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalogs(env.cfg.Content)
	if err != nil {
		return err
	}
	c, err := buildCharacter(cat)
	if err != nil {
		return err
	}
	rec := c.ToRecord()
	if sheetOpts.save {
		if err := saveRecord(cmd.Context(), rec); err != nil {
			return err
		}
	}
	return printSheet(cmd.OutOrStdout(), c)
}

func buildCharacter(cat catalogs) (*character.Character, error) {
	race, ok := cat.rules.Race(sheetOpts.race)
	if !ok {
		return nil, fmt.Errorf("unknown race %q", sheetOpts.race)
	}
	arch, ok := cat.rules.Archetype(sheetOpts.archetype)
	if !ok {
		return nil, fmt.Errorf("unknown archetype %q", sheetOpts.archetype)
	}
	high, err := ruleset.ParseAbility(sheetOpts.high)
	if err != nil {
		return nil, fmt.Errorf("--high: %w", err)
	}
	mid, err := ruleset.ParseAbility(sheetOpts.mid)
	if err != nil {
		return nil, fmt.Errorf("--mid: %w", err)
	}
	levelWith := high
	if sheetOpts.levelWith != "" {
		if levelWith, err = ruleset.ParseAbility(sheetOpts.levelWith); err != nil {
			return nil, fmt.Errorf("--level-ability: %w", err)
		}
	}

	c, err := character.New(character.Config{
		Name:      sheetOpts.name,
		Race:      race,
		Archetype: arch,
		High:      high,
		Mid:       mid,
		Rules:     cat.rules,
		Items:     cat.items,
		Abilities: cat.abilities,
		Roller:    newRoller(),
		Logger:    observability.Component(env.logger, "character"),
	})
	if err != nil {
		return nil, err
	}
	for c.Level() < sheetOpts.levelTo {
		if err := c.LevelUp(levelWith); err != nil {
			return nil, err
		}
	}

	for _, raw := range sheetOpts.equip {
		choice, err := parseEquip(raw)
		if err != nil {
			return nil, err
		}
		item, err := c.Inventory().AddTemplate(choice.Template, choice.Enchantment)
		if err != nil {
			return nil, err
		}
		if !c.Inventory().Equip(item.ID, choice.Slot, c) {
			return nil, fmt.Errorf("cannot equip %q", raw)
		}
	}
	c.SyncEquipment()
	return c, nil
}

func openRepository(ctx context.Context) (*postgres.CharacterRepository, func(), error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()
	pool, err := postgres.NewPool(ctx, env.cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	repo := postgres.NewCharacterRepository(pool.DB(), observability.Component(env.logger, "storage"))
	return repo, pool.Close, nil
}

func saveRecord(ctx context.Context, rec character.Record) error {
	repo, closeFn, err := openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeFn()
	if err := repo.Save(ctx, rec); err != nil {
		return err
	}
	env.logger.Info("character saved", zap.String("name", rec.Name), zap.String("hash", rec.Hash))
	return nil
}
