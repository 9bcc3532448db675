package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned by Create when the name is already stored.
var ErrCharacterNameTaken = errors.New("character name already taken")

// Summary is the listing view of a stored character.
type Summary struct {
	Name      string
	Race      string
	Archetype string
	Level     int
	Hash      string
	SavedAt   time.Time
	UpdatedAt time.Time
}

// CharacterRepository stores character records as JSONB keyed by name.
type CharacterRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool, logger *zap.Logger) *CharacterRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CharacterRepository{db: db, logger: logger}
}

// Create inserts a new record.
//
// Precondition: rec.Name must be non-empty.
// Postcondition: Returns ErrCharacterNameTaken when a record with that name exists.
func (r *CharacterRepository) Create(ctx context.Context, rec character.Record) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO characters (name, race, archetype, level, hash, saved_at, record)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.Name, rec.Race, rec.Archetype, rec.Level, rec.Hash, rec.SavedAt, data,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrCharacterNameTaken
		}
		return fmt.Errorf("inserting character %q: %w", rec.Name, err)
	}
	r.logger.Debug("character created", zap.String("name", rec.Name), zap.String("hash", rec.Hash))
	return nil
}

// Save inserts rec or replaces the stored record with the same name.
//
// Precondition: rec.Name must be non-empty.
func (r *CharacterRepository) Save(ctx context.Context, rec character.Record) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO characters (name, race, archetype, level, hash, saved_at, record)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO UPDATE SET
			race = EXCLUDED.race,
			archetype = EXCLUDED.archetype,
			level = EXCLUDED.level,
			hash = EXCLUDED.hash,
			saved_at = EXCLUDED.saved_at,
			record = EXCLUDED.record,
			updated_at = NOW()`,
		rec.Name, rec.Race, rec.Archetype, rec.Level, rec.Hash, rec.SavedAt, data,
	)
	if err != nil {
		return fmt.Errorf("saving character %q: %w", rec.Name, err)
	}
	r.logger.Debug("character saved", zap.String("name", rec.Name), zap.Int("level", rec.Level))
	return nil
}

// Load returns the stored record for name. The record is returned as stored;
// callers check its integrity with Record.Verify or Character.VerifyIntegrity.
//
// Postcondition: Returns ErrCharacterNotFound when no record has that name.
func (r *CharacterRepository) Load(ctx context.Context, name string) (character.Record, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT record FROM characters WHERE name = $1`, name).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return character.Record{}, ErrCharacterNotFound
		}
		return character.Record{}, fmt.Errorf("loading character %q: %w", name, err)
	}
	var rec character.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return character.Record{}, fmt.Errorf("decoding character %q: %w", name, err)
	}
	if !rec.Verify() {
		r.logger.Warn("stored character failed integrity check", zap.String("name", name))
	}
	return rec, nil
}

// List returns a summary of every stored character ordered by name.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]Summary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, race, archetype, level, hash, saved_at, updated_at
		FROM characters ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	out := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Name, &s.Race, &s.Archetype, &s.Level, &s.Hash, &s.SavedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes the record for name.
//
// Postcondition: Returns ErrCharacterNotFound when no record has that name.
func (r *CharacterRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting character %q: %w", name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	r.logger.Debug("character deleted", zap.String("name", name))
	return nil
}

func encodeRecord(rec character.Record) ([]byte, error) {
	if rec.Name == "" {
		return nil, errors.New("character record name must not be empty")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encoding character %q: %w", rec.Name, err)
	}
	return data, nil
}
