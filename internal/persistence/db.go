// Package persistence provides SQLite-based settlement storage: save
// slots, the event chronicle, and run metadata.
package persistence

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/brownbat/kingdom-clicker/internal/kingdom"
)

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS saves (
		slot TEXT PRIMARY KEY,
		world_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		season INTEGER NOT NULL DEFAULT 0,
		digest TEXT NOT NULL DEFAULT '',
		state_json TEXT NOT NULL,
		saved_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		category TEXT NOT NULL,
		description TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_events_category ON events(category);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveSlot writes a settlement snapshot into a named slot (full replace).
func (db *DB) SaveSlot(slot string, s *kingdom.State) error {
	snap := s.Export()
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = db.conn.Exec(`INSERT OR REPLACE INTO saves
		(slot, world_id, tick, season, digest, state_json, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, datetime('now'))`,
		slot, s.ID, s.Tick, s.SeasonPhase, s.Digest(), string(data),
	)
	if err != nil {
		return fmt.Errorf("write slot %q: %w", slot, err)
	}

	slog.Info("settlement saved", "slot", slot, "world_id", s.ID, "tick", s.Tick)
	return nil
}

// LoadSlot restores the settlement stored in a named slot.
func (db *DB) LoadSlot(slot string) (*kingdom.State, error) {
	var stateJSON string
	err := db.conn.Get(&stateJSON,
		"SELECT state_json FROM saves WHERE slot = ?", slot)
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", slot, err)
	}

	s, err := kingdom.Restore([]byte(stateJSON))
	if err != nil {
		return nil, fmt.Errorf("restore slot %q: %w", slot, err)
	}

	slog.Info("settlement loaded", "slot", slot, "world_id", s.ID, "tick", s.Tick)
	return s, nil
}

// Slots lists the stored save slots.
func (db *DB) Slots() ([]string, error) {
	var slots []string
	err := db.conn.Select(&slots, "SELECT slot FROM saves ORDER BY slot")
	return slots, err
}

// SaveInfo describes a stored slot without decoding the state blob.
type SaveInfo struct {
	Slot    string `db:"slot"`
	WorldID string `db:"world_id"`
	Tick    uint64 `db:"tick"`
	Season  int    `db:"season"`
	Digest  string `db:"digest"`
	SavedAt string `db:"saved_at"`
}

// SlotInfo reads a slot's row metadata: which world, how far along, and the
// state digest it was saved with.
func (db *DB) SlotInfo(slot string) (SaveInfo, error) {
	var info SaveInfo
	err := db.conn.Get(&info, `SELECT slot, world_id, tick, season, digest, saved_at
		FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return SaveInfo{}, fmt.Errorf("read slot %q: %w", slot, err)
	}
	return info, nil
}

// AppendEvents appends chronicle lines to the events table.
func (db *DB) AppendEvents(events []kingdom.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (tick, category, description) VALUES (?, ?, ?)",
			e.Tick, e.Category, e.Description,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the newest chronicle lines, newest first.
func (db *DB) RecentEvents(limit int) ([]kingdom.Event, error) {
	var events []kingdom.Event
	err := db.conn.Select(&events,
		"SELECT tick, category, description FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// SaveMeta stores a key-value pair in run metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// Checkpoint saves the settlement, flushes pending events, and records the
// last tick. The engine calls it on the autosave cadence and at shutdown.
func (db *DB) Checkpoint(slot string, s *kingdom.State) error {
	if err := db.SaveSlot(slot, s); err != nil {
		return err
	}
	if err := db.AppendEvents(s.ConsumePending()); err != nil {
		return fmt.Errorf("append events: %w", err)
	}
	if err := db.SaveMeta("last_tick", fmt.Sprintf("%d", s.Tick)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("world_id", s.ID); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}

// RecordRun stores the run parameters that identify a world: its seed and
// the tuning digest it was balanced against. A slot saved under a different
// tuning digest is a mismatched balance experiment.
func (db *DB) RecordRun(seed int64, tuningDigest string) error {
	if err := db.SaveMeta("seed", fmt.Sprintf("%d", seed)); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	if err := db.SaveMeta("tuning_digest", tuningDigest); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}
