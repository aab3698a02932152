// Package storage provides SQLite-based persistence for cartridge save
// slots and play sessions. Uses the pure-Go modernc.org/sqlite driver to
// avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// SaveSlot is one persisted game state: the scene the player was in and
// the full variables map, keyed by (cartridge, slot).
type SaveSlot struct {
	ID          int64
	CartridgeID string
	Slot        int
	SceneID     string
	Variables   map[string]any
	UpdatedAt   time.Time
}

// Session is one completed play session, recorded for stats.
type Session struct {
	ID          int64
	CartridgeID string
	Seed        int64
	Ticks       uint64
	Duration    int // Seconds
	CreatedAt   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS saves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cartridge_id TEXT NOT NULL,
			slot INTEGER NOT NULL,
			scene_id TEXT NOT NULL,
			variables TEXT NOT NULL DEFAULT '{}',
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(cartridge_id, slot)
		);
		CREATE INDEX IF NOT EXISTS idx_saves_cartridge ON saves(cartridge_id);

		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			cartridge_id TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL DEFAULT 0,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_cartridge ON sessions(cartridge_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// PutSave writes a save slot, replacing any previous save in the same
// (cartridge, slot) pair. Variables are stored as JSON.
func (s *Store) PutSave(cartridgeID string, slot int, sceneID string, vars map[string]any) error {
	data, err := json.Marshal(vars)
	if err != nil {
		return fmt.Errorf("storage: cannot encode variables: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO saves (cartridge_id, slot, scene_id, variables, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(cartridge_id, slot) DO UPDATE SET
			scene_id = excluded.scene_id,
			variables = excluded.variables,
			updated_at = CURRENT_TIMESTAMP`,
		cartridgeID, slot, sceneID, string(data),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write save: %w", err)
	}
	return nil
}

// LoadSave retrieves a save slot. Returns nil without error when the
// slot is empty.
func (s *Store) LoadSave(cartridgeID string, slot int) (*SaveSlot, error) {
	var save SaveSlot
	var variables string
	var updatedAt any

	err := s.db.QueryRow(
		`SELECT id, cartridge_id, slot, scene_id, variables, updated_at
		 FROM saves
		 WHERE cartridge_id = ? AND slot = ?`,
		cartridgeID, slot,
	).Scan(&save.ID, &save.CartridgeID, &save.Slot, &save.SceneID, &variables, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query save: %w", err)
	}

	if err := json.Unmarshal([]byte(variables), &save.Variables); err != nil {
		return nil, fmt.Errorf("storage: cannot decode variables: %w", err)
	}
	save.UpdatedAt = parseTimestamp(updatedAt)

	return &save, nil
}

// ListSaves retrieves every save slot for a cartridge, ordered by slot.
func (s *Store) ListSaves(cartridgeID string) ([]SaveSlot, error) {
	rows, err := s.db.Query(
		`SELECT id, cartridge_id, slot, scene_id, variables, updated_at
		 FROM saves
		 WHERE cartridge_id = ?
		 ORDER BY slot ASC`,
		cartridgeID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query saves: %w", err)
	}
	defer rows.Close()

	var saves []SaveSlot
	for rows.Next() {
		var save SaveSlot
		var variables string
		var updatedAt any
		if err := rows.Scan(&save.ID, &save.CartridgeID, &save.Slot, &save.SceneID, &variables, &updatedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if err := json.Unmarshal([]byte(variables), &save.Variables); err != nil {
			return nil, fmt.Errorf("storage: cannot decode variables: %w", err)
		}
		save.UpdatedAt = parseTimestamp(updatedAt)
		saves = append(saves, save)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return saves, nil
}

// DeleteSave removes a save slot. Deleting an empty slot is not an error.
func (s *Store) DeleteSave(cartridgeID string, slot int) error {
	_, err := s.db.Exec(
		"DELETE FROM saves WHERE cartridge_id = ? AND slot = ?",
		cartridgeID, slot,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot delete save: %w", err)
	}
	return nil
}

// RecordSession logs one completed play session.
// Returns the ID of the inserted record.
func (s *Store) RecordSession(cartridgeID string, seed int64, ticks uint64, duration time.Duration) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO sessions (cartridge_id, seed, ticks, duration_secs) VALUES (?, ?, ?, ?)",
		cartridgeID, seed, int64(ticks), int(duration.Seconds()),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentSessions retrieves the most recent sessions for a cartridge.
func (s *Store) RecentSessions(cartridgeID string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, cartridge_id, seed, ticks, duration_secs, created_at
		 FROM sessions
		 WHERE cartridge_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		cartridgeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var ticks int64
		var createdAt any
		if err := rows.Scan(&sess.ID, &sess.CartridgeID, &sess.Seed, &ticks, &sess.Duration, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sess.Ticks = uint64(ticks)
		sess.CreatedAt = parseTimestamp(createdAt)
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// SessionStats contains aggregated play statistics for a cartridge.
type SessionStats struct {
	CartridgeID  string
	SessionCount int
	TotalTicks   int64
	TotalSecs    int64
	LastPlayed   time.Time
}

// GetSessionStats retrieves aggregated statistics for a cartridge.
func (s *Store) GetSessionStats(cartridgeID string) (*SessionStats, error) {
	stats := &SessionStats{CartridgeID: cartridgeID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(ticks), 0), COALESCE(SUM(duration_secs), 0)
		 FROM sessions WHERE cartridge_id = ?`,
		cartridgeID,
	).Scan(&stats.SessionCount, &stats.TotalTicks, &stats.TotalSecs)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get session stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM sessions WHERE cartridge_id = ? ORDER BY created_at DESC LIMIT 1`,
		cartridgeID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTimestamp(lastPlayed)
	}

	return stats, nil
}

// parseTimestamp handles the driver returning DATETIME columns as either
// time.Time or string.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
