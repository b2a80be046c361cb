package main

import (
	"database/sql"
	"log"
	"strconv"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// PlayerRow represents a player record in the database
type PlayerRow struct {
	ID        int64
	Username  string
	PassHash  string
	CreatedAt time.Time
}

// StatsRow holds a player's aggregate results. Individual matches are
// deliberately not recorded.
type StatsRow struct {
	PlayerID      int64
	Wins          int
	Losses        int
	PointsFor     int
	PointsAgainst int
	Matches       int
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		pass_hash TEXT NOT NULL DEFAULT '',
		is_guest INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS stats (
		player_id INTEGER PRIMARY KEY REFERENCES players(id),
		wins INTEGER NOT NULL DEFAULT 0,
		losses INTEGER NOT NULL DEFAULT 0,
		points_for INTEGER NOT NULL DEFAULT 0,
		points_against INTEGER NOT NULL DEFAULT 0,
		matches INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS achievements (
		player_id INTEGER NOT NULL REFERENCES players(id),
		achievement_id TEXT NOT NULL,
		unlocked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (player_id, achievement_id)
	);

	CREATE INDEX IF NOT EXISTS idx_players_username ON players(username);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// GetSetting returns a settings value, or "" when absent
func (db *DB) GetSetting(key string) string {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err != nil {
		return ""
	}
	return value
}

// SetSetting upserts a settings value
func (db *DB) SetSetting(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// Settings keys for the persisted gameplay preferences document
const (
	settingWinningScore = "gameplay.winning_score"
	settingMode         = "gameplay.mode"
	settingDifficulty   = "gameplay.ai_difficulty"
)

// LoadPrefs restores the persisted gameplay settings, falling back to
// defaults for missing or malformed values
func (db *DB) LoadPrefs() PrefsMsg {
	prefs := PrefsMsg{
		WinningScore: 10,
		Mode:         "pve",
		Difficulty:   "medium",
	}
	if db == nil {
		return prefs
	}
	if v := db.GetSetting(settingWinningScore); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			prefs.WinningScore = n
		}
	}
	if v := db.GetSetting(settingMode); v == "pvp" || v == "pve" {
		prefs.Mode = v
	}
	if v := db.GetSetting(settingDifficulty); v != "" {
		prefs.Difficulty = ParseDifficulty(v).String()
	}
	return prefs
}

// SavePrefs persists the gameplay settings document
func (db *DB) SavePrefs(prefs PrefsMsg) error {
	if db == nil {
		return nil
	}
	if err := db.SetSetting(settingWinningScore, strconv.Itoa(prefs.WinningScore)); err != nil {
		return err
	}
	if err := db.SetSetting(settingMode, prefs.Mode); err != nil {
		return err
	}
	return db.SetSetting(settingDifficulty, ParseDifficulty(prefs.Difficulty).String())
}

// CreatePlayer creates a new player account (returns player ID)
func (db *DB) CreatePlayer(username, passHash string) (int64, error) {
	res, err := db.conn.Exec(
		"INSERT INTO players (username, pass_hash) VALUES (?, ?)",
		username, passHash,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	_, err = db.conn.Exec("INSERT INTO stats (player_id) VALUES (?)", id)
	return id, err
}

// GetPlayerByUsername returns a player by username, nil when absent
func (db *DB) GetPlayerByUsername(username string) (*PlayerRow, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, pass_hash, created_at FROM players WHERE username = ?",
		username,
	)
	p := &PlayerRow{}
	err := row.Scan(&p.ID, &p.Username, &p.PassHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// UsernameExists checks if a username is taken
func (db *DB) UsernameExists(username string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM players WHERE username = ?", username).Scan(&count)
	return count > 0, err
}

// GetStats returns a player's aggregate stats
func (db *DB) GetStats(playerID int64) (*StatsRow, error) {
	row := db.conn.QueryRow(
		"SELECT player_id, wins, losses, points_for, points_against, matches FROM stats WHERE player_id = ?",
		playerID,
	)
	s := &StatsRow{}
	err := row.Scan(&s.PlayerID, &s.Wins, &s.Losses, &s.PointsFor, &s.PointsAgainst, &s.Matches)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// RecordResult folds one match outcome into a player's aggregates
func (db *DB) RecordResult(playerID int64, won bool, pointsFor, pointsAgainst int) error {
	winInc, lossInc := 0, 1
	if won {
		winInc, lossInc = 1, 0
	}
	_, err := db.conn.Exec(`
		UPDATE stats SET
			wins = wins + ?,
			losses = losses + ?,
			points_for = points_for + ?,
			points_against = points_against + ?,
			matches = matches + 1
		WHERE player_id = ?`,
		winInc, lossInc, pointsFor, pointsAgainst, playerID,
	)
	return err
}

// GetAchievements returns the IDs a player has already unlocked
func (db *DB) GetAchievements(playerID int64) ([]string, error) {
	rows, err := db.conn.Query(
		"SELECT achievement_id FROM achievements WHERE player_id = ?", playerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UnlockAchievement records an unlock; returns true when newly unlocked
func (db *DB) UnlockAchievement(playerID int64, achievementID string) (bool, error) {
	res, err := db.conn.Exec(
		"INSERT OR IGNORE INTO achievements (player_id, achievement_id) VALUES (?, ?)",
		playerID, achievementID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
