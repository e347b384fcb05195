package journal

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Archive mirrors journal events into SQLite so the teacher dashboard can
// page through move history across restarts. The JSONL log stays the
// canonical append-only record; the archive is a query surface.
type Archive struct {
	db *sql.DB
}

func OpenArchive(dsn string) (*Archive, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS move_events (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		ts INTEGER NOT NULL,
		event_type TEXT NOT NULL,
		player_id TEXT NOT NULL,
		player_index INTEGER NOT NULL,
		word TEXT NOT NULL,
		word_length INTEGER NOT NULL,
		frequency_score REAL NOT NULL,
		letters_used TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create move_events: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_move_events_ts ON move_events(ts)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("index move_events: %w", err)
	}
	return &Archive{db: db}, nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// InsertBatch records a snapshot's events in one transaction.
func (a *Archive) InsertBatch(events []Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO move_events
		(id, session_id, ts, event_type, player_id, player_index, word, word_length, frequency_score, letters_used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.ID, ev.SessionID, ev.Timestamp, ev.EventType,
			ev.PlayerID, ev.PlayerIndex, ev.Word, ev.WordLength,
			ev.FrequencyScore, strings.Join(ev.LettersUsed, "")); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// Recent returns the newest limit events, oldest first.
func (a *Archive) Recent(limit int) ([]Event, error) {
	rows, err := a.db.Query(`SELECT id, session_id, ts, event_type, player_id,
		player_index, word, word_length, frequency_score, letters_used
		FROM move_events ORDER BY ts DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var used string
		if err := rows.Scan(&ev.ID, &ev.SessionID, &ev.Timestamp, &ev.EventType,
			&ev.PlayerID, &ev.PlayerIndex, &ev.Word, &ev.WordLength,
			&ev.FrequencyScore, &used); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.LettersUsed = splitLetters(used)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Oldest first.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

func splitLetters(s string) []string {
	out := make([]string, 0, len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, string(s[i]))
	}
	return out
}
