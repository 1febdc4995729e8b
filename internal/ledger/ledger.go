// Package ledger keeps an append-only history of what the transition engine
// did during a session: start, toggles, stops, fades, applied temperatures.
package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultMaxEntries bounds the history of a long running session
const DefaultMaxEntries = 10000

// trimEvery is how many appends happen between trims
const trimEvery = 500

// applyKind is the entry kind the engine records for every written temperature
const applyKind = "apply"

// Entry represents a single event in the ledger
type Entry struct {
	ID        int64
	SessionID string
	EventType string
	Timestamp time.Time
	Payload   map[string]any
}

// Ledger is the history of one session
type Ledger struct {
	db         *sql.DB
	sessionID  string
	maxEntries int
	now        func() time.Time

	appends int
}

// New creates a ledger for a fresh session with a random id
func New(db *sql.DB) *Ledger {
	return &Ledger{
		db:         db,
		sessionID:  uuid.NewString(),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
}

// SessionID returns the id stamped on every entry of this session
func (l *Ledger) SessionID() string {
	return l.sessionID
}

// SetMaxEntries changes how many entries are kept. Zero or less keeps all.
func (l *Ledger) SetMaxEntries(n int) {
	l.maxEntries = n
}

// Append adds a new event to the ledger
func (l *Ledger) Append(eventType string, payload map[string]any) error {
	var payloadJSON []byte
	if payload != nil {
		var err error
		payloadJSON, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
	}

	_, err := l.db.Exec(
		`INSERT INTO session_history (session_id, event_type, timestamp, payload) VALUES (?, ?, ?, ?)`,
		l.sessionID, eventType, l.now().UTC().UnixNano(), string(payloadJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to append %s: %w", eventType, err)
	}

	l.appends++
	if l.maxEntries > 0 && l.appends%trimEvery == 0 {
		if _, err := l.Trim(l.maxEntries); err != nil {
			log.Warn().Err(err).Msg("Failed to trim session history")
		}
	}
	return nil
}

// Record appends an entry, logging instead of returning failures.
// It satisfies engine.Recorder.
func (l *Ledger) Record(kind string, payload map[string]any) {
	if err := l.Append(kind, payload); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("Failed to record history entry")
	}
}

// GetByType returns the newest entries of one type, newest first
func (l *Ledger) GetByType(eventType string, limit int) ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, session_id, event_type, timestamp, payload
		FROM session_history
		WHERE session_id = ? AND event_type = ?
		ORDER BY id DESC
		LIMIT ?
	`, l.sessionID, eventType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Entries returns the whole session history, oldest first
func (l *Ledger) Entries() ([]*Entry, error) {
	rows, err := l.db.Query(`
		SELECT id, session_id, event_type, timestamp, payload
		FROM session_history
		WHERE session_id = ?
		ORDER BY id ASC
	`, l.sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Counts returns the number of entries per event type
func (l *Ledger) Counts() (map[string]int, error) {
	rows, err := l.db.Query(`
		SELECT event_type, COUNT(*)
		FROM session_history
		WHERE session_id = ?
		GROUP BY event_type
	`, l.sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// Trim keeps only the newest keep entries of the session
func (l *Ledger) Trim(keep int) (int64, error) {
	result, err := l.db.Exec(`
		DELETE FROM session_history
		WHERE session_id = ? AND id NOT IN (
			SELECT id FROM session_history WHERE session_id = ? ORDER BY id DESC LIMIT ?
		)
	`, l.sessionID, l.sessionID, keep)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Summary describes a session at a glance
type Summary struct {
	SessionID string
	Counts    map[string]int
	// LastTemperature is the most recently applied temperature, zero when
	// nothing was applied
	LastTemperature int
}

// Summarize gathers per-type counts and the last applied temperature
func (l *Ledger) Summarize() (*Summary, error) {
	counts, err := l.Counts()
	if err != nil {
		return nil, err
	}

	summary := &Summary{SessionID: l.SessionID(), Counts: counts}

	last, err := l.GetByType(applyKind, 1)
	if err != nil {
		return nil, err
	}
	if len(last) > 0 {
		if temp, ok := last[0].Payload["temperature"].(float64); ok {
			summary.LastTemperature = int(temp)
		}
	}
	return summary, nil
}

// LogSummary writes the session summary at info level. With debug logging
// enabled every entry of the session follows.
func (l *Ledger) LogSummary() {
	summary, err := l.Summarize()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to summarize session history")
		return
	}

	ev := log.Info().Str("session", summary.SessionID)
	if summary.LastTemperature > 0 {
		ev = ev.Int("last_temperature", summary.LastTemperature)
	}
	for kind, n := range summary.Counts {
		ev = ev.Int(kind, n)
	}
	ev.Msg("Session history")

	if !log.Debug().Enabled() {
		return
	}
	entries, err := l.Entries()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read session history")
		return
	}
	for _, e := range entries {
		log.Debug().
			Int64("id", e.ID).
			Str("kind", e.EventType).
			Time("at", e.Timestamp).
			Interface("payload", e.Payload).
			Msg("History entry")
	}
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var payloadStr sql.NullString
		var timestamp int64

		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.EventType, &timestamp, &payloadStr); err != nil {
			return nil, err
		}

		entry.Timestamp = time.Unix(0, timestamp).UTC()
		if payloadStr.Valid && payloadStr.String != "" {
			entry.Payload = make(map[string]any)
			if err := json.Unmarshal([]byte(payloadStr.String), &entry.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
