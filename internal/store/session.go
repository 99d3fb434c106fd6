package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/huedetect/internal/hsv"
	"github.com/ayusman/huedetect/internal/palette"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// EndReason records why a session stopped.
type EndReason string

const (
	// EndQuit means the user pressed the quit key or stopped the process.
	EndQuit EndReason = "quit"
	// EndCaptureLost means the camera stopped delivering frames.
	EndCaptureLost EndReason = "capture_lost"
	// EndError means the session stopped on an unexpected error.
	EndError EndReason = "error"
)

// Session is one detection run: a color tracked on one device until it stopped.
type Session struct {
	ID         string
	Color      palette.Name
	Device     int
	Ranges     []hsv.Bounds
	StartedAt  time.Time
	EndedAt    *time.Time
	Frames     int
	Detections int
	EndReason  EndReason
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session and its ranges. An empty ID is replaced by a
// new UUID and StartedAt is set to now.
func (r *SessionRepository) Create(sess *Session) error {
	color, err := sess.Color.MarshalText()
	if err != nil {
		return err
	}

	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	sess.StartedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (id, color, device, started_at, frames, detections, end_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, string(color), sess.Device, sess.StartedAt, sess.Frames, sess.Detections, string(sess.EndReason),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for i, b := range sess.Ranges {
		_, err := tx.Exec(
			`INSERT INTO session_ranges (session_id, sequence, lower_h, lower_s, lower_v, upper_h, upper_s, upper_v)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sess.ID, i, b.Lower.H, b.Lower.S, b.Lower.V, b.Upper.H, b.Upper.S, b.Upper.V,
		)
		if err != nil {
			return fmt.Errorf("insert session range: %w", err)
		}
	}

	return tx.Commit()
}

// Finish records the final counters and end reason of a session.
func (r *SessionRepository) Finish(id string, frames, detections int, reason EndReason) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, frames = ?, detections = ?, end_reason = ?
		 WHERE id = ?`,
		time.Now(), frames, detections, string(reason), id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	sess := &Session{}
	var color, reason string
	var endedAt sql.NullTime

	err := row.Scan(&sess.ID, &color, &sess.Device, &sess.StartedAt, &endedAt,
		&sess.Frames, &sess.Detections, &reason)
	if err != nil {
		return nil, err
	}

	if err := sess.Color.UnmarshalText([]byte(color)); err != nil {
		return nil, err
	}
	if endedAt.Valid {
		t := endedAt.Time
		sess.EndedAt = &t
	}
	sess.EndReason = EndReason(reason)

	return sess, nil
}

// GetByID retrieves a session and its ranges by ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess, err := scanSession(r.db.QueryRow(
		`SELECT id, color, device, started_at, ended_at, frames, detections, end_reason
		 FROM sessions WHERE id = ?`,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sess.Ranges, err = r.ranges(id)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// List retrieves the most recent sessions, newest first. A limit less than
// or equal to 0 returns every session. Ranges are not loaded.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, color, device, started_at, ended_at, frames, detections, end_reason
		 FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session and its ranges.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *SessionRepository) ranges(id string) ([]hsv.Bounds, error) {
	rows, err := r.db.Query(
		`SELECT lower_h, lower_s, lower_v, upper_h, upper_s, upper_v
		 FROM session_ranges WHERE session_id = ? ORDER BY sequence`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranges []hsv.Bounds
	for rows.Next() {
		var b hsv.Bounds
		if err := rows.Scan(&b.Lower.H, &b.Lower.S, &b.Lower.V, &b.Upper.H, &b.Upper.S, &b.Upper.V); err != nil {
			return nil, err
		}
		ranges = append(ranges, b)
	}

	return ranges, rows.Err()
}
