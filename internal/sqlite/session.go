package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/deskwatch/agent/internal/domain/session"
	"github.com/deskwatch/agent/internal/repository"
)

// SessionRepository implements repository.SessionRepository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Start force-closes any stale open session, then inserts a new open session
// for the given user. Both happen in one transaction so a crash cannot leave
// two open rows.
func (r *SessionRepository) Start(ctx context.Context, computerID, username string, start time.Time) (int64, error) {
	if computerID == "" || username == "" {
		return 0, repository.ErrInvalidInput
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, closeStaleQuery); err != nil {
		return 0, fmt.Errorf("failed to close stale sessions: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO session_logs (computer_id, username, session_start, synced)
		VALUES (?, ?, ?, 0)
	`, computerID, username, start)
	if err != nil {
		return 0, fmt.Errorf("failed to start session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get session id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit session start: %w", err)
	}

	return id, nil
}

// A stale open session is evidence of an unclean shutdown. It is closed with
// zero duration and pre-marked synced so it is never archived as real usage.
const closeStaleQuery = `
	UPDATE session_logs
	SET session_end = session_start, duration_minutes = 0, synced = 1
	WHERE session_end IS NULL
`

// CloseStale force-closes every open session and returns how many were closed
func (r *SessionRepository) CloseStale(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, closeStaleQuery)
	if err != nil {
		return 0, fmt.Errorf("failed to close stale sessions: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

// End closes an open session, recording duration_minutes = max(1,
// round(elapsed/60s)). Rounds half up, so 90 elapsed seconds records 2.
func (r *SessionRepository) End(ctx context.Context, id int64, end time.Time) error {
	var start time.Time
	var sessionEnd sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT session_start, session_end FROM session_logs WHERE id = ?`, id,
	).Scan(&start, &sessionEnd)
	if err == sql.ErrNoRows {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if sessionEnd.Valid {
		return repository.ErrAlreadyClosed
	}

	minutes := int64(math.Round(end.Sub(start).Minutes()))
	if minutes < 1 {
		minutes = 1
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE session_logs
		SET session_end = ?, duration_minutes = ?
		WHERE id = ? AND session_end IS NULL
	`, end, minutes, id)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrAlreadyClosed
	}

	return nil
}

// Get retrieves a session by id
func (r *SessionRepository) Get(ctx context.Context, id int64) (*session.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, computer_id, username, session_start, session_end, duration_minutes, synced
		FROM session_logs
		WHERE id = ?
	`, id)

	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// Active returns all sessions with no recorded end time
func (r *SessionRepository) Active(ctx context.Context) ([]session.Session, error) {
	query := `
		SELECT id, computer_id, username, session_start, session_end, duration_minutes, synced
		FROM session_logs
		WHERE session_end IS NULL
		ORDER BY id ASC
	`
	return r.querySessions(ctx, query)
}

// Unsynced returns completed sessions pending archival. Open sessions are
// never returned here; they are mirrored through a different path.
func (r *SessionRepository) Unsynced(ctx context.Context, limit int) ([]session.Session, error) {
	query := `
		SELECT id, computer_id, username, session_start, session_end, duration_minutes, synced
		FROM session_logs
		WHERE synced = 0 AND session_end IS NOT NULL
		ORDER BY id ASC
		LIMIT ?
	`
	return r.querySessions(ctx, query, limit)
}

// MarkSynced flags the given sessions as archived remotely. Idempotent.
func (r *SessionRepository) MarkSynced(ctx context.Context, ids []int64) error {
	return markSynced(ctx, r.db, "session_logs", ids)
}

func (r *SessionRepository) querySessions(ctx context.Context, query string, args ...any) ([]session.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*session.Session, error) {
	var sess session.Session
	var end sql.NullTime
	var minutes sql.NullInt64
	var synced int
	err := row.Scan(
		&sess.ID,
		&sess.ComputerID,
		&sess.Username,
		&sess.Start,
		&end,
		&minutes,
		&synced,
	)
	if err != nil {
		return nil, err
	}

	if end.Valid {
		sess.End = &end.Time
	}
	sess.DurationMinutes = minutes.Int64
	sess.Synced = synced == 1

	return &sess, nil
}

func markSynced(ctx context.Context, db *DB, table string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	query := fmt.Sprintf(`UPDATE %s SET synced = 1 WHERE id IN (%s)`, table, placeholders)
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark %s synced: %w", table, err)
	}
	return nil
}
