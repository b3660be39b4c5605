package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deskwatch/agent/internal/domain/tracker"
	"github.com/deskwatch/agent/internal/repository"
)

// ApplicationRepository implements repository.ApplicationRepository for SQLite
type ApplicationRepository struct {
	db *DB
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Start inserts a new open application interval and returns its id
func (r *ApplicationRepository) Start(ctx context.Context, log *tracker.ApplicationLog) (int64, error) {
	if log == nil || log.ComputerID == "" || log.ApplicationName == "" {
		return 0, repository.ErrInvalidInput
	}

	query := `
		INSERT INTO application_logs
		(computer_id, username, application_name, window_title, start_time, synced)
		VALUES (?, ?, ?, ?, ?, 0)
	`
	result, err := r.db.ExecContext(ctx, query,
		log.ComputerID,
		log.Username,
		log.ApplicationName,
		log.WindowTitle,
		log.Start,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to start application log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get application log id: %w", err)
	}

	return id, nil
}

// End closes an open interval with its end time and computed duration.
// Duration is clamped at zero; the row is kept even for sub-second blips.
func (r *ApplicationRepository) End(ctx context.Context, id int64, end time.Time, durationSeconds int64) error {
	if durationSeconds < 0 {
		durationSeconds = 0
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE application_logs
		SET end_time = ?, duration_seconds = ?
		WHERE id = ? AND end_time IS NULL
	`, end, durationSeconds, id)
	if err != nil {
		return fmt.Errorf("failed to end application log: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Unsynced returns closed intervals pending archival
func (r *ApplicationRepository) Unsynced(ctx context.Context, limit int) ([]tracker.ApplicationLog, error) {
	query := `
		SELECT id, computer_id, username, application_name, window_title,
		       start_time, end_time, duration_seconds, synced
		FROM application_logs
		WHERE synced = 0 AND end_time IS NOT NULL
		ORDER BY id ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list application logs: %w", err)
	}
	defer rows.Close()

	var logs []tracker.ApplicationLog
	for rows.Next() {
		var log tracker.ApplicationLog
		var title sql.NullString
		var end sql.NullTime
		var duration sql.NullInt64
		var synced int
		if err := rows.Scan(
			&log.ID,
			&log.ComputerID,
			&log.Username,
			&log.ApplicationName,
			&title,
			&log.Start,
			&end,
			&duration,
			&synced,
		); err != nil {
			return nil, fmt.Errorf("failed to scan application log: %w", err)
		}
		log.WindowTitle = title.String
		if end.Valid {
			log.End = &end.Time
		}
		log.DurationSeconds = duration.Int64
		log.Synced = synced == 1
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application logs: %w", err)
	}

	return logs, nil
}

// MarkSynced flags the given application logs as archived remotely. Idempotent.
func (r *ApplicationRepository) MarkSynced(ctx context.Context, ids []int64) error {
	return markSynced(ctx, r.db, "application_logs", ids)
}
