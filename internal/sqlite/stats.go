package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/deskwatch/agent/internal/repository"
)

// StatsRepository implements repository.StatsRepository for SQLite
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// UnsyncedCounts returns the number of sync-eligible rows per table
func (r *StatsRepository) UnsyncedCounts(ctx context.Context) (repository.UnsyncedCounts, error) {
	var counts repository.UnsyncedCounts

	queries := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM session_logs WHERE synced = 0 AND session_end IS NOT NULL`, &counts.Sessions},
		{`SELECT COUNT(*) FROM application_logs WHERE synced = 0 AND end_time IS NOT NULL`, &counts.Applications},
		{`SELECT COUNT(*) FROM file_edits WHERE synced = 0`, &counts.FileEdits},
	}

	for _, q := range queries {
		if err := r.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return repository.UnsyncedCounts{}, fmt.Errorf("failed to count unsynced rows: %w", err)
		}
	}

	return counts, nil
}

// PruneSynced deletes already-archived rows older than the cutoff, bounding
// local retention. Unsynced rows are never pruned.
func (r *StatsRepository) PruneSynced(ctx context.Context, cutoff time.Time) (int64, error) {
	var pruned int64

	statements := []string{
		`DELETE FROM session_logs WHERE synced = 1 AND session_end IS NOT NULL AND session_end < ?`,
		`DELETE FROM application_logs WHERE synced = 1 AND end_time IS NOT NULL AND end_time < ?`,
		`DELETE FROM file_edits WHERE synced = 1 AND edit_time < ?`,
		`DELETE FROM error_logs WHERE created_at < ?`,
	}

	for _, stmt := range statements {
		result, err := r.db.ExecContext(ctx, stmt, cutoff)
		if err != nil {
			return pruned, fmt.Errorf("failed to prune synced rows: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return pruned, fmt.Errorf("failed to get rows affected: %w", err)
		}
		pruned += rows
	}

	return pruned, nil
}
