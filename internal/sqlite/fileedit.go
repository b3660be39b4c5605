package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deskwatch/agent/internal/domain/tracker"
	"github.com/deskwatch/agent/internal/repository"
)

// FileEditRepository implements repository.FileEditRepository for SQLite
type FileEditRepository struct {
	db *DB
}

// NewFileEditRepository creates a new FileEditRepository
func NewFileEditRepository(db *DB) *FileEditRepository {
	return &FileEditRepository{db: db}
}

// Log records a file observed open for editing
func (r *FileEditRepository) Log(ctx context.Context, edit *tracker.FileEdit) (int64, error) {
	if edit == nil || edit.ComputerID == "" || edit.FileName == "" {
		return 0, repository.ErrInvalidInput
	}

	query := `
		INSERT INTO file_edits
		(computer_id, username, file_name, file_path, application, edit_time, synced)
		VALUES (?, ?, ?, ?, ?, ?, 0)
	`
	result, err := r.db.ExecContext(ctx, query,
		edit.ComputerID,
		edit.Username,
		edit.FileName,
		edit.FilePath,
		edit.Application,
		edit.EditTime,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to log file edit: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get file edit id: %w", err)
	}

	return id, nil
}

// Unsynced returns file edits pending archival
func (r *FileEditRepository) Unsynced(ctx context.Context, limit int) ([]tracker.FileEdit, error) {
	query := `
		SELECT id, computer_id, username, file_name, file_path, application, edit_time, synced
		FROM file_edits
		WHERE synced = 0
		ORDER BY id ASC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list file edits: %w", err)
	}
	defer rows.Close()

	var edits []tracker.FileEdit
	for rows.Next() {
		var edit tracker.FileEdit
		var path sql.NullString
		var synced int
		if err := rows.Scan(
			&edit.ID,
			&edit.ComputerID,
			&edit.Username,
			&edit.FileName,
			&path,
			&edit.Application,
			&edit.EditTime,
			&synced,
		); err != nil {
			return nil, fmt.Errorf("failed to scan file edit: %w", err)
		}
		edit.FilePath = path.String
		edit.Synced = synced == 1
		edits = append(edits, edit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file edits: %w", err)
	}

	return edits, nil
}

// MarkSynced flags the given file edits as archived remotely. Idempotent.
func (r *FileEditRepository) MarkSynced(ctx context.Context, ids []int64) error {
	return markSynced(ctx, r.db, "file_edits", ids)
}
