package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deskwatch/agent/internal/domain/device"
	"github.com/deskwatch/agent/internal/repository"
)

// UserLinkRepository implements repository.UserLinkRepository for SQLite
type UserLinkRepository struct {
	db *DB
}

// NewUserLinkRepository creates a new UserLinkRepository
func NewUserLinkRepository(db *DB) *UserLinkRepository {
	return &UserLinkRepository{db: db}
}

// Get retrieves the remote account binding
func (r *UserLinkRepository) Get(ctx context.Context) (*device.UserLink, error) {
	query := `
		SELECT user_id, linked_at
		FROM user_link
		ORDER BY id DESC
		LIMIT 1
	`

	var link device.UserLink
	var linkedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query).Scan(&link.UserID, &linkedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user link: %w", err)
	}

	if linkedAt.Valid {
		link.LinkedAt = linkedAt.Time
	}

	return &link, nil
}

// Save replaces the remote account binding wholesale
func (r *UserLinkRepository) Save(ctx context.Context, userID string) error {
	if userID == "" {
		return repository.ErrInvalidInput
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_link`); err != nil {
		return fmt.Errorf("failed to clear user link: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO user_link (user_id) VALUES (?)`, userID); err != nil {
		return fmt.Errorf("failed to save user link: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user link: %w", err)
	}
	return nil
}

// Clear removes the binding and wipes all locally recorded activity so a new
// account starts from a clean slate. The computer identity regenerates on the
// next Register call.
func (r *UserLinkRepository) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"user_link", "computer", "session_logs", "application_logs", "file_edits"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return fmt.Errorf("failed to wipe %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit wipe: %w", err)
	}
	return nil
}
