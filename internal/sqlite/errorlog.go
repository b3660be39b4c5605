package sqlite

import (
	"context"
	"fmt"
)

// ErrorLogRepository implements repository.ErrorLogRepository for SQLite
type ErrorLogRepository struct {
	db *DB
}

// NewErrorLogRepository creates a new ErrorLogRepository
func NewErrorLogRepository(db *DB) *ErrorLogRepository {
	return &ErrorLogRepository{db: db}
}

// Log appends a diagnostic entry. Callers treat failures as best-effort.
func (r *ErrorLogRepository) Log(ctx context.Context, errorType, message string) error {
	query := `
		INSERT INTO error_logs (error_type, error_message)
		VALUES (?, ?)
	`
	if _, err := r.db.ExecContext(ctx, query, errorType, message); err != nil {
		return fmt.Errorf("failed to log error: %w", err)
	}
	return nil
}
