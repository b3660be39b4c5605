package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/deskwatch/agent/internal/domain/device"
	"github.com/deskwatch/agent/internal/repository"
	"github.com/google/uuid"
)

// ComputerRepository implements repository.ComputerRepository for SQLite
type ComputerRepository struct {
	db *DB
}

// NewComputerRepository creates a new ComputerRepository
func NewComputerRepository(db *DB) *ComputerRepository {
	return &ComputerRepository{db: db}
}

// Register returns the stored computer identity, creating it with a fresh
// UUID on first run. Calling it again always returns the same id.
func (r *ComputerRepository) Register(ctx context.Context, name string) (*device.Computer, error) {
	existing, err := r.Get(ctx)
	if err == nil {
		return existing, nil
	}
	if err != repository.ErrNotFound {
		return nil, err
	}

	comp := &device.Computer{
		ID:           uuid.NewString(),
		Name:         name,
		RegisteredAt: time.Now(),
	}

	query := `
		INSERT INTO computer (computer_id, computer_name, registered_at, synced)
		VALUES (?, ?, ?, 0)
	`
	if _, err := r.db.ExecContext(ctx, query, comp.ID, comp.Name, comp.RegisteredAt); err != nil {
		return nil, fmt.Errorf("failed to register computer: %w", err)
	}

	return comp, nil
}

// Get retrieves the computer identity row
func (r *ComputerRepository) Get(ctx context.Context) (*device.Computer, error) {
	query := `
		SELECT computer_id, computer_name, registered_at, synced
		FROM computer
		LIMIT 1
	`

	var comp device.Computer
	var name sql.NullString
	var registeredAt sql.NullTime
	var synced int
	err := r.db.QueryRowContext(ctx, query).Scan(&comp.ID, &name, &registeredAt, &synced)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get computer: %w", err)
	}

	comp.Name = name.String
	if registeredAt.Valid {
		comp.RegisteredAt = registeredAt.Time
	}
	comp.Synced = synced == 1

	return &comp, nil
}

// MarkSynced flags the computer registration as pushed to remote
func (r *ComputerRepository) MarkSynced(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE computer SET synced = 1`); err != nil {
		return fmt.Errorf("failed to mark computer synced: %w", err)
	}
	return nil
}

// IsSynced reports whether the registration has been pushed to remote
func (r *ComputerRepository) IsSynced(ctx context.Context) (bool, error) {
	var synced int
	err := r.db.QueryRowContext(ctx, `SELECT synced FROM computer LIMIT 1`).Scan(&synced)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check computer sync: %w", err)
	}
	return synced == 1, nil
}
