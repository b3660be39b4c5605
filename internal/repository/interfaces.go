package repository

import (
	"context"
	"time"

	"github.com/deskwatch/agent/internal/domain/device"
	"github.com/deskwatch/agent/internal/domain/session"
	"github.com/deskwatch/agent/internal/domain/tracker"
)

// ComputerRepository manages the single computer identity row
type ComputerRepository interface {
	// Register returns the existing computer or creates one with a fresh
	// UUID. Safe to call on every startup.
	Register(ctx context.Context, name string) (*device.Computer, error)
	Get(ctx context.Context) (*device.Computer, error)
	MarkSynced(ctx context.Context) error
	IsSynced(ctx context.Context) (bool, error)
}

// SessionRepository manages session persistence
type SessionRepository interface {
	// Start closes any stale open session first, then inserts a new open
	// session and returns its id.
	Start(ctx context.Context, computerID, username string, start time.Time) (int64, error)
	// End sets the end time and duration_minutes = max(1, round(elapsed/60s)).
	End(ctx context.Context, id int64, end time.Time) error
	// CloseStale force-closes every open session with zero duration and
	// marks it synced; returns the number of rows closed.
	CloseStale(ctx context.Context) (int64, error)
	Get(ctx context.Context, id int64) (*session.Session, error)
	Active(ctx context.Context) ([]session.Session, error)
	// Unsynced returns completed sessions only; open sessions are mirrored,
	// never archived.
	Unsynced(ctx context.Context, limit int) ([]session.Session, error)
	MarkSynced(ctx context.Context, ids []int64) error
}

// ApplicationRepository manages foreground-application intervals
type ApplicationRepository interface {
	Start(ctx context.Context, log *tracker.ApplicationLog) (int64, error)
	End(ctx context.Context, id int64, end time.Time, durationSeconds int64) error
	// Unsynced returns closed intervals only.
	Unsynced(ctx context.Context, limit int) ([]tracker.ApplicationLog, error)
	MarkSynced(ctx context.Context, ids []int64) error
}

// FileEditRepository manages file-edit records
type FileEditRepository interface {
	Log(ctx context.Context, edit *tracker.FileEdit) (int64, error)
	Unsynced(ctx context.Context, limit int) ([]tracker.FileEdit, error)
	MarkSynced(ctx context.Context, ids []int64) error
}

// ErrorLogRepository is the append-only diagnostic trail
type ErrorLogRepository interface {
	Log(ctx context.Context, errorType, message string) error
}

// UserLinkRepository manages the remote account binding
type UserLinkRepository interface {
	Get(ctx context.Context) (*device.UserLink, error)
	Save(ctx context.Context, userID string) error
	// Clear removes the link and wipes computer, session, application and
	// file-edit data so a new account starts from a clean slate.
	Clear(ctx context.Context) error
}

// UnsyncedCounts summarizes pending records per table
type UnsyncedCounts struct {
	Sessions     int
	Applications int
	FileEdits    int
}

// StatsRepository provides aggregate queries for status reporting
type StatsRepository interface {
	UnsyncedCounts(ctx context.Context) (UnsyncedCounts, error)
	// PruneSynced deletes synced rows older than the cutoff and returns the
	// number of rows removed.
	PruneSynced(ctx context.Context, cutoff time.Time) (int64, error)
}
