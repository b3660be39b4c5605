package sync

import (
	"context"

	"github.com/deskwatch/agent/internal/domain/device"
	"github.com/deskwatch/agent/internal/domain/session"
	"github.com/deskwatch/agent/internal/domain/tracker"
)

// RemoteClient is the document-store surface the engine pushes to.
type RemoteClient interface {
	Get(ctx context.Context, path string, out any) (bool, error)
	Put(ctx context.Context, path string, doc any) error
	Patch(ctx context.Context, path string, fields any) error
	Delete(ctx context.Context, path string) error
	ResolveIdentity(ctx context.Context, code string) (string, error)
}

// ConnectivityProbe reports whether the network is reachable. A negative
// answer turns the tick into a pure local no-op.
type ConnectivityProbe interface {
	Online(ctx context.Context) bool
}

// ComputerStore tracks whether the computer document has been pushed.
type ComputerStore interface {
	IsSynced(ctx context.Context) (bool, error)
	MarkSynced(ctx context.Context) error
}

// SessionStore provides the session rows the engine mirrors and archives.
type SessionStore interface {
	Active(ctx context.Context) ([]session.Session, error)
	Unsynced(ctx context.Context, limit int) ([]session.Session, error)
	MarkSynced(ctx context.Context, ids []int64) error
}

// ApplicationStore provides closed application intervals for archival.
type ApplicationStore interface {
	Unsynced(ctx context.Context, limit int) ([]tracker.ApplicationLog, error)
	MarkSynced(ctx context.Context, ids []int64) error
}

// FileEditStore provides file-edit records for archival.
type FileEditStore interface {
	Unsynced(ctx context.Context, limit int) ([]tracker.FileEdit, error)
	MarkSynced(ctx context.Context, ids []int64) error
}

// LinkStore persists the resolved account binding.
type LinkStore interface {
	Get(ctx context.Context) (*device.UserLink, error)
	Save(ctx context.Context, userID string) error
}

// ErrorSink records diagnostic entries.
type ErrorSink interface {
	Log(ctx context.Context, errorType, message string) error
}

// Monitor is the lifecycle surface the engine mirrors and that remote
// commands drive.
type Monitor interface {
	Snapshot() session.Snapshot
	Paused() bool
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
}

// ActivitySource supplies the human-readable activity line for the active
// session mirror.
type ActivitySource interface {
	CurrentActivity() string
}
