package tracker

import (
	"context"
	"time"
)

// ApplicationStore persists foreground-application intervals.
type ApplicationStore interface {
	Start(ctx context.Context, log *ApplicationLog) (int64, error)
	End(ctx context.Context, id int64, end time.Time, durationSeconds int64) error
}

// FileEditStore persists file-edit observations.
type FileEditStore interface {
	Log(ctx context.Context, edit *FileEdit) (int64, error)
}

// ErrorSink records diagnostic entries that must not interrupt monitoring.
type ErrorSink interface {
	Log(ctx context.Context, errorType, message string) error
}

// SessionControl lets the tracker roll the session when the logged-in user
// changes mid-run.
type SessionControl interface {
	Restart(ctx context.Context, username string) (int64, error)
}

// WindowSource reports the foreground window and the logged-in user.
type WindowSource interface {
	// Foreground returns the foreground process name and window title.
	Foreground() (process, title string, err error)
	CurrentUser() (string, error)
}
