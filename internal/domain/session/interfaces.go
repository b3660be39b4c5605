package session

import (
	"context"
	"time"
)

// Repository provides session persistence for the lifecycle service.
type Repository interface {
	Start(ctx context.Context, computerID, username string, start time.Time) (int64, error)
	End(ctx context.Context, id int64, end time.Time) error
}

// ErrorSink records diagnostic entries that must not interrupt monitoring.
type ErrorSink interface {
	Log(ctx context.Context, errorType, message string) error
}

// Syncer pushes pending records to the remote store. The lifecycle calls it
// once after ending a session so the archive happens before shutdown.
type Syncer interface {
	FlushFinal(ctx context.Context) error
}
