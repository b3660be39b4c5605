package session

import "time"

// State represents the lifecycle state of the monitored session.
type State string

const (
	StateNone   State = "none"
	StateActive State = "active"
	StatePaused State = "paused"
	StateEnded  State = "ended"
)

// Session is one login/monitoring run. End is nil while the session is
// active; DurationMinutes is computed once at end and is at least 1 for any
// normally ended session (stale sessions closed at startup record 0).
type Session struct {
	ID              int64      `json:"id"`
	ComputerID      string     `json:"computer_id"`
	Username        string     `json:"username"`
	Start           time.Time  `json:"session_start"`
	End             *time.Time `json:"session_end,omitempty"`
	DurationMinutes int64      `json:"duration_minutes"`
	Synced          bool       `json:"synced"`
}

// Active reports whether the session has no recorded end time.
func (s Session) Active() bool {
	return s.End == nil
}

// Snapshot describes the lifecycle's current session for observers.
type Snapshot struct {
	State     State
	SessionID int64
	Username  string
	StartedAt time.Time
}
