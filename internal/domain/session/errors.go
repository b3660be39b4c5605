package session

import "errors"

var (
	// ErrNoSession indicates no session is currently open.
	ErrNoSession = errors.New("no open session")
	// ErrAlreadyStarted indicates a session is already open for this user.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrNotActive indicates the transition requires an active session.
	ErrNotActive = errors.New("session not active")
	// ErrNotPaused indicates the transition requires a paused session.
	ErrNotPaused = errors.New("session not paused")
)
