package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const finalFlushTimeout = 10 * time.Second

// Service is the session lifecycle state machine. All transitions are
// serialized; when End races a concurrent Pause or Resume, End wins and the
// later transition fails its state guard.
type Service struct {
	sessions   Repository
	errs       ErrorSink
	logger     *slog.Logger
	computerID string

	mu     sync.Mutex
	syncer Syncer
	state  State
	id     int64
	user   string
	start  time.Time
}

// NewService creates a lifecycle service for the given computer.
func NewService(sessions Repository, errs ErrorSink, computerID string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions:   sessions,
		errs:       errs,
		logger:     logger,
		computerID: computerID,
		state:      StateNone,
	}
}

// SetSyncer wires the sync engine in after construction. The engine needs
// the lifecycle for its state mirror, so one of the two is wired late.
func (s *Service) SetSyncer(syncer Syncer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncer = syncer
}

// Start opens a new session for username.
func (s *Service) Start(ctx context.Context, username string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateActive || s.state == StatePaused {
		return 0, ErrAlreadyStarted
	}

	now := time.Now()
	id, err := s.sessions.Start(ctx, s.computerID, username, now)
	if err != nil {
		return 0, fmt.Errorf("failed to start session: %w", err)
	}

	s.state = StateActive
	s.id = id
	s.user = username
	s.start = now

	s.logger.Info("session started", "session_id", id, "username", username)
	return id, nil
}

// Pause suspends visibility without stopping tracking. Local recording
// continues; only the remote mirror reports the pause.
func (s *Service) Pause(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrNotActive
	}
	s.state = StatePaused
	s.logger.Info("session paused", "session_id", s.id)
	return nil
}

// Resume returns a paused session to active.
func (s *Service) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return ErrNotPaused
	}
	s.state = StateActive
	s.logger.Info("session resumed", "session_id", s.id)
	return nil
}

// End closes the open session and runs one final flush so the completed
// session reaches the remote store before the process exits. The flush is
// bounded; a flush failure leaves the session locally recorded and
// unsynced, which a later run will archive.
func (s *Service) End(ctx context.Context) error {
	s.mu.Lock()

	if s.state != StateActive && s.state != StatePaused {
		s.mu.Unlock()
		return ErrNoSession
	}

	id := s.id
	syncer := s.syncer
	if err := s.sessions.End(ctx, id, time.Now()); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to end session: %w", err)
	}

	s.state = StateEnded
	s.id = 0
	s.user = ""
	s.mu.Unlock()

	s.logger.Info("session ended", "session_id", id)

	if syncer != nil {
		flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalFlushTimeout)
		defer cancel()
		if err := syncer.FlushFinal(flushCtx); err != nil {
			s.logger.Warn("final flush failed, session remains queued", "error", err)
			if s.errs != nil {
				s.errs.Log(ctx, "SyncError", fmt.Sprintf("final flush: %v", err))
			}
		}
	}
	return nil
}

// Restart ends the open session without a final flush and starts a new one
// for username. Used when the logged-in user changes mid-run.
func (s *Service) Restart(ctx context.Context, username string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateActive || s.state == StatePaused {
		if err := s.sessions.End(ctx, s.id, time.Now()); err != nil {
			return 0, fmt.Errorf("failed to end session for user change: %w", err)
		}
		s.logger.Info("session ended for user change", "session_id", s.id, "next_user", username)
		s.state = StateEnded
		s.id = 0
		s.user = ""
	}

	now := time.Now()
	id, err := s.sessions.Start(ctx, s.computerID, username, now)
	if err != nil {
		return 0, fmt.Errorf("failed to start session: %w", err)
	}

	s.state = StateActive
	s.id = id
	s.user = username
	s.start = now
	return id, nil
}

// Paused reports whether the session is in the paused state.
func (s *Service) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StatePaused
}

// Snapshot returns the current lifecycle state for observers.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:     s.state,
		SessionID: s.id,
		Username:  s.user,
		StartedAt: s.start,
	}
}
