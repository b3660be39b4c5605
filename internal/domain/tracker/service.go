package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Service samples the foreground window and turns the samples into
// application intervals and file-edit records. One Poll call is one sample;
// the runner drives the cadence.
type Service struct {
	apps     ApplicationStore
	edits    FileEditStore
	errs     ErrorSink
	sessions SessionControl
	source   WindowSource
	logger   *slog.Logger

	computerID string
	trackEdits bool

	mu        sync.Mutex
	username  string
	proc      string
	title     string
	logID     int64
	startedAt time.Time
	seenEdits map[string]struct{}
}

// NewService creates a tracking service for the given computer.
func NewService(
	apps ApplicationStore,
	edits FileEditStore,
	errs ErrorSink,
	sessions SessionControl,
	source WindowSource,
	computerID string,
	trackEdits bool,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		apps:       apps,
		edits:      edits,
		errs:       errs,
		sessions:   sessions,
		source:     source,
		logger:     logger,
		computerID: computerID,
		trackEdits: trackEdits,
		seenEdits:  make(map[string]struct{}),
	}
}

// Poll takes one foreground sample. Any change in the (process, title)
// pair closes the previous interval and opens a new one. Sampling errors
// are recorded and swallowed so one bad read never stops the loop.
func (s *Service) Poll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkUser(ctx); err != nil {
		return err
	}
	if s.username == "" {
		return nil
	}

	proc, title, err := s.source.Foreground()
	if err != nil {
		s.logError(ctx, "ApplicationCheckError", err)
		return nil
	}
	if proc == "" {
		return nil
	}

	if proc != s.proc || title != s.title {
		s.closeCurrent(ctx)
		s.openNew(ctx, proc, title)
	}

	if s.trackEdits {
		s.checkFileEdit(ctx, proc, title)
	}
	return nil
}

func (s *Service) checkUser(ctx context.Context) error {
	user, err := s.source.CurrentUser()
	if err != nil {
		s.logError(ctx, "SessionCheckError", err)
		return nil
	}
	if user == "" || user == s.username {
		return nil
	}

	first := s.username == ""
	s.closeCurrent(ctx)
	s.username = user
	s.seenEdits = make(map[string]struct{})

	if first {
		return nil
	}
	if _, err := s.sessions.Restart(ctx, user); err != nil {
		return fmt.Errorf("failed to restart session for %s: %w", user, err)
	}
	s.logger.Info("user changed, session restarted", "username", user)
	return nil
}

func (s *Service) openNew(ctx context.Context, proc, title string) {
	id, err := s.apps.Start(ctx, &ApplicationLog{
		ComputerID:      s.computerID,
		Username:        s.username,
		ApplicationName: proc,
		WindowTitle:     title,
		Start:           time.Now(),
	})
	if err != nil {
		s.logError(ctx, "ApplicationLogError", err)
		return
	}
	s.proc = proc
	s.title = title
	s.logID = id
	s.startedAt = time.Now()
}

func (s *Service) closeCurrent(ctx context.Context) {
	if s.logID == 0 {
		return
	}
	end := time.Now()
	duration := int64(end.Sub(s.startedAt).Seconds())
	if err := s.apps.End(ctx, s.logID, end, duration); err != nil {
		s.logError(ctx, "ApplicationLogError", err)
	}
	s.proc = ""
	s.title = ""
	s.logID = 0
}

func (s *Service) checkFileEdit(ctx context.Context, proc, title string) {
	name, ok := ExtractFileEdit(proc, title)
	if !ok {
		return
	}
	key := proc + "|" + name
	if _, seen := s.seenEdits[key]; seen {
		return
	}

	_, err := s.edits.Log(ctx, &FileEdit{
		ComputerID:  s.computerID,
		Username:    s.username,
		FileName:    name,
		Application: proc,
		EditTime:    time.Now(),
	})
	if err != nil {
		s.logError(ctx, "FileEditLogError", err)
		return
	}
	s.seenEdits[key] = struct{}{}
	s.logger.Debug("file edit recorded", "file", name, "application", proc)
}

// CurrentActivity returns the activity line for the remote session mirror,
// or an empty string when nothing is being tracked.
func (s *Service) CurrentActivity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Describe(s.proc, s.title)
}

// Stop closes the open interval. Called once during shutdown.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeCurrent(ctx)
}

func (s *Service) logError(ctx context.Context, errorType string, err error) {
	s.logger.Warn("tracking error", "type", errorType, "error", err)
	if s.errs != nil {
		s.errs.Log(ctx, errorType, err.Error())
	}
}
