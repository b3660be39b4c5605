package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/deskwatch/agent/internal/domain/session"
	"github.com/deskwatch/agent/internal/remote"
	"github.com/deskwatch/agent/internal/repository"
)

const (
	presenceInterval = 30 * time.Second
	maxBackoff       = time.Hour
	minAppDuration   = 1 // seconds; shorter intervals are dropped remotely
)

// Deps bundles everything the engine pushes from and to.
type Deps struct {
	Client    RemoteClient
	Probe     ConnectivityProbe
	Computers ComputerStore
	Sessions  SessionStore
	Apps      ApplicationStore
	Edits     FileEditStore
	Links     LinkStore
	Errors    ErrorSink
	Monitor   Monitor
	Activity  ActivitySource
}

// Config holds the static inputs of the engine.
type Config struct {
	ComputerID    string
	ComputerName  string
	IPAddress     string
	LinkingCode   string
	BatchSize     int
	RetryInterval time.Duration
}

// Engine is the eventual-consistency push loop. Local SQLite is the source
// of truth; every tick mirrors live state and drains unsynced rows to the
// remote store. Ticks while offline touch nothing remote.
type Engine struct {
	deps   Deps
	cfg    Config
	logger *slog.Logger

	mu           sync.Mutex
	userID       string
	presencePush bool
	lastPresence time.Time
	failures     int
	nextRetry    time.Time
	offline      bool
	startedAt    time.Time
	seenCommands map[string]struct{}
}

// NewEngine creates a sync engine. It performs no remote calls until the
// first tick.
func NewEngine(deps Deps, cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 5 * time.Minute
	}
	return &Engine{
		deps:         deps,
		cfg:          cfg,
		logger:       logger,
		startedAt:    time.Now(),
		seenCommands: make(map[string]struct{}),
	}
}

// Tick runs one sync pass: connectivity gate, identity, presence, active
// mirror, then archival of completed sessions, application intervals and
// file edits. A partial failure leaves the remaining rows queued for the
// next tick; nothing is marked synced before its remote write succeeded.
func (e *Engine) Tick(ctx context.Context) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := time.Now()
	if e.failures > 0 && now.Before(e.nextRetry) {
		return Result{Offline: e.offline}, nil
	}

	if !e.deps.Probe.Online(ctx) {
		if !e.offline {
			e.logger.Info("network unreachable, entering offline mode")
		}
		e.offline = true
		return Result{Offline: true}, nil
	}

	if err := e.ensureIdentity(ctx); err != nil {
		e.recordFailure(ctx, "IdentityError", err)
		return Result{}, err
	}

	wasOffline := e.offline
	if wasOffline {
		e.logger.Info("network restored, resuming sync")
	}
	e.offline = false

	var result Result
	if err := e.ensurePresence(ctx, wasOffline); err != nil {
		e.recordFailure(ctx, "ComputerSyncError", err)
		return result, err
	}
	if err := e.mirrorActive(ctx, &result); err != nil {
		e.recordFailure(ctx, "SessionSyncError", err)
		return result, err
	}
	if err := e.archiveSessions(ctx, &result); err != nil {
		e.recordFailure(ctx, "SessionSyncError", err)
		return result, err
	}
	if err := e.archiveApplications(ctx, &result); err != nil {
		e.recordFailure(ctx, "ApplicationSyncError", err)
		return result, err
	}
	if err := e.archiveFileEdits(ctx, &result); err != nil {
		e.recordFailure(ctx, "FileEditSyncError", err)
		return result, err
	}

	// A session or application push refreshes presence regardless of the
	// throttle, so the dashboard sees fresh data with a fresh lastSeen.
	if result.Sessions > 0 || result.Applications > 0 {
		if err := e.patchStatus(ctx); err != nil {
			e.recordFailure(ctx, "ComputerSyncError", err)
			return result, err
		}
	}

	e.failures = 0
	if result.Total() > 0 {
		e.logger.Info("sync tick complete",
			"sessions", result.Sessions,
			"applications", result.Applications,
			"file_edits", result.FileEdits)
	}
	return result, nil
}

// ensureIdentity resolves the account this computer reports to, preferring
// the stored link over the configured linking code.
func (e *Engine) ensureIdentity(ctx context.Context) error {
	if e.userID != "" {
		return nil
	}

	link, err := e.deps.Links.Get(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to load user link: %w", err)
	}
	if link != nil {
		e.userID = link.UserID
		return nil
	}

	if e.cfg.LinkingCode == "" {
		return fmt.Errorf("not linked and no linking code configured")
	}

	userID, err := e.deps.Client.ResolveIdentity(ctx, e.cfg.LinkingCode)
	if err != nil {
		return fmt.Errorf("failed to resolve linking code: %w", err)
	}
	if err := e.deps.Links.Save(ctx, userID); err != nil {
		return fmt.Errorf("failed to save user link: %w", err)
	}

	e.userID = userID
	e.logger.Info("linked to account", "user_id", userID)
	return nil
}

// ensurePresence pushes the computer document on the first online tick of
// a run and throttled status updates afterwards.
func (e *Engine) ensurePresence(ctx context.Context, force bool) error {
	now := time.Now()
	path := remote.ComputerPath(e.userID, e.cfg.ComputerID)

	if !e.presencePush {
		synced, err := e.deps.Computers.IsSynced(ctx)
		if err != nil {
			return fmt.Errorf("failed to check computer sync state: %w", err)
		}
		if !synced {
			doc := remote.ComputerDoc{
				ID:           e.cfg.ComputerID,
				Name:         e.cfg.ComputerName,
				IPAddress:    e.cfg.IPAddress,
				Status:       e.status(),
				LastSeen:     remote.Timestamp(now),
				RegisteredAt: remote.Timestamp(now),
			}
			if err := e.deps.Client.Put(ctx, path, doc); err != nil {
				return err
			}
			if err := e.deps.Computers.MarkSynced(ctx); err != nil {
				return fmt.Errorf("failed to mark computer synced: %w", err)
			}
		}
		if err := e.cleanupStaleActive(ctx); err != nil {
			// A failed cleanup never blocks the rest of the tick.
			e.logger.Warn("stale active cleanup failed", "error", err)
		}
		e.presencePush = true
		e.lastPresence = now
		return nil
	}

	if !force && now.Sub(e.lastPresence) < presenceInterval {
		return nil
	}
	return e.patchStatus(ctx)
}

// patchStatus refreshes status and lastSeen on the computer document.
func (e *Engine) patchStatus(ctx context.Context) error {
	now := time.Now()
	err := e.deps.Client.Patch(ctx, remote.ComputerPath(e.userID, e.cfg.ComputerID), map[string]any{
		"status":   e.status(),
		"lastSeen": remote.Timestamp(now),
	})
	if err != nil {
		return err
	}
	e.lastPresence = now
	return nil
}

// cleanupStaleActive removes every remote active-session document left by
// earlier runs of this computer. The current run re-mirrors its own
// session on the same tick.
func (e *Engine) cleanupStaleActive(ctx context.Context) error {
	var docs map[string]remote.ActiveSessionDoc
	found, err := e.deps.Client.Get(ctx, remote.ActiveSessionsPath(e.userID), &docs)
	if err != nil || !found {
		return err
	}

	for docID, doc := range docs {
		if doc.ComputerID != e.cfg.ComputerID {
			continue
		}
		path := remote.ActiveSessionsPath(e.userID) + "/" + docID
		if err := e.deps.Client.Delete(ctx, path); err != nil {
			e.logger.Warn("failed to delete stale active session", "doc", docID, "error", err)
			continue
		}
		e.logger.Info("removed stale active session", "doc", docID)
	}
	return nil
}

// mirrorActive pushes the open session to sessions/active. The document is
// created once with its start time; later ticks only patch the activity
// line and status so the recorded start never drifts.
func (e *Engine) mirrorActive(ctx context.Context, result *Result) error {
	snap := e.deps.Monitor.Snapshot()
	if snap.State != session.StateActive && snap.State != session.StatePaused {
		return nil
	}

	activity := e.deps.Activity.CurrentActivity()
	if activity == "" {
		activity = "Idle"
	}
	status := "active"
	if snap.State == session.StatePaused {
		status = "paused"
	}

	path := remote.ActiveSessionPath(e.userID, e.cfg.ComputerID, snap.SessionID)
	found, err := e.deps.Client.Get(ctx, path, nil)
	if err != nil {
		return err
	}

	if found {
		err = e.deps.Client.Patch(ctx, path, map[string]any{
			"currentActivity": activity,
			"status":          status,
		})
	} else {
		err = e.deps.Client.Put(ctx, path, remote.ActiveSessionDoc{
			ComputerID:      e.cfg.ComputerID,
			ComputerName:    e.cfg.ComputerName,
			UserID:          snap.Username,
			UserName:        snap.Username,
			StartTime:       remote.Timestamp(snap.StartedAt),
			CurrentActivity: activity,
			Status:          status,
		})
	}
	if err != nil {
		return err
	}

	result.ActiveSessions++
	return nil
}

// archiveSessions moves completed sessions to history, removes their
// active mirror and marks them synced, in that order.
func (e *Engine) archiveSessions(ctx context.Context, result *Result) error {
	sessions, err := e.deps.Sessions.Unsynced(ctx, e.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to load unsynced sessions: %w", err)
	}

	var synced []int64
	for _, sess := range sessions {
		doc := remote.HistorySessionDoc{
			ComputerID:    sess.ComputerID,
			ComputerName:  e.cfg.ComputerName,
			UserID:        sess.Username,
			UserName:      sess.Username,
			StartTime:     remote.Timestamp(sess.Start),
			EndTime:       remote.Timestamp(*sess.End),
			TotalDuration: sess.DurationMinutes,
			Date:          remote.DateKey(sess.Start),
			Status:        "completed",
		}
		if err := e.deps.Client.Put(ctx, remote.HistorySessionPath(e.userID, sess.ComputerID, sess.ID), doc); err != nil {
			break
		}
		// The active mirror may already be gone; that is fine.
		activePath := remote.ActiveSessionPath(e.userID, sess.ComputerID, sess.ID)
		if err := e.deps.Client.Delete(ctx, activePath); err != nil {
			e.logger.Warn("failed to delete active mirror", "session_id", sess.ID, "error", err)
		}
		synced = append(synced, sess.ID)
	}

	if len(synced) > 0 {
		if err := e.deps.Sessions.MarkSynced(ctx, synced); err != nil {
			return fmt.Errorf("failed to mark sessions synced: %w", err)
		}
		result.Sessions += len(synced)
	}
	if len(synced) < len(sessions) {
		return fmt.Errorf("archived %d of %d sessions", len(synced), len(sessions))
	}
	return nil
}

func (e *Engine) archiveApplications(ctx context.Context, result *Result) error {
	apps, err := e.deps.Apps.Unsynced(ctx, e.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to load unsynced applications: %w", err)
	}

	var synced []int64
	for _, app := range apps {
		// Sub-second flickers stay local.
		if app.DurationSeconds >= minAppDuration {
			doc := remote.ActivityDoc{
				ComputerID:      app.ComputerID,
				UserName:        app.Username,
				ApplicationName: app.ApplicationName,
				WindowTitle:     app.WindowTitle,
				StartTime:       remote.Timestamp(app.Start),
				EndTime:         remote.Timestamp(*app.End),
				DurationSeconds: app.DurationSeconds,
			}
			if err := e.deps.Client.Put(ctx, remote.ActivityPath(e.userID, app.ComputerID, app.ID), doc); err != nil {
				break
			}
		}
		synced = append(synced, app.ID)
	}

	if len(synced) > 0 {
		if err := e.deps.Apps.MarkSynced(ctx, synced); err != nil {
			return fmt.Errorf("failed to mark applications synced: %w", err)
		}
		result.Applications += len(synced)
	}
	if len(synced) < len(apps) {
		return fmt.Errorf("archived %d of %d applications", len(synced), len(apps))
	}
	return nil
}

func (e *Engine) archiveFileEdits(ctx context.Context, result *Result) error {
	edits, err := e.deps.Edits.Unsynced(ctx, e.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to load unsynced file edits: %w", err)
	}

	var synced []int64
	for _, edit := range edits {
		doc := remote.FileEditDoc{
			ComputerID:  edit.ComputerID,
			UserName:    edit.Username,
			FileName:    edit.FileName,
			FilePath:    edit.FilePath,
			Application: edit.Application,
			EditTime:    remote.Timestamp(edit.EditTime),
		}
		if err := e.deps.Client.Put(ctx, remote.FileEditPath(e.userID, edit.ComputerID, edit.ID), doc); err != nil {
			break
		}
		synced = append(synced, edit.ID)
	}

	if len(synced) > 0 {
		if err := e.deps.Edits.MarkSynced(ctx, synced); err != nil {
			return fmt.Errorf("failed to mark file edits synced: %w", err)
		}
		result.FileEdits += len(synced)
	}
	if len(synced) < len(edits) {
		return fmt.Errorf("archived %d of %d file edits", len(synced), len(edits))
	}
	return nil
}

// FlushFinal runs one last archival pass and reports the computer offline.
// Called once after the session ends, before shutdown.
func (e *Engine) FlushFinal(ctx context.Context) error {
	e.mu.Lock()
	// Shutdown ignores the backoff gate; this is the last chance.
	e.failures = 0
	e.nextRetry = time.Time{}
	e.mu.Unlock()

	if _, err := e.Tick(ctx); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.userID == "" || e.offline {
		return nil
	}
	return e.deps.Client.Patch(ctx, remote.ComputerPath(e.userID, e.cfg.ComputerID), map[string]any{
		"status":   "offline",
		"lastSeen": remote.Timestamp(time.Now()),
	})
}

// Heartbeat refreshes lastSeen so the dashboard can tell a paused agent
// from a dead one. It skips quietly while offline or unlinked.
func (e *Engine) Heartbeat(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.userID == "" || e.offline || !e.presencePush {
		return nil
	}
	err := e.deps.Client.Patch(ctx, remote.ComputerPath(e.userID, e.cfg.ComputerID), map[string]any{
		"status":   e.status(),
		"lastSeen": remote.Timestamp(time.Now()),
	})
	if err == nil {
		e.lastPresence = time.Now()
	}
	return err
}

// Offline reports whether the engine is currently in offline mode.
func (e *Engine) Offline() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.offline
}

func (e *Engine) status() string {
	if e.deps.Monitor != nil && e.deps.Monitor.Paused() {
		return "paused"
	}
	return "online"
}

func (e *Engine) recordFailure(ctx context.Context, errorType string, err error) {
	e.failures++
	backoff := e.cfg.RetryInterval * (1 << min(e.failures-1, 4))
	if backoff > maxBackoff {
		backoff = maxBackoff
	}
	e.nextRetry = time.Now().Add(backoff)

	e.logger.Warn("sync failure", "type", errorType, "failures", e.failures,
		"retry_in", backoff, "error", err)
	if e.deps.Errors != nil {
		e.deps.Errors.Log(ctx, errorType, err.Error())
	}
}
