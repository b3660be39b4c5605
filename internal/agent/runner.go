package agent

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/deskwatch/agent/internal/config"
	"github.com/deskwatch/agent/internal/domain/session"
	"github.com/deskwatch/agent/internal/domain/tracker"
	syncengine "github.com/deskwatch/agent/internal/domain/sync"
	"github.com/deskwatch/agent/internal/remote"
	"github.com/deskwatch/agent/internal/sqlite"
	"github.com/deskwatch/agent/internal/window"
)

const shutdownTimeout = 15 * time.Second

// Runner owns the agent's loops: foreground sampling, sync ticks, command
// polling and the presence heartbeat, all under one cancellation context.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger

	db        *sqlite.DB
	lifecycle *session.Service
	tracker   *tracker.Service
	engine    *syncengine.Engine
	source    tracker.WindowSource
}

// New opens the local store, registers the computer and wires the services
// together. Call Run to start the loops and Close when done.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Runner, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}

	computers := sqlite.NewComputerRepository(db)
	sessions := sqlite.NewSessionRepository(db)
	apps := sqlite.NewApplicationRepository(db)
	edits := sqlite.NewFileEditRepository(db)
	errs := sqlite.NewErrorLogRepository(db)
	links := sqlite.NewUserLinkRepository(db)
	stats := sqlite.NewStatsRepository(db)

	source := window.New()
	computerName := describeComputer(source)

	computer, err := computers.Register(ctx, computerName)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Retention pass: drop archived rows past the offline window.
	cutoff := time.Now().AddDate(0, 0, -cfg.Sync.MaxOfflineDays)
	if pruned, err := stats.PruneSynced(ctx, cutoff); err != nil {
		logger.Warn("retention prune failed", "error", err)
	} else if pruned > 0 {
		logger.Info("pruned archived records", "rows", pruned)
	}

	lifecycle := session.NewService(sessions, errs, computer.ID, logger)
	track := tracker.NewService(apps, edits, errs, lifecycle, source,
		computer.ID, cfg.Monitor.TrackFileEdits, logger)

	client := remote.NewClient(cfg.Remote.BaseURL, cfg.RemoteTimeout())
	probe := remote.NewProbe(cfg.Remote.ProbeAddr, cfg.RemoteTimeout())

	engine := syncengine.NewEngine(syncengine.Deps{
		Client:    client,
		Probe:     probe,
		Computers: computers,
		Sessions:  sessions,
		Apps:      apps,
		Edits:     edits,
		Links:     links,
		Errors:    errs,
		Monitor:   lifecycle,
		Activity:  track,
	}, syncengine.Config{
		ComputerID:    computer.ID,
		ComputerName:  computerName,
		IPAddress:     localIP(cfg.Remote.ProbeAddr),
		LinkingCode:   cfg.Remote.LinkingCode,
		BatchSize:     cfg.Sync.BatchSize,
		RetryInterval: cfg.RetryInterval(),
	}, logger)
	lifecycle.SetSyncer(engine)

	return &Runner{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		lifecycle: lifecycle,
		tracker:   track,
		engine:    engine,
		source:    source,
	}, nil
}

// Run starts a session for the logged-in user and drives the loops until
// ctx is cancelled, then shuts down in order: sampling stops, the open
// interval closes, the session ends with a final flush.
func (r *Runner) Run(ctx context.Context) error {
	username, err := r.source.CurrentUser()
	if err != nil {
		return fmt.Errorf("failed to determine current user: %w", err)
	}

	if _, err := r.lifecycle.Start(ctx, username); err != nil {
		return err
	}
	if !r.cfg.Monitor.AutoStart {
		if err := r.lifecycle.Pause(ctx); err != nil {
			return err
		}
		r.logger.Info("monitoring started paused, waiting for remote command")
	}

	var wg sync.WaitGroup
	r.loop(ctx, &wg, r.cfg.PollInterval(), func(ctx context.Context) {
		if err := r.tracker.Poll(ctx); err != nil {
			r.logger.Warn("poll failed", "error", err)
		}
	})
	r.loop(ctx, &wg, r.cfg.SyncInterval(), func(ctx context.Context) {
		if _, err := r.engine.Tick(ctx); err != nil {
			r.logger.Warn("sync tick failed", "error", err)
		}
	})
	r.loop(ctx, &wg, r.cfg.CommandPollInterval(), func(ctx context.Context) {
		if _, err := r.engine.PollCommands(ctx); err != nil {
			r.logger.Warn("command poll failed", "error", err)
		}
	})
	r.loop(ctx, &wg, r.cfg.HeartbeatInterval(), func(ctx context.Context) {
		if err := r.engine.Heartbeat(ctx); err != nil {
			r.logger.Warn("heartbeat failed", "error", err)
		}
	})

	r.logger.Info("agent running",
		"poll", r.cfg.PollInterval(),
		"sync", r.cfg.SyncInterval())

	<-ctx.Done()
	wg.Wait()

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	r.tracker.Stop(stopCtx)
	if err := r.lifecycle.End(stopCtx); err != nil {
		r.logger.Warn("failed to end session on shutdown", "error", err)
	}
	r.logger.Info("agent stopped")
	return nil
}

// Close releases the local store.
func (r *Runner) Close() error {
	return r.db.Close()
}

func (r *Runner) loop(ctx context.Context, wg *sync.WaitGroup, interval time.Duration, fn func(context.Context)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn(ctx)
			}
		}
	}()
}

// describeComputer builds the "HOSTNAME - user" presence name.
func describeComputer(source tracker.WindowSource) string {
	host, err := os.Hostname()
	if err != nil {
		host = "Unknown"
	}
	user, err := source.CurrentUser()
	if err != nil || user == "" {
		return host
	}
	return host + " - " + user
}

// localIP reports the outbound interface address, for the presence
// document only.
func localIP(probeAddr string) string {
	conn, err := net.Dial("udp", probeAddr)
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}
