package sync

import (
	"context"
	"errors"
	"time"

	"github.com/deskwatch/agent/internal/domain/session"
	"github.com/deskwatch/agent/internal/remote"
)

const (
	// Remote command types understood by the agent.
	cmdStopMonitoring  = "stop_monitoring"
	cmdStartMonitoring = "start_monitoring"

	maxSeenCommands = 512
)

// PollCommands fetches pending remote commands and executes the ones
// addressed to this computer. Commands created before the engine started
// are stale leftovers and are skipped; every executed command is deleted
// remotely and remembered so a lagging delete cannot replay it.
func (e *Engine) PollCommands(ctx context.Context) (int, error) {
	e.mu.Lock()
	if e.userID == "" || e.offline {
		e.mu.Unlock()
		return 0, nil
	}
	userID := e.userID
	startedAt := e.startedAt
	e.mu.Unlock()

	var commands map[string]remote.CommandDoc
	found, err := e.deps.Client.Get(ctx, remote.CommandsPath(userID), &commands)
	if err != nil || !found {
		return 0, err
	}

	executed := 0
	for id, cmd := range commands {
		if cmd.ComputerID != "" && cmd.ComputerID != e.cfg.ComputerID {
			continue
		}
		if e.commandSeen(id) {
			continue
		}
		if created, err := time.Parse(time.RFC3339, cmd.CreatedAt); err != nil || created.Before(startedAt) {
			continue
		}

		handled, err := e.execute(ctx, cmd.Type)
		if err != nil {
			e.logger.Warn("command failed", "command", cmd.Type, "error", err)
			continue
		}
		e.markCommandSeen(id)
		if !handled {
			continue
		}

		if err := e.deps.Client.Delete(ctx, remote.CommandPath(userID, id)); err != nil {
			e.logger.Warn("failed to delete executed command", "command_id", id, "error", err)
		}
		executed++
		e.logger.Info("executed remote command", "command", cmd.Type, "command_id", id)
	}
	return executed, nil
}

// execute runs a command. Transitions that are already satisfied count as
// handled; unknown command types are remembered but left in place.
func (e *Engine) execute(ctx context.Context, cmdType string) (bool, error) {
	switch cmdType {
	case cmdStopMonitoring:
		err := e.deps.Monitor.Pause(ctx)
		if errors.Is(err, session.ErrNotActive) {
			return true, nil
		}
		return err == nil, err
	case cmdStartMonitoring:
		err := e.deps.Monitor.Resume(ctx)
		if errors.Is(err, session.ErrNotPaused) {
			return true, nil
		}
		return err == nil, err
	default:
		e.logger.Warn("unknown remote command", "command", cmdType)
		return false, nil
	}
}

func (e *Engine) commandSeen(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.seenCommands[id]
	return ok
}

func (e *Engine) markCommandSeen(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.seenCommands) >= maxSeenCommands {
		e.seenCommands = make(map[string]struct{})
	}
	e.seenCommands[id] = struct{}{}
}
