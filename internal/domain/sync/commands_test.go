package sync_test

import (
	"context"
	"testing"
	"time"

	"github.com/deskwatch/agent/internal/domain/session"
	"github.com/deskwatch/agent/internal/remote"
	"github.com/stretchr/testify/require"
)

// primeCommands links the engine and installs pending commands, returning
// the fixture ready for PollCommands.
func primeCommands(t *testing.T, commands map[string]remote.CommandDoc) *engineFixture {
	t.Helper()
	f := newFixture(t)
	f.linked()
	f.monitor.snapshot = session.Snapshot{
		State: session.StateActive, SessionID: 7, Username: "alice", StartedAt: time.Now(),
	}

	// One tick to resolve identity before commands are polled.
	_, err := f.engine.Tick(context.Background())
	require.NoError(t, err)

	f.client.store["users/user-1/commands"] = commands
	return f
}

func freshCommand(cmdType, computerID string) remote.CommandDoc {
	return remote.CommandDoc{
		Type:       cmdType,
		ComputerID: computerID,
		CreatedAt:  remote.Timestamp(time.Now().Add(time.Second)),
	}
}

func TestPollCommandsPausesAndDeletes(t *testing.T) {
	f := primeCommands(t, map[string]remote.CommandDoc{
		"cmd1": freshCommand("stop_monitoring", "comp-1"),
	})

	executed, err := f.engine.PollCommands(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, executed)
	require.Equal(t, 1, f.monitor.pauses)
	require.Contains(t, f.client.deletes, "users/user-1/commands/cmd1")
}

func TestPollCommandsResume(t *testing.T) {
	f := primeCommands(t, map[string]remote.CommandDoc{
		"cmd1": freshCommand("start_monitoring", "comp-1"),
	})
	require.NoError(t, f.monitor.Pause(context.Background()))

	executed, err := f.engine.PollCommands(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, executed)
	require.Equal(t, 1, f.monitor.resumes)
}

func TestPollCommandsIgnoresOtherComputers(t *testing.T) {
	f := primeCommands(t, map[string]remote.CommandDoc{
		"cmd1": freshCommand("stop_monitoring", "comp-other"),
	})

	executed, err := f.engine.PollCommands(context.Background())
	require.NoError(t, err)
	require.Zero(t, executed)
	require.Zero(t, f.monitor.pauses)
}

func TestPollCommandsSkipsStaleCommands(t *testing.T) {
	f := primeCommands(t, map[string]remote.CommandDoc{
		"cmd1": {
			Type:       "stop_monitoring",
			ComputerID: "comp-1",
			CreatedAt:  remote.Timestamp(time.Now().Add(-time.Hour)),
		},
	})

	executed, err := f.engine.PollCommands(context.Background())
	require.NoError(t, err)
	require.Zero(t, executed)
	require.Zero(t, f.monitor.pauses)
}

func TestPollCommandsDeduplicates(t *testing.T) {
	f := primeCommands(t, map[string]remote.CommandDoc{
		"cmd1": freshCommand("stop_monitoring", "comp-1"),
	})

	ctx := context.Background()
	_, err := f.engine.PollCommands(ctx)
	require.NoError(t, err)

	// The delete lagged: the command is still listed on the next poll.
	f.client.store["users/user-1/commands"] = map[string]remote.CommandDoc{
		"cmd1": freshCommand("stop_monitoring", "comp-1"),
	}

	executed, err := f.engine.PollCommands(ctx)
	require.NoError(t, err)
	require.Zero(t, executed)
	require.Equal(t, 1, f.monitor.pauses)
}

func TestPollCommandsUnknownTypeLeftInPlace(t *testing.T) {
	f := primeCommands(t, map[string]remote.CommandDoc{
		"cmd1": freshCommand("reboot", "comp-1"),
	})

	executed, err := f.engine.PollCommands(context.Background())
	require.NoError(t, err)
	require.Zero(t, executed)
	require.NotContains(t, f.client.deletes, "users/user-1/commands/cmd1")
}

func TestPollCommandsSkipsWhileUnlinked(t *testing.T) {
	f := newFixture(t)
	executed, err := f.engine.PollCommands(context.Background())
	require.NoError(t, err)
	require.Zero(t, executed)
	require.Zero(t, f.client.requestCount())
}
