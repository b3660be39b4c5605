package agent_test

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/deskwatch/agent/internal/agent"
	"github.com/deskwatch/agent/internal/config"
	"github.com/deskwatch/agent/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// closedAddr returns an address nothing listens on, so the connectivity
// probe reports offline and the runner never reaches out.
func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.DB.Path = filepath.Join(t.TempDir(), "agent.db")
	cfg.Remote.ProbeAddr = closedAddr(t)
	cfg.Remote.TimeoutSecs = 1
	cfg.Monitor.PollSecs = 1
	cfg.Sync.IntervalSecs = 1
	return &cfg
}

func TestRunnerStartStopRecordsSession(t *testing.T) {
	cfg := testConfig(t)

	runner, err := agent.New(context.Background(), cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("runner did not shut down")
	}
	require.NoError(t, runner.Close())

	// The session opened by Run must be closed on shutdown.
	db, err := sqlite.New(cfg.DB.Path)
	require.NoError(t, err)
	defer db.Close()

	sessions := sqlite.NewSessionRepository(db)
	open, err := sessions.Active(context.Background())
	require.NoError(t, err)
	require.Empty(t, open)

	pending, err := sessions.Unsynced(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestRunnerRegistersComputerOnce(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	first, err := agent.New(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := agent.New(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, second.Close())

	db, err := sqlite.New(cfg.DB.Path)
	require.NoError(t, err)
	defer db.Close()

	computers := sqlite.NewComputerRepository(db)
	comp, err := computers.Get(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, comp.ID)
}
