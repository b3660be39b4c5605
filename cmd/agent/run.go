package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/deskwatch/agent/internal/agent"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start monitoring and syncing",
	Long: `Run starts the agent loops: foreground window sampling, the sync
tick, remote command polling and the presence heartbeat. It records
locally even while offline and catches up when the network returns.
Stop with Ctrl+C; the open session is closed and flushed on the way out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		runner, err := agent.New(ctx, &cfg, logger)
		if err != nil {
			return err
		}
		defer runner.Close()

		return runner.Run(ctx)
	},
}
