package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/deskwatch/agent/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "deskwatch",
	Short: "Desktop activity monitoring agent",
	Long: `deskwatch records monitoring sessions, foreground application usage
and file edits into a local SQLite store and syncs them to the linked
account's cloud dashboard whenever the network allows.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd, linkCmd, statusCmd, unlinkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config error: %w", err)
	}
	return cfg, nil
}

// newLogger builds the agent logger. With a log path configured, output
// goes to a size-rotated file; otherwise to stderr.
func newLogger(cfg config.Config) *slog.Logger {
	var w io.Writer = os.Stderr
	if cfg.Log.Path != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.Log.Path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
