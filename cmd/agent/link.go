package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskwatch/agent/internal/remote"
	"github.com/deskwatch/agent/internal/sqlite"
)

var linkCmd = &cobra.Command{
	Use:   "link <code>",
	Short: "Link this computer to an account",
	Long: `Link exchanges a linking code from the dashboard for the account it
belongs to and stores the binding locally. After linking, run picks up
the account automatically.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := sqlite.New(cfg.DB.Path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		if err := db.RunMigrations(); err != nil {
			return err
		}

		client := remote.NewClient(cfg.Remote.BaseURL, cfg.RemoteTimeout())
		userID, err := client.ResolveIdentity(cmd.Context(), args[0])
		if errors.Is(err, remote.ErrCodeNotFound) {
			return fmt.Errorf("linking code %q is unknown or inactive", args[0])
		}
		if err != nil {
			return err
		}

		if err := sqlite.NewUserLinkRepository(db).Save(cmd.Context(), userID); err != nil {
			return err
		}

		fmt.Printf("Linked to account %s\n", userID)
		return nil
	},
}
