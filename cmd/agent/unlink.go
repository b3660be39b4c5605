package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskwatch/agent/internal/sqlite"
)

var unlinkForce bool

var unlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Remove the account binding and wipe local data",
	Long: `Unlink removes the stored account binding and deletes all locally
recorded sessions, application logs and file edits, so the next link
starts from a clean slate. Unsynced records are lost.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !unlinkForce {
			return fmt.Errorf("unlink wipes all local data; re-run with --force to confirm")
		}

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

		if err := sqlite.NewUserLinkRepository(db).Clear(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Unlinked; local data wiped")
		return nil
	},
}

func init() {
	unlinkCmd.Flags().BoolVar(&unlinkForce, "force", false, "confirm wiping local data")
}
