package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskwatch/agent/internal/repository"
	"github.com/deskwatch/agent/internal/sqlite"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show local state and pending sync counts",
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

		ctx := cmd.Context()

		comp, err := sqlite.NewComputerRepository(db).Get(ctx)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			fmt.Println("Computer:  not registered (run the agent once)")
		case err != nil:
			return err
		default:
			fmt.Printf("Computer:  %s (%s)\n", comp.Name, comp.ID)
		}

		link, err := sqlite.NewUserLinkRepository(db).Get(ctx)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			fmt.Println("Account:   not linked")
		case err != nil:
			return err
		default:
			fmt.Printf("Account:   %s (linked %s)\n", link.UserID, link.LinkedAt.Format("2006-01-02"))
		}

		open, err := sqlite.NewSessionRepository(db).Active(ctx)
		if err != nil {
			return err
		}
		if len(open) > 0 {
			fmt.Printf("Session:   active since %s\n", open[0].Start.Format("15:04:05"))
		} else {
			fmt.Println("Session:   none open")
		}

		counts, err := sqlite.NewStatsRepository(db).UnsyncedCounts(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Pending:   %d sessions, %d applications, %d file edits\n",
			counts.Sessions, counts.Applications, counts.FileEdits)
		return nil
	},
}
