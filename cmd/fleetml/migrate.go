package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/jayakrishna0023/fleet-guardian/internal/logger"
	"github.com/jayakrishna0023/fleet-guardian/pkg/config"
	"github.com/jayakrishna0023/fleet-guardian/pkg/database"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	var list, status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				files, err := database.MigrationFiles()
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(cmd.OutOrStdout(), f)
				}
				return nil
			}

			cfg, err := root.load()
			if err != nil {
				return err
			}
			rt, err := openRuntime(cfg, true)
			if err != nil {
				return err
			}
			defer rt.Close()

			if status {
				return printMigrationStatus(cmd, rt.db)
			}
			return runMigrations(cfg, rt.db)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print the migrations in apply order and exit")
	cmd.Flags().BoolVar(&status, "status", false, "show which migrations the database has applied")
	return cmd
}

func runMigrations(cfg *config.Config, db *database.DB) error {
	timeout := cfg.Database.MigrationTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("Running database migrations")
	if err := database.NewMigrator(db).Run(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Migrations completed successfully")
	return nil
}

func printMigrationStatus(cmd *cobra.Command, db *database.DB) error {
	statuses, err := database.NewMigrator(db).Status(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MIGRATION\tAPPLIED")
	for _, s := range statuses {
		applied := "pending"
		if s.AppliedAt != nil {
			applied = s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\n", s.File, applied)
	}
	return w.Flush()
}
