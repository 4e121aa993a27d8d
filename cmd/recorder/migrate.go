package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/recorder/bootstrap"
	"github.com/kbukum/recorder/conversation"
	"github.com/kbukum/recorder/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending record store migrations",
	Long: `Apply pending record store migrations and exit.

The database is selected by database.dsn or DATABASE_URL. Migrations already
recorded in schema_migrations are skipped.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Migrations run explicitly below.
	cfg.Database.AutoMigrate = false

	app, err := bootstrap.NewApp(cfg, bootstrap.WithSummaryOutput(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	db := database.NewComponent(cfg.Database, app.Logger)
	if err := app.RegisterComponent(db); err != nil {
		return err
	}

	return app.RunTask(cmd.Context(), func(ctx context.Context) error {
		applied, err := database.NewRunner(db.DB().GormDB, app.Logger, conversation.Migrations()...).Run(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(applied) == 0 {
			fmt.Fprintln(out, "No pending migrations")
			return nil
		}
		for _, id := range applied {
			fmt.Fprintf(out, "Applied %s\n", id)
		}
		return nil
	})
}
