package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/hall-config-editor/internal/config"
	"github.com/iliyamo/hall-config-editor/internal/database"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadDatabase()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			db, err := database.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return database.Migrate(ctx, db)
		},
	}
}
