package main

import (
	"fmt"

	"luckystat/adapters/sqlstore"
	"luckystat/internal/errors"
	"luckystat/internal/migration"
	"luckystat/internal/server"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations to DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if !cfg.UsesDatabase() {
				return errors.ConfigInvalid("DATABASE_URL is required")
			}

			db, err := sqlstore.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if reset {
				logger.Warn("dropping all tables")
				if err := migration.Reset(ctx, db); err != nil {
					return err
				}
			}

			runner := migration.NewRunner()
			if err := runner.Run(ctx, db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is at %s\n", runner.Version())
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Drop every table before migrating")
	return cmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API, the ops endpoints and the weekly scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return server.Run(ctx, cfg, logger)
		},
	}
}
