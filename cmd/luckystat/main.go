package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"luckystat/internal/config"
	"luckystat/internal/container"
	"luckystat/internal/logging"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "luckystat",
		Short:         "Weekly lottery number suggestions seeded by the draw week",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newWeekCmd(),
		newCountdownCmd(),
		newRankCmd(),
		newImportCmd(),
		newExportCmd(),
		newStatsCmd(),
		newMigrateCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// loadConfig reads the environment configuration and builds its logger
func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openContainer wires the stores for one-shot commands; the schedule never runs
func openContainer(ctx context.Context) (*container.Container, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Schedule.Enabled = false
	return container.New(ctx, cfg, logger)
}

// parseAt reads an RFC 3339 instant; empty means now
func parseAt(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --at (use RFC3339): %w", err)
	}
	return at, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
