package main

import (
	"fmt"
	"io"
	"time"

	"luckystat/domain/week"

	"github.com/spf13/cobra"
)

func newWeekCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the week, seed and boundary of an instant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := parseAt(at)
			if err != nil {
				return err
			}
			printWeek(cmd.OutOrStdout(), now)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Instant to describe, RFC3339 (default now)")
	return cmd
}

func printWeek(out io.Writer, now time.Time) {
	id := week.Current(now)
	fmt.Fprintf(out, "Week:     %s\n", id.Key())
	fmt.Fprintf(out, "Seed:     %d\n", week.SeedFor(id))
	fmt.Fprintf(out, "Started:  %s KST\n", week.FormatBoundary(id.Boundary))
	fmt.Fprintf(out, "Next:     %s KST\n", week.FormatBoundary(week.NextBoundary(now)))
}

func newCountdownCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "countdown",
		Short: "Show the time left until the next update (DD:HH:MM:SS)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := parseAt(at)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s until %s KST\n",
				week.FormatRemaining(week.Remaining(now)),
				week.FormatBoundary(week.NextBoundary(now)))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Instant to count from, RFC3339 (default now)")
	return cmd
}
