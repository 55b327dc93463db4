package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"luckystat/adapters/excel"

	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Load a draw history (.xlsx/.csv) or a web export bundle (.json)",
		Long: `Load data into the configured store.

A draw history replaces the number counts with the counts of its draws.
A web export bundle replaces the counts and restores both result slots.

Example: luckystat import luckystat-20251116.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			c, err := openContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			out := cmd.OutOrStdout()
			if strings.EqualFold(filepath.Ext(path), ".json") {
				raw, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				b, err := c.Transfer.Import(ctx, raw)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Imported %d occurrences", b.Stats.Stats.Total())
				if b.Current != nil {
					fmt.Fprintf(out, ", current results of %s", b.Current.Week.Key())
				}
				if b.LastWeek != nil {
					fmt.Fprintf(out, ", last week results of %s", b.LastWeek.Week.Key())
				}
				fmt.Fprintln(out)
				return nil
			}

			draws, err := excel.NewHistoryReader(path).ReadDraws()
			if err != nil {
				return err
			}
			snap, err := c.Stats.ImportHistory(ctx, draws)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d draws (%d occurrences)\n", len(draws), snap.Stats.Total())
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored counts and results as a web export bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := openContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			raw, err := c.Transfer.Export(ctx)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
				return err
			}
			return os.WriteFile(output, raw, 0o644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default stdout)")
	return cmd
}

func newStatsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the number counts, range shares and frequency profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := openContainer(ctx)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			rep, err := c.Stats.Report(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}

			fmt.Fprintf(out, "Occurrences: %d\n", rep.Profile.Total)
			fmt.Fprintf(out, "Mean %.2f  StdDev %.2f  Median %.1f  Q1 %.1f  Q3 %.1f\n",
				rep.Profile.Summary.Mean, rep.Profile.Summary.StdDev, rep.Profile.Summary.Median,
				rep.Profile.Summary.Q1, rep.Profile.Summary.Q3)
			fmt.Fprintf(out, "Chi-square %.2f (df %d), p = %.4f\n",
				rep.Profile.Uniformity.ChiSquare, rep.Profile.Uniformity.DegreesOfFreedom, rep.Profile.Uniformity.PValue)
			fmt.Fprintln(out, "Ranges:")
			for _, r := range rep.Ranges {
				fmt.Fprintf(out, "  %-6s %5d  %5.1f%%\n", r.Range, r.Count, r.Percent)
			}
			fmt.Fprint(out, "Hot:")
			for _, nc := range rep.Profile.Hot {
				fmt.Fprintf(out, " %d(%d)", nc.Number, nc.Count)
			}
			fmt.Fprint(out, "\nCold:")
			for _, nc := range rep.Profile.Cold {
				fmt.Fprintf(out, " %d(%d)", nc.Number, nc.Count)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
