package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"luckystat/adapters/excel"
	"luckystat/adapters/legacy"
	"luckystat/app"
	"luckystat/domain/lotto"
	"luckystat/domain/week"
	"luckystat/internal/report"
	"luckystat/models"

	"github.com/spf13/cobra"
)

type generateOptions struct {
	at              string
	statsFile       string
	bundle          string
	bonus           bool
	asJSON          bool
	markdown        bool
	legacyWeighting bool
	xlsx            string
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the ten sets of a week without storing them",
		Long: `Generate the ten suggested sets of the week containing --at.

Counts come from --stats-file (xlsx or csv draw history), --bundle (a web export),
or the configured store, in that order.

Example: luckystat generate --at 2025-01-02T16:30:00+09:00 --stats-file history.xlsx --bonus`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.at, "at", "", "Instant inside the week, RFC3339 (default now)")
	cmd.Flags().StringVar(&opts.statsFile, "stats-file", "", "Draw history (.xlsx or .csv) to count numbers from")
	cmd.Flags().StringVar(&opts.bundle, "bundle", "", "Web export bundle (.json) to take counts from")
	cmd.Flags().BoolVar(&opts.bonus, "bonus", false, "Draw a bonus number per set")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the generation as JSON")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "Print the generation as a Markdown sheet")
	cmd.Flags().BoolVar(&opts.legacyWeighting, "legacy-weighting", false, "Weight picks against the fixed total of the web client")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "Also write the sets to this workbook")
	return cmd
}

func runGenerate(ctx context.Context, out io.Writer, opts generateOptions) error {
	at, err := parseAt(opts.at)
	if err != nil {
		return err
	}
	stats, err := loadStats(ctx, opts)
	if err != nil {
		return err
	}

	var pipelineOpts []app.PipelineOption
	if opts.legacyWeighting {
		pipelineOpts = append(pipelineOpts, app.WithLegacyWeighting())
	}
	if opts.bonus {
		pipelineOpts = append(pipelineOpts, app.WithBonus())
	}
	gen := app.NewPipeline(pipelineOpts...).Generate(at, stats)
	rec := models.NewResultRecord(gen.Week, gen.Seed, gen.Sets, gen.Bonuses, time.Now())

	if opts.xlsx != "" {
		if err := excel.WriteResults(opts.xlsx, rec); err != nil {
			return err
		}
	}

	switch {
	case opts.asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(gen)
	case opts.markdown:
		_, err := io.WriteString(out, report.Sheet{Record: rec}.Markdown())
		return err
	}

	fmt.Fprintf(out, "Week %s (%s KST), seed %d\n", gen.Week.Key(), week.FormatBoundary(gen.Week.Boundary), gen.Seed)
	for i, set := range gen.Sets {
		line := fmt.Sprintf("%2d. %-20s %s", i+1, set.String(), set.Strategy)
		if gen.Bonuses != nil {
			line += fmt.Sprintf("  +%d", gen.Bonuses[i])
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func loadStats(ctx context.Context, opts generateOptions) (lotto.NumberStats, error) {
	switch {
	case opts.statsFile != "":
		draws, err := excel.NewHistoryReader(opts.statsFile).ReadDraws()
		if err != nil {
			return lotto.NumberStats{}, err
		}
		stats := lotto.NewNumberStats()
		for _, d := range draws {
			if err := stats.Record(d.Numbers); err != nil {
				return stats, fmt.Errorf("round %d: %w", d.Round, err)
			}
		}
		return stats, nil

	case opts.bundle != "":
		raw, err := os.ReadFile(opts.bundle)
		if err != nil {
			return lotto.NumberStats{}, err
		}
		b, err := legacy.Decode(raw)
		if err != nil {
			return lotto.NumberStats{}, err
		}
		return b.Stats.Stats, nil
	}

	c, err := openContainer(ctx)
	if err != nil {
		return lotto.NumberStats{}, err
	}
	defer c.Shutdown(ctx)
	snap, err := c.Stats.Snapshot(ctx)
	return snap.Stats, err
}
