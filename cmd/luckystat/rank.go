package main

import (
	"fmt"
	"os"
	"strings"

	"luckystat/domain/lotto"
	"luckystat/internal/config"

	"github.com/spf13/cobra"
)

func newRankCmd() *cobra.Command {
	var round int
	var drawsFile string

	cmd := &cobra.Command{
		Use:   "rank n1 n2 n3 n4 n5 n6",
		Short: "Grade a combination against a published draw",
		Long: `Grade six numbers against a published draw: 1st (all six) to 5th (three).

Draws come from --draws-file, DRAWS_FILE, or the built-in list. Without --round
the latest draw is used.

Example: luckystat rank 26 30 33 38 39 21 --round 1198`,
		Args: cobra.ExactArgs(lotto.SetSize),
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers, err := lotto.ParseNumbers(strings.Join(args, " "))
			if err != nil {
				return err
			}

			if drawsFile == "" {
				drawsFile = os.Getenv("DRAWS_FILE")
			}
			draws, err := config.LoadDraws(drawsFile)
			if err != nil {
				return err
			}

			var draw lotto.Draw
			var ok bool
			if round > 0 {
				draw, ok = lotto.FindDraw(draws, round)
			} else {
				draw, ok = lotto.LatestDraw(draws)
			}
			if !ok {
				return fmt.Errorf("draw %d is not known", round)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Round %d (%s): %s +%d\n", draw.Round, draw.Date, lotto.NewCandidateSet(draw.Numbers, "").String(), draw.Bonus)
			if rank := lotto.Rank(numbers, draw); rank != lotto.NoPrize {
				fmt.Fprintf(out, "Rank: %d\n", rank)
			} else {
				fmt.Fprintln(out, "Rank: no prize")
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&round, "round", 0, "Draw round to grade against (default latest)")
	cmd.Flags().StringVar(&drawsFile, "draws-file", "", "YAML file listing the published draws")
	return cmd
}
