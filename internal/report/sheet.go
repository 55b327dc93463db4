// Package report renders a published week as a Markdown or HTML sheet.
package report

import (
	"fmt"
	"strings"

	"luckystat/domain/lotto"
	"luckystat/domain/week"
	"luckystat/models"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Sheet is one week's results, optionally graded against a draw
type Sheet struct {
	Record models.ResultRecord
	Draw   *lotto.Draw
}

var strategyLabels = map[lotto.Strategy]string{
	lotto.StrategyRandom:              "Random",
	lotto.StrategyWeighted:            "Weighted",
	lotto.StrategyConsecutive:         "Consecutive",
	lotto.StrategyWeightedConsecutive: "Weighted + consecutive",
	lotto.StrategyExcludeBottom:       "Cold numbers excluded",
}

func rankLabel(rank int) string {
	if rank == lotto.NoPrize {
		return "-"
	}
	return fmt.Sprintf("%d등", rank)
}

// Markdown renders the sheet as a Markdown document with one table row per set
func (s Sheet) Markdown() string {
	rec := s.Record
	var b strings.Builder

	fmt.Fprintf(&b, "# LuckyStat %s\n\n", rec.Week.Key())
	fmt.Fprintf(&b, "Week starting %s KST, seed %d.\n\n", week.FormatBoundary(rec.Week.Boundary), rec.Seed)
	if s.Draw != nil {
		fmt.Fprintf(&b, "Graded against round %d (%s): %s + %d.\n\n",
			s.Draw.Round, s.Draw.Date, lotto.NewCandidateSet(s.Draw.Numbers, "").String(), s.Draw.Bonus)
	}

	header := []string{"#", "Numbers", "Strategy"}
	if rec.Bonuses != nil {
		header = append(header, "Bonus")
	}
	if s.Draw != nil {
		header = append(header, "Rank")
	}
	b.WriteString("| " + strings.Join(header, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")

	for i, set := range rec.Sets {
		label, ok := strategyLabels[set.Strategy]
		if !ok {
			label = string(set.Strategy)
		}
		cells := []string{fmt.Sprint(i + 1), set.String(), label}
		if rec.Bonuses != nil {
			bonus := ""
			if i < len(rec.Bonuses) {
				bonus = fmt.Sprint(rec.Bonuses[i])
			}
			cells = append(cells, bonus)
		}
		if s.Draw != nil {
			cells = append(cells, rankLabel(lotto.Rank(set.Numbers, *s.Draw)))
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

// HTML renders the Markdown sheet to an HTML fragment
func (s Sheet) HTML() []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(s.Markdown()), p, renderer)
}
