package report

import (
	"strings"
	"testing"
	"time"

	"luckystat/domain/lotto"
	"luckystat/domain/week"
	"luckystat/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(bonuses []int) models.ResultRecord {
	at := time.Date(2025, 1, 2, 16, 30, 0, 0, week.Zone)
	id := week.Current(at)
	return models.NewResultRecord(id, week.SeedFor(id), lotto.ResultSet{
		lotto.NewCandidateSet([]int{26, 30, 33, 38, 39, 40}, lotto.StrategyWeighted),
		lotto.NewCandidateSet([]int{1, 2, 3, 4, 5, 6}, lotto.StrategyRandom),
	}, bonuses, at)
}

func TestMarkdownPlain(t *testing.T) {
	md := Sheet{Record: sampleRecord(nil)}.Markdown()
	lines := strings.Split(strings.TrimSpace(md), "\n")

	assert.Equal(t, "# LuckyStat 2025-W2870", lines[0])
	assert.Contains(t, md, "Week starting 2025.01.02 16:30 KST, seed 1965770581.")
	assert.Contains(t, md, "| # | Numbers | Strategy |\n| --- | --- | --- |\n")
	assert.Contains(t, md, "| 1 | 26 30 33 38 39 40 | Weighted |")
	assert.Equal(t, "| 2 | 1 2 3 4 5 6 | Random |", lines[len(lines)-1])
}

func TestMarkdownWithBonusAndRanks(t *testing.T) {
	draw := lotto.DefaultDraws[1]
	md := Sheet{Record: sampleRecord([]int{41, 7}), Draw: &draw}.Markdown()

	assert.Contains(t, md, "Graded against round 1198 (2025.11.15): 26 30 33 38 39 41 + 21.")
	assert.Contains(t, md, "| # | Numbers | Strategy | Bonus | Rank |")
	assert.Contains(t, md, "| 1 | 26 30 33 38 39 40 | Weighted | 41 | 3등 |")
	assert.Contains(t, md, "| 2 | 1 2 3 4 5 6 | Random | 7 | - |")
}

func TestHTMLRendersTable(t *testing.T) {
	out := string(Sheet{Record: sampleRecord(nil)}.HTML())
	require.Contains(t, out, "<table>")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<td>26 30 33 38 39 40</td>")
}
