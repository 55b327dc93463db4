package lotto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasConsecutivePair(t *testing.T) {
	tests := []struct {
		numbers  []int
		expected bool
	}{
		{[]int{1, 2, 10, 20, 30, 40}, true},
		{[]int{1, 3, 5, 7, 9, 11}, false},
		{[]int{40, 42, 43, 45}, true},
		{[]int{}, false},
		{[]int{7}, false},
	}

	for _, test := range tests {
		if got := HasConsecutivePair(test.numbers); got != test.expected {
			t.Errorf("HasConsecutivePair(%v) = %v, want %v", test.numbers, got, test.expected)
		}
	}
}

func TestCandidateSetValidate(t *testing.T) {
	assert.NoError(t, NewCandidateSet([]int{45, 1, 7, 26, 28, 5}, StrategyRandom).Validate())
	assert.Error(t, CandidateSet{Numbers: []int{1, 2, 3}}.Validate())
	assert.Error(t, CandidateSet{Numbers: []int{0, 2, 3, 4, 5, 6}}.Validate())
	assert.Error(t, CandidateSet{Numbers: []int{1, 2, 3, 4, 5, 46}}.Validate())
	assert.Error(t, CandidateSet{Numbers: []int{1, 2, 2, 4, 5, 6}}.Validate())
}

func TestCandidateSetCloneIsIndependent(t *testing.T) {
	original := NewCandidateSet([]int{1, 2, 3, 4, 5, 6}, StrategyWeighted)
	clone := original.Clone()
	clone.Numbers[0] = 44

	assert.Equal(t, 1, original.Numbers[0])
	assert.Equal(t, StrategyWeighted, clone.Strategy)
	assert.Equal(t, "1 2 3 4 5 6", original.String())
}

func TestParseNumbers(t *testing.T) {
	numbers, err := ParseNumbers("43, 1 5 7,26 28")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 7, 26, 28, 43}, numbers)

	_, err = ParseNumbers("1 2 3")
	assert.Error(t, err)
	_, err = ParseNumbers("1 2 3 4 5 x")
	assert.Error(t, err)
}

func TestStatsFromMap(t *testing.T) {
	stats, err := StatsFromMap(map[int]int{1: 4, 45: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Count(1))
	assert.Equal(t, 0, stats.Count(2))
	assert.Equal(t, 6, stats.Total())
	assert.Len(t, stats.Map(), MaxNumber)

	_, err = StatsFromMap(map[int]int{46: 1})
	assert.Error(t, err)
	_, err = StatsFromMap(map[int]int{3: -1})
	assert.Error(t, err)
}

func TestStatsJSON(t *testing.T) {
	stats := NewNumberStats()
	stats[7] = 12
	raw, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"7":12`)
	assert.Contains(t, string(raw), `"45":0`)

	var decoded NumberStats
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, stats, decoded)

	assert.Error(t, json.Unmarshal([]byte(`{"46": 1}`), &decoded))
}

func TestStatsRecord(t *testing.T) {
	stats := NewNumberStats()
	require.NoError(t, stats.Record([]int{1, 2, 3, 4, 5, 6}))
	require.NoError(t, stats.Record([]int{1, 10, 20, 30, 40, 45}))

	assert.Equal(t, 2, stats[1])
	assert.Equal(t, 1, stats[45])
	assert.Equal(t, 12, stats.Total())

	assert.Error(t, stats.Record([]int{1, 99}))
	assert.Equal(t, 2, stats[1], "failed record must not partially apply")
}

func TestStatsRanked(t *testing.T) {
	stats := NewNumberStats()
	stats[7] = 5
	stats[3] = 5
	stats[44] = 9

	desc := stats.Ranked(true)
	assert.Equal(t, []int{44, 3, 7}, desc[:3])

	asc := stats.Ranked(false)
	assert.Equal(t, 1, asc[0])
	assert.Equal(t, 44, asc[len(asc)-1])
}

func TestRangeStats(t *testing.T) {
	stats := NewNumberStats()
	stats[1] = 3
	stats[5] = 1
	stats[45] = 4

	ranges := stats.RangeStats()
	require.Len(t, ranges, 9)
	assert.Equal(t, "1-5", ranges[0].Range)
	assert.Equal(t, 4, ranges[0].Count)
	assert.InDelta(t, 50.0, ranges[0].Percent, 1e-9)
	assert.Equal(t, "41-45", ranges[8].Range)
	assert.InDelta(t, 50.0, ranges[8].Percent, 1e-9)

	empty := NewNumberStats().RangeStats()
	assert.Zero(t, empty[0].Percent)
}

func TestMissingNumbers(t *testing.T) {
	stats := NewNumberStats()
	for n := MinNumber; n <= MaxNumber; n++ {
		stats[n] = 1
	}
	stats[2] = 0
	stats[41] = 0

	missing := stats.MissingNumbers()
	assert.Equal(t, []int{2}, missing["1-10"])
	assert.Equal(t, []int{41}, missing["41-45"])
	assert.Empty(t, missing["21-30"])
}

func TestRangeLabel(t *testing.T) {
	assert.Equal(t, "1-10", RangeLabel(10))
	assert.Equal(t, "11-20", RangeLabel(11))
	assert.Equal(t, "41-45", RangeLabel(45))
	assert.Equal(t, "", RangeLabel(46))
}

func TestRank(t *testing.T) {
	draw := Draw{Round: 1197, Numbers: []int{1, 5, 7, 26, 28, 43}, Bonus: 30}

	tests := []struct {
		name     string
		numbers  []int
		expected int
	}{
		{"all six", []int{1, 5, 7, 26, 28, 43}, 1},
		{"five plus bonus", []int{1, 5, 7, 26, 28, 30}, 2},
		{"five", []int{1, 5, 7, 26, 28, 44}, 3},
		{"four", []int{1, 5, 7, 26, 40, 44}, 4},
		{"three", []int{1, 5, 7, 30, 40, 44}, 5},
		{"two plus bonus", []int{1, 5, 30, 31, 40, 44}, NoPrize},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Rank(test.numbers, draw))
		})
	}
}

func TestCheckAllAndLatestDraw(t *testing.T) {
	latest, ok := LatestDraw(DefaultDraws)
	require.True(t, ok)
	assert.Equal(t, 1198, latest.Round)

	sets := []CandidateSet{
		NewCandidateSet([]int{26, 30, 33, 38, 39, 41}, StrategyRandom),
		NewCandidateSet([]int{1, 2, 3, 4, 5, 6}, StrategyWeighted),
	}
	ranked := CheckAll(sets, latest)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, NoPrize, ranked[1].Rank)

	_, ok = FindDraw(DefaultDraws, 1197)
	assert.True(t, ok)
	_, ok = LatestDraw(nil)
	assert.False(t, ok)

	for _, d := range DefaultDraws {
		assert.NoError(t, d.Validate())
	}
	assert.Error(t, Draw{Numbers: []int{1, 2, 3, 4, 5, 6}, Bonus: 6}.Validate())
}
