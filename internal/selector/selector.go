// Package selector narrows the candidate pool to the published sets.
package selector

import (
	"sort"

	"luckystat/domain/lotto"
)

// Selection sizes
const (
	FinalCount         = 10
	CorrectionAttempts = 10
)

// ConsecutiveDrawer produces replacement sets for the correction pass
type ConsecutiveDrawer interface {
	WithConsecutive(count int, exclude []int) []int
}

// Outcome is the selected sets plus how many of them the correction pass replaced
type Outcome struct {
	Sets        []lotto.CandidateSet
	Corrections int
}

type scored struct {
	index int
	score int
}

// Select scores every pool set by the pool-wide popularity of its numbers, keeps the
// FinalCount best (pool order breaks ties) and then replaces selected sets that lack
// a consecutive pair, using up to CorrectionAttempts draws from drawer per set.
func Select(pool []lotto.CandidateSet, drawer ConsecutiveDrawer) Outcome {
	numberCount := make(map[int]int, lotto.MaxNumber)
	for _, set := range pool {
		for _, n := range set.Numbers {
			numberCount[n]++
		}
	}

	ranking := make([]scored, len(pool))
	for i, set := range pool {
		score := 0
		for _, n := range set.Numbers {
			score += numberCount[n]
		}
		ranking[i] = scored{index: i, score: score}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].score > ranking[j].score
	})

	if len(ranking) > FinalCount {
		ranking = ranking[:FinalCount]
	}

	out := Outcome{Sets: make([]lotto.CandidateSet, len(ranking))}
	for i, r := range ranking {
		out.Sets[i] = pool[r.index].Clone()
	}

	for i, set := range out.Sets {
		if lotto.HasConsecutivePair(set.Numbers) {
			continue
		}
		for attempt := 0; attempt < CorrectionAttempts; attempt++ {
			replacement := drawer.WithConsecutive(lotto.SetSize, nil)
			if lotto.HasConsecutivePair(replacement) {
				out.Sets[i] = lotto.NewCandidateSet(replacement, set.Strategy)
				out.Corrections++
				break
			}
		}
	}

	return out
}
