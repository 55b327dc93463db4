package lotto

import (
	"fmt"
	"sort"
)

// Draw is an official winning draw: six main numbers plus a bonus
type Draw struct {
	Round   int    `json:"round" yaml:"round"`
	Date    string `json:"date" yaml:"date"`
	Numbers []int  `json:"numbers" yaml:"numbers"`
	Bonus   int    `json:"bonus" yaml:"bonus"`
}

// Validate checks the main numbers form a valid set and the bonus is distinct from them
func (d Draw) Validate() error {
	set := NewCandidateSet(d.Numbers, "")
	if err := set.Validate(); err != nil {
		return fmt.Errorf("round %d: %w", d.Round, err)
	}
	if d.Bonus < MinNumber || d.Bonus > MaxNumber {
		return fmt.Errorf("round %d: bonus %d out of range", d.Round, d.Bonus)
	}
	for _, n := range set.Numbers {
		if n == d.Bonus {
			return fmt.Errorf("round %d: bonus %d repeats a main number", d.Round, d.Bonus)
		}
	}
	return nil
}

// NoPrize is the rank of a combination matching fewer than three numbers
const NoPrize = 0

// Rank grades numbers against a draw:
// 6 matches -> 1, 5 + bonus -> 2, 5 -> 3, 4 -> 4, 3 -> 5, otherwise NoPrize.
func Rank(numbers []int, draw Draw) int {
	matches := 0
	bonus := false
	for _, n := range numbers {
		for _, w := range draw.Numbers {
			if n == w {
				matches++
				break
			}
		}
		if n == draw.Bonus {
			bonus = true
		}
	}

	switch {
	case matches == 6:
		return 1
	case matches == 5 && bonus:
		return 2
	case matches == 5:
		return 3
	case matches == 4:
		return 4
	case matches == 3:
		return 5
	}
	return NoPrize
}

// RankedSet pairs a candidate set with its rank against a draw
type RankedSet struct {
	CandidateSet
	Rank int `json:"rank"`
}

// CheckAll ranks every set against the draw, keeping input order
func CheckAll(sets []CandidateSet, draw Draw) []RankedSet {
	out := make([]RankedSet, len(sets))
	for i, set := range sets {
		out[i] = RankedSet{CandidateSet: set.Clone(), Rank: Rank(set.Numbers, draw)}
	}
	return out
}

// LatestDraw returns the draw with the highest round
func LatestDraw(draws []Draw) (Draw, bool) {
	if len(draws) == 0 {
		return Draw{}, false
	}
	sorted := append([]Draw(nil), draws...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Round > sorted[j].Round })
	return sorted[0], true
}

// FindDraw looks a draw up by round
func FindDraw(draws []Draw, round int) (Draw, bool) {
	for _, d := range draws {
		if d.Round == round {
			return d, true
		}
	}
	return Draw{}, false
}

// DefaultDraws are the published results the service ships with
var DefaultDraws = []Draw{
	{Round: 1197, Date: "2025.11.08", Numbers: []int{1, 5, 7, 26, 28, 43}, Bonus: 30},
	{Round: 1198, Date: "2025.11.15", Numbers: []int{26, 30, 33, 38, 39, 41}, Bonus: 21},
}
