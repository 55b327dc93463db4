package lotto

import (
	"encoding/json"
	"fmt"
	"sort"
)

// NumberStats holds the historical occurrence count of every number 1..45.
// Index 0 is unused so stats[n] reads naturally.
type NumberStats [MaxNumber + 1]int

// NewNumberStats returns stats with every count at zero
func NewNumberStats() NumberStats {
	return NumberStats{}
}

// StatsFromMap builds stats from a sparse map; missing numbers count zero
func StatsFromMap(counts map[int]int) (NumberStats, error) {
	var stats NumberStats
	for n, c := range counts {
		if n < MinNumber || n > MaxNumber {
			return stats, fmt.Errorf("number %d out of range %d-%d", n, MinNumber, MaxNumber)
		}
		if c < 0 {
			return stats, fmt.Errorf("negative count %d for number %d", c, n)
		}
		stats[n] = c
	}
	return stats, nil
}

// Count returns the count of n, zero when n is outside the domain
func (s NumberStats) Count(n int) int {
	if n < MinNumber || n > MaxNumber {
		return 0
	}
	return s[n]
}

// Map returns the stats as a number -> count map covering 1..45
func (s NumberStats) Map() map[int]int {
	out := make(map[int]int, MaxNumber)
	for n := MinNumber; n <= MaxNumber; n++ {
		out[n] = s[n]
	}
	return out
}

// MarshalJSON encodes the stats as a {"1": count, ..., "45": count} object
func (s NumberStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON accepts the object form written by MarshalJSON
func (s *NumberStats) UnmarshalJSON(data []byte) error {
	var counts map[int]int
	if err := json.Unmarshal(data, &counts); err != nil {
		return err
	}
	stats, err := StatsFromMap(counts)
	if err != nil {
		return err
	}
	*s = stats
	return nil
}

// Validate reports negative counts
func (s NumberStats) Validate() error {
	for n := MinNumber; n <= MaxNumber; n++ {
		if s[n] < 0 {
			return fmt.Errorf("negative count %d for number %d", s[n], n)
		}
	}
	return nil
}

// Total is the sum of all counts
func (s NumberStats) Total() int {
	total := 0
	for n := MinNumber; n <= MaxNumber; n++ {
		total += s[n]
	}
	return total
}

// Record increments the count of every number of a drawn combination
func (s *NumberStats) Record(numbers []int) error {
	for _, n := range numbers {
		if n < MinNumber || n > MaxNumber {
			return fmt.Errorf("number %d out of range %d-%d", n, MinNumber, MaxNumber)
		}
	}
	for _, n := range numbers {
		s[n]++
	}
	return nil
}

// Ranked returns numbers ordered by count, descending when desc is set.
// Ties keep ascending number order.
func (s NumberStats) Ranked(desc bool) []int {
	numbers := make([]int, 0, MaxNumber)
	for n := MinNumber; n <= MaxNumber; n++ {
		numbers = append(numbers, n)
	}
	sort.SliceStable(numbers, func(i, j int) bool {
		if desc {
			return s[numbers[i]] > s[numbers[j]]
		}
		return s[numbers[i]] < s[numbers[j]]
	})
	return numbers
}

// RangeLabel names the 10-wide display bucket of a number: 1-10, 11-20, ... 41-45.
// Empty for numbers outside the domain.
func RangeLabel(n int) string {
	switch {
	case n >= 1 && n <= 10:
		return "1-10"
	case n >= 11 && n <= 20:
		return "11-20"
	case n >= 21 && n <= 30:
		return "21-30"
	case n >= 31 && n <= 40:
		return "31-40"
	case n >= 41 && n <= 45:
		return "41-45"
	}
	return ""
}

// RangeLabels lists the display buckets in order
var RangeLabels = []string{"1-10", "11-20", "21-30", "31-40", "41-45"}

// RangeStat is the share of all occurrences falling into a 5-wide bucket
type RangeStat struct {
	Range   string  `json:"range"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// RangeStats groups counts into the nine 5-wide buckets 1-5 .. 41-45
func (s NumberStats) RangeStats() []RangeStat {
	total := s.Total()
	out := make([]RangeStat, 0, MaxNumber/5)
	for lo := MinNumber; lo <= MaxNumber; lo += 5 {
		hi := lo + 4
		count := 0
		for n := lo; n <= hi; n++ {
			count += s[n]
		}
		var pct float64
		if total > 0 {
			pct = float64(count) * 100 / float64(total)
		}
		out = append(out, RangeStat{
			Range:   fmt.Sprintf("%d-%d", lo, hi),
			Count:   count,
			Percent: pct,
		})
	}
	return out
}

// MissingNumbers groups the numbers that never occurred by display bucket
func (s NumberStats) MissingNumbers() map[string][]int {
	out := make(map[string][]int, len(RangeLabels))
	for _, label := range RangeLabels {
		out[label] = []int{}
	}
	for n := MinNumber; n <= MaxNumber; n++ {
		if s[n] == 0 {
			label := RangeLabel(n)
			out[label] = append(out[label], n)
		}
	}
	return out
}
