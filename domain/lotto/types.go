// Package lotto holds the value types shared by the generator, the selector and the
// outer services: number statistics, candidate sets and winning draws.
package lotto

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Number domain of the 6/45 game
const (
	MinNumber = 1
	MaxNumber = 45
	SetSize   = 6
)

// Strategy labels the generation strategy that produced a candidate set
type Strategy string

const (
	StrategyRandom              Strategy = "random"
	StrategyWeighted            Strategy = "weighted"
	StrategyConsecutive         Strategy = "consecutive"
	StrategyWeightedConsecutive Strategy = "weighted_consecutive"
	StrategyExcludeBottom       Strategy = "exclude_bottom"
)

// Valid reports whether s is one of the known strategy labels
func (s Strategy) Valid() bool {
	switch s {
	case StrategyRandom, StrategyWeighted, StrategyConsecutive,
		StrategyWeightedConsecutive, StrategyExcludeBottom:
		return true
	}
	return false
}

// CandidateSet is one generated combination tagged with its strategy.
// Numbers are ascending and distinct.
type CandidateSet struct {
	Numbers  []int    `json:"numbers"`
	Strategy Strategy `json:"type"`
}

// NewCandidateSet sorts a copy of numbers and tags it
func NewCandidateSet(numbers []int, strategy Strategy) CandidateSet {
	cp := append([]int(nil), numbers...)
	sort.Ints(cp)
	return CandidateSet{Numbers: cp, Strategy: strategy}
}

// Clone returns an independent copy of the set
func (c CandidateSet) Clone() CandidateSet {
	return CandidateSet{
		Numbers:  append([]int(nil), c.Numbers...),
		Strategy: c.Strategy,
	}
}

// Validate checks the set holds SetSize distinct ascending numbers in range
func (c CandidateSet) Validate() error {
	if len(c.Numbers) != SetSize {
		return fmt.Errorf("expected %d numbers, got %d", SetSize, len(c.Numbers))
	}
	for i, n := range c.Numbers {
		if n < MinNumber || n > MaxNumber {
			return fmt.Errorf("number %d out of range %d-%d", n, MinNumber, MaxNumber)
		}
		if i > 0 && c.Numbers[i-1] >= n {
			return fmt.Errorf("numbers must be strictly ascending: %v", c.Numbers)
		}
	}
	return nil
}

// String renders the numbers space separated, the clipboard format of the results sheet
func (c CandidateSet) String() string {
	parts := make([]string, len(c.Numbers))
	for i, n := range c.Numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

// ResultSet is the published output of one generation run
type ResultSet []CandidateSet

// Clone deep-copies every set
func (r ResultSet) Clone() ResultSet {
	out := make(ResultSet, len(r))
	for i, set := range r {
		out[i] = set.Clone()
	}
	return out
}

// HasConsecutivePair reports whether any two numbers of the ascending slice differ by one
func HasConsecutivePair(numbers []int) bool {
	for i := 1; i < len(numbers); i++ {
		if numbers[i]-numbers[i-1] == 1 {
			return true
		}
	}
	return false
}

// ParseNumbers parses "1 5 7 26 28 43" or "1,5,7,26,28,43" into a validated ascending set
func ParseNumbers(raw string) ([]int, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	numbers := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		numbers = append(numbers, n)
	}
	set := NewCandidateSet(numbers, "")
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return set.Numbers, nil
}
