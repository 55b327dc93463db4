// Package generator produces candidate number combinations from a seeded stream.
//
// Every method draws from the single random.Source the Generator was built with,
// and the order of those draws is what makes a week's output reproducible. Do not
// reorder calls or add draws without accepting that every published set changes.
package generator

import (
	"sort"

	"luckystat/domain/lotto"
	"luckystat/internal/random"
)

// Retry budgets of the constrained draws
const (
	ConsecutiveAttempts = 1000
	BottomExcludeCount  = 10
)

// Option configures a Generator
type Option func(*Generator)

// WithLegacyWeighting scales each weighted pick by the fixed sum over all eligible
// numbers instead of the sum over the numbers still unpicked. This reproduces the
// sets published by the web client.
func WithLegacyWeighting() Option {
	return func(g *Generator) {
		g.legacyWeighting = true
	}
}

// Generator implements the candidate strategies over one random stream
type Generator struct {
	rng             *random.Source
	legacyWeighting bool

	// constraintFallbacks counts constrained draws that ran out of attempts
	constraintFallbacks int
}

// New creates a generator drawing from rng
func New(rng *random.Source, opts ...Option) *Generator {
	g := &Generator{rng: rng}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ConstraintFallbacks reports how many constrained draws degraded to an unconstrained result
func (g *Generator) ConstraintFallbacks() int {
	return g.constraintFallbacks
}

// eligible lists 1..45 minus exclude in ascending order
func eligible(exclude []int) []int {
	skip := make(map[int]bool, len(exclude))
	for _, n := range exclude {
		skip[n] = true
	}
	out := make([]int, 0, lotto.MaxNumber)
	for n := lotto.MinNumber; n <= lotto.MaxNumber; n++ {
		if !skip[n] {
			out = append(out, n)
		}
	}
	return out
}

// UniqueNumbers draws count distinct numbers uniformly from 1..45 minus exclude.
// The result is shorter than count only when the eligible pool runs out.
func (g *Generator) UniqueNumbers(count int, exclude []int) []int {
	pool := eligible(exclude)
	picked := make([]int, 0, count)

	for len(picked) < count && len(pool) > 0 {
		idx := g.rng.Intn(len(pool))
		picked = append(picked, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}

	sort.Ints(picked)
	return picked
}

// weight of a number: its count, floored at 1 so every number stays selectable
func weight(stats lotto.NumberStats, n int) float64 {
	if c := stats.Count(n); c > 0 {
		return float64(c)
	}
	return 1
}

// WeightedNumbers draws count distinct numbers with probability proportional to
// their historical count. A pick walks the ascending eligible numbers subtracting
// weights from a scaled uniform value; if floating-point residue leaves nothing
// picked, a uniform pick among the remaining numbers is made instead.
func (g *Generator) WeightedNumbers(count int, stats lotto.NumberStats, exclude []int) []int {
	available := eligible(exclude)
	weights := make(map[int]float64, len(available))
	var fixedTotal float64
	for _, n := range available {
		weights[n] = weight(stats, n)
		fixedTotal += weights[n]
	}

	selected := make(map[int]bool, count)
	picked := make([]int, 0, count)

	for len(picked) < count && len(picked) < len(available) {
		total := fixedTotal
		if !g.legacyWeighting {
			total = 0
			for _, n := range available {
				if !selected[n] {
					total += weights[n]
				}
			}
		}

		threshold := g.rng.Next() * total
		choice := 0
		for _, n := range available {
			if selected[n] {
				continue
			}
			threshold -= weights[n]
			if threshold <= 0 {
				choice = n
				break
			}
		}

		if choice == 0 {
			remaining := make([]int, 0, len(available)-len(picked))
			for _, n := range available {
				if !selected[n] {
					remaining = append(remaining, n)
				}
			}
			choice = remaining[g.rng.Intn(len(remaining))]
		}

		selected[choice] = true
		picked = append(picked, choice)
	}

	sort.Ints(picked)
	return picked
}

// WithConsecutive retries UniqueNumbers until the result holds a consecutive pair
func (g *Generator) WithConsecutive(count int, exclude []int) []int {
	return g.retryForPair(func() []int {
		return g.UniqueNumbers(count, exclude)
	})
}

// WeightedWithConsecutive retries WeightedNumbers until the result holds a consecutive pair
func (g *Generator) WeightedWithConsecutive(count int, stats lotto.NumberStats, exclude []int) []int {
	return g.retryForPair(func() []int {
		return g.WeightedNumbers(count, stats, exclude)
	})
}

func (g *Generator) retryForPair(draw func() []int) []int {
	numbers, ok := retry(ConsecutiveAttempts, draw, lotto.HasConsecutivePair)
	if ok {
		return numbers
	}
	g.constraintFallbacks++
	return draw()
}

// BottomNumbers returns the count least frequent numbers.
// Ties keep ascending number order.
func BottomNumbers(stats lotto.NumberStats, count int) []int {
	ranked := stats.Ranked(false)
	if count > len(ranked) {
		count = len(ranked)
	}
	if count < 0 {
		count = 0
	}
	return ranked[:count]
}

// Bonus draws one number outside main
func (g *Generator) Bonus(main []int) int {
	pool := eligible(main)
	if len(pool) == 0 {
		return g.rng.Intn(lotto.MaxNumber) + lotto.MinNumber
	}
	return pool[g.rng.Intn(len(pool))]
}
