package generator

import "luckystat/domain/lotto"

// PoolSize is the number of candidate sets TemporarySets produces
const PoolSize = 18

// poolPlan fixes the order and count of each strategy in the pool
var poolPlan = []struct {
	strategy lotto.Strategy
	count    int
}{
	{lotto.StrategyRandom, 2},
	{lotto.StrategyWeighted, 4},
	{lotto.StrategyConsecutive, 4},
	{lotto.StrategyWeightedConsecutive, 4},
	{lotto.StrategyExcludeBottom, 4},
}

// TemporarySets builds the 18-set candidate pool in its fixed strategy order
func (g *Generator) TemporarySets(stats lotto.NumberStats) []lotto.CandidateSet {
	sets := make([]lotto.CandidateSet, 0, PoolSize)

	for _, step := range poolPlan {
		draw := g.strategyDraw(step.strategy, stats)
		for i := 0; i < step.count; i++ {
			sets = append(sets, lotto.NewCandidateSet(draw(), step.strategy))
		}
	}

	return sets
}

// strategyDraw binds a strategy to its draw. The bottom numbers are computed
// once per pool, before the first exclude_bottom set.
func (g *Generator) strategyDraw(strategy lotto.Strategy, stats lotto.NumberStats) func() []int {
	switch strategy {
	case lotto.StrategyWeighted:
		return func() []int { return g.WeightedNumbers(lotto.SetSize, stats, nil) }
	case lotto.StrategyConsecutive:
		return func() []int { return g.WithConsecutive(lotto.SetSize, nil) }
	case lotto.StrategyWeightedConsecutive:
		return func() []int { return g.WeightedWithConsecutive(lotto.SetSize, stats, nil) }
	case lotto.StrategyExcludeBottom:
		bottom := BottomNumbers(stats, BottomExcludeCount)
		return func() []int { return g.WeightedNumbers(lotto.SetSize, stats, bottom) }
	default:
		return func() []int { return g.UniqueNumbers(lotto.SetSize, nil) }
	}
}
